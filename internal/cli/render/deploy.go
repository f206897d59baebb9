package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// DeployRenderer renders the outcome of a deploy attempt
type DeployRenderer struct {
	out    io.Writer
	format string
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, format string) *DeployRenderer {
	return &DeployRenderer{out: out, format: format}
}

type deployView struct {
	Contract        string      `json:"contract" yaml:"contract"`
	State           string      `json:"state" yaml:"state"`
	History         []string    `json:"history" yaml:"history"`
	Address         string      `json:"address,omitempty" yaml:"address,omitempty"`
	TransactionHash string      `json:"transactionHash,omitempty" yaml:"transactionHash,omitempty"`
	Environment     string      `json:"environment,omitempty" yaml:"environment,omitempty"`
	Error           string      `json:"error,omitempty" yaml:"error,omitempty"`
	Code            string      `json:"code,omitempty" yaml:"code,omitempty"`
	Payload         interface{} `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Render renders a deploy result; deployErr is the error returned with it, if any
func (r *DeployRenderer) Render(result *usecase.DeployContractResult, deployErr error) error {
	view := deployView{
		Contract: result.Attempt.Contract,
		State:    string(result.Attempt.State),
		History:  lo.Map(result.Attempt.History, func(s domain.DeployState, _ int) string { return string(s) }),
	}
	if result.Payload != nil {
		payload, err := generic(result.Payload)
		if err != nil {
			return err
		}
		view.Payload = payload
	}
	if result.Deployed != nil {
		view.Address = result.Deployed.Address
		view.TransactionHash = result.Deployed.TransactionHash
		view.Environment = result.Deployed.EnvironmentID
	}
	if deployErr != nil {
		view.Error = deployErr.Error()
		view.Code = domain.ErrorCode(deployErr)
	}

	if r.format == FormatJSON || r.format == FormatYAML {
		return writeStructured(r.out, r.format, view)
	}

	if result.Deployed == nil {
		// Failures were already reported through the status sink
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", view.Contract)))
	fmt.Fprintf(r.out, "  Address:     %s\n", addressStyle.Sprint(view.Address))
	fmt.Fprintf(r.out, "  Transaction: %s\n", view.TransactionHash)
	fmt.Fprintf(r.out, "  Environment: %s\n", view.Environment)
	fmt.Fprintf(r.out, "  States:      %s\n", mutedStyle.Sprint(strings.Join(lo.Map(view.History, func(s string, _ int) string {
		return title(s)
	}), " → ")))
	return nil
}

// generic round-trips v through JSON so YAML output uses the JSON field names
func generic(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
