package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/samber/lo"
)

// ABIElementType is the kind tag of an ABI element
type ABIElementType string

const (
	ABIConstructor ABIElementType = "constructor"
	ABIFunction    ABIElementType = "function"
	ABIEvent       ABIElementType = "event"
	ABIError       ABIElementType = "error"
	ABIFallback    ABIElementType = "fallback"
	ABIReceive     ABIElementType = "receive"
)

// ABIParam is a single input or output of an ABI element
type ABIParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType,omitempty"`
	Indexed      bool       `json:"indexed,omitempty"`
	Components   []ABIParam `json:"components,omitempty"`
}

// ABIElement is one entry of a contract interface description
type ABIElement struct {
	Type            ABIElementType `json:"type"`
	Name            string         `json:"name,omitempty"`
	Inputs          []ABIParam     `json:"inputs,omitempty"`
	Outputs         []ABIParam     `json:"outputs,omitempty"`
	StateMutability string         `json:"stateMutability,omitempty"`
	Anonymous       bool           `json:"anonymous,omitempty"`
}

// CompiledContract is an immutable artifact produced by the compiler pipeline
type CompiledContract struct {
	Name       string       `json:"contractName"`
	ABI        []ABIElement `json:"abi"`
	Bytecode   string       `json:"bytecode"`
	SourcePath string       `json:"sourcePath,omitempty"`
}

// Constructor returns the constructor element of the ABI, or nil
func (c *CompiledContract) Constructor() *ABIElement {
	if c == nil {
		return nil
	}
	_, idx, ok := lo.FindIndexOf(c.ABI, func(e ABIElement) bool { return e.Type == ABIConstructor })
	if !ok {
		return nil
	}
	return &c.ABI[idx]
}

// ConstructorParamCount returns the number of constructor parameters (0 when absent)
func (c *CompiledContract) ConstructorParamCount() int {
	ctor := c.Constructor()
	if ctor == nil {
		return 0
	}
	return len(ctor.Inputs)
}

// ConstructorSignature returns a display signature such as "constructor(address owner, uint256 supply)"
func (c *CompiledContract) ConstructorSignature() string {
	ctor := c.Constructor()
	if ctor == nil {
		return "constructor()"
	}
	params := lo.Map(ctor.Inputs, func(p ABIParam, _ int) string {
		return strings.TrimSpace(p.Type + " " + p.Name)
	})
	return fmt.Sprintf("constructor(%s)", strings.Join(params, ", "))
}

// ParsedABI parses the ABI with go-ethereum
func (c *CompiledContract) ParsedABI() (*abi.ABI, error) {
	raw, err := json.Marshal(c.ABI)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ABI for %s: %w", c.Name, err)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI for %s: %w", c.Name, err)
	}
	return &parsed, nil
}

// BytecodeSize returns the size of the creation bytecode in bytes
func (c *CompiledContract) BytecodeSize() int {
	return len(strings.TrimPrefix(c.Bytecode, "0x")) / 2
}

// DeployedContract is a compiled contract instantiated on-chain
type DeployedContract struct {
	CompiledContract
	Address         string    `json:"address"`
	TransactionHash string    `json:"transactionHash"`
	EnvironmentID   string    `json:"environment"`
	DeployedAt      time.Time `json:"deployedAt"`
}
