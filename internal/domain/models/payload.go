package models

import (
	"encoding/json"
	"strconv"
)

const (
	// DataEllipsis marks truncated call data in logged payloads
	DataEllipsis = "..."

	// FactoryDepsPlaceholder replaces bulk factory dependencies in logged payloads
	FactoryDepsPlaceholder = "[ <...> ]"
)

// TxPayload is the raw deployment request as sent to the node
type TxPayload struct {
	Type       uint8       `json:"type"`
	Hash       string      `json:"hash"`
	From       string      `json:"from"`
	To         string      `json:"to,omitempty"`
	Nonce      uint64      `json:"nonce"`
	GasLimit   uint64      `json:"gasLimit"`
	GasPrice   string      `json:"gasPrice,omitempty"`
	GasTipCap  string      `json:"maxPriorityFeePerGas,omitempty"`
	GasFeeCap  string      `json:"maxFeePerGas,omitempty"`
	Value      string      `json:"value"`
	ChainID    uint64      `json:"chainId"`
	Data       string      `json:"data"`
	CustomData *CustomData `json:"customData,omitempty"`
}

// CustomData holds the EIP-712 extension fields of zkSync-style transactions
type CustomData struct {
	GasPerPubdata   string          `json:"gasPerPubdata,omitempty"`
	FactoryDeps     json.RawMessage `json:"factoryDeps,omitempty"`
	PaymasterParams json.RawMessage `json:"paymasterParams,omitempty"`
}

// Redact returns a copy safe for logging: call data is cut to its first third
// and factory dependencies are replaced by a placeholder.
func (p TxPayload) Redact() TxPayload {
	out := p
	out.Data = p.Data[:len(p.Data)/3] + DataEllipsis
	if p.CustomData != nil {
		cd := *p.CustomData
		cd.FactoryDeps = json.RawMessage(strconv.Quote(FactoryDepsPlaceholder))
		out.CustomData = &cd
	}
	return out
}
