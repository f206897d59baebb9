package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxPayloadRedact(t *testing.T) {
	placeholder := json.RawMessage(`"[ <...> ]"`)

	tests := []struct {
		name       string
		payload    TxPayload
		wantData   string
		wantCustom *CustomData
	}{
		{
			name:     "length divisible by three",
			payload:  TxPayload{Data: "abcdefghi"},
			wantData: "abc...",
		},
		{
			name:     "length rounds down",
			payload:  TxPayload{Data: "0x6080604052"},
			wantData: "0x60...",
		},
		{
			name:     "shorter than three characters",
			payload:  TxPayload{Data: "ab"},
			wantData: "...",
		},
		{
			name:     "empty data",
			payload:  TxPayload{},
			wantData: "...",
		},
		{
			name: "factory deps replaced",
			payload: TxPayload{
				Data: "abcdef",
				CustomData: &CustomData{
					GasPerPubdata: "50000",
					FactoryDeps:   json.RawMessage(`["0x0100","0x0200"]`),
				},
			},
			wantData:   "ab...",
			wantCustom: &CustomData{GasPerPubdata: "50000", FactoryDeps: placeholder},
		},
		{
			name: "custom data without factory deps",
			payload: TxPayload{
				Data:       "abcdef",
				CustomData: &CustomData{GasPerPubdata: "50000"},
			},
			wantData:   "ab...",
			wantCustom: &CustomData{GasPerPubdata: "50000", FactoryDeps: placeholder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.payload
			var originalCustom *CustomData
			if original.CustomData != nil {
				copied := *original.CustomData
				originalCustom = &copied
			}

			redacted := tt.payload.Redact()

			assert.Equal(t, tt.wantData, redacted.Data)
			if tt.wantCustom == nil {
				assert.Nil(t, redacted.CustomData)
			} else {
				require.NotNil(t, redacted.CustomData)
				assert.Equal(t, tt.wantCustom, redacted.CustomData)
			}

			// the payload itself is left alone
			assert.Equal(t, original.Data, tt.payload.Data)
			assert.Equal(t, originalCustom, tt.payload.CustomData)
		})
	}
}

func TestTxPayloadRedactJSON(t *testing.T) {
	payload := TxPayload{
		Data:       "abcdefghi",
		CustomData: &CustomData{FactoryDeps: json.RawMessage(`["0x0100"]`)},
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(payload.Redact()))
	assert.Contains(t, out.String(), `"data":"abc..."`)
	assert.Contains(t, out.String(), `"factoryDeps":"[ <...> ]"`)
}
