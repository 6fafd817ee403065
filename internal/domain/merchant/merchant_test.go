package merchant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "plain number", input: `{"amount": 1250}`, expected: 1250},
		{name: "decimal number", input: `{"amount": 12.5}`, expected: 12.5},
		{name: "numeric string", input: `{"amount": "990"}`, expected: 990},
		{name: "non-numeric string", input: `{"amount": "n/a"}`, expected: 0},
		{name: "null", input: `{"amount": null}`, expected: 0},
		{name: "missing", input: `{}`, expected: 0},
		{name: "object", input: `{"amount": {"value": 5}}`, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tx Transaction
			require.NoError(t, json.Unmarshal([]byte(tt.input), &tx))
			assert.Equal(t, tt.expected, float64(tx.Amount))
		})
	}
}

func TestAddress_Complete(t *testing.T) {
	full := &Address{Line1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701"}
	assert.True(t, full.Complete())

	assert.False(t, (*Address)(nil).Complete())
	assert.False(t, (&Address{Line1: "1 Main St", City: "Austin"}).Complete())
	assert.False(t, (&Address{City: "Austin", State: "TX", PostalCode: "78701"}).Complete())
}
