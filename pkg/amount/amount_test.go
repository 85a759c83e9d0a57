package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain integer", "500", "500", false},
		{"thousands separated", "12,345", "12345", false},
		{"decimal places", "1,234.50", "1234.5", false},
		{"negative sign", "-2,000", "-2000", false},
		{"accounting parentheses", "(3,500)", "-3500", false},
		{"currency prefix", "NT$1,000", "1000", false},
		{"trailing unit", "600元", "600", false},
		{"surrounding space", "  7,700 ", "7700", false},
		{"empty", "", "", true},
		{"garbage", "N/A", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestInflowOutflow(t *testing.T) {
	d := decimal.RequireFromString("-1500")

	assert.True(t, Inflow(d).Equal(decimal.RequireFromString("1500")))
	assert.True(t, Outflow(d.Neg()).Equal(decimal.RequireFromString("-1500")))
}
