package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"slash delimited date", "113/05/20", []string{"113", "05", "20"}},
		{"mixed delimiters", "2024-05-20 08:30", []string{"2024", "05", "20", "08", "30"}},
		{"embedded noise", "日期:113年05月20日", []string{"113", "05", "20"}},
		{"leading zeros kept", "007/01/02", []string{"007", "01", "02"}},
		{"no digits", "無資料", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNumbers(tt.input))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024/05/20", FormatDate([]string{"2024", "5", "20"}))
	assert.Equal(t, "2024/01/02", FormatDate([]string{"2024", "01", "02"}))
	assert.Equal(t, "", FormatDate([]string{"2024", "05"}))
	assert.Equal(t, "", FormatDate([]string{"2024", "x", "20"}))
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"minguo date", "113/05/20", "2024/05/20"},
		{"minguo with dashes", "112-01-05", "2023/01/05"},
		{"gregorian passthrough", "2024/05/20", "2024/05/20"},
		{"gregorian re-padded", "2024-5-2", "2024/05/02"},
		{"too few components", "05/20", "05/20"},
		{"no digits", "日期不明", "日期不明"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "08:30:15", NormalizeTime("08:30:15"))
	assert.Equal(t, "14:25:00", NormalizeTime("14:25"))
	assert.Equal(t, DefaultTime, NormalizeTime(""))
	assert.Equal(t, DefaultTime, NormalizeTime("半夜"))
}

func TestNormalizeFragment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"masked account", "0001234*****8901", "48901"},
		{"dashed account", "700-123-45678", "45678"},
		{"already short", "8901", "8901"},
		{"whitespace stripped", " 12345 ", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFragment(tt.input))
		})
	}
}
