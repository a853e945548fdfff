package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"Rp 1.125.000", 1125000},
		{"Rp. 500", 500},
		{"rp1,000", 1000},
		{"RP 127.500", 127500},
		{"1125000", 1125000},
		{"  42  ", 42},
		{"-500", -500},
		{"1.125.000,50", 112500050},
		{"abc", 0},
		{"", 0},
		{"Rp", 0},
		{"99999999999999999999", 0},
		{"Rp 18.446.744.073.709.551.617", 0},
		{"-99999999999999999999", 0},
		{"9223372036854775807", 9223372036854775807},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.input))
		})
	}
}

func TestParseAmountText_ReportsNonNumeric(t *testing.T) {
	_, ok := parseAmountText("twelve")
	assert.False(t, ok)

	amount, ok := parseAmountText("Rp 0")
	assert.True(t, ok)
	assert.Equal(t, int64(0), amount)
}

func TestParseAmountText_RejectsOutOfRange(t *testing.T) {
	_, ok := parseAmountText("99999999999999999999")
	assert.False(t, ok)
}
