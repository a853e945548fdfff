package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{127500, "Rp 127.500"},
		{1125000, "Rp 1.125.000"},
		{-374850, "-Rp 374.850"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRupiah(tt.amount))
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.499.850", FormatNumber(1499850))
}
