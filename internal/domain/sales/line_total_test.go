package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		qty      int64
		want     string
	}{
		{"sin descuento", "100", "0", 2, "200"},
		{"con descuento", "100", "10", 3, "270"},
		{"devolución", "100", "0", -1, "-100"},
		{"cantidad cero es ajuste de precio", "50", "0", 0, "50"},
		{"ajuste con descuento", "50", "20", 0, "40"},
		{"descuento total", "999", "100", 5, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(d(tt.price), d(tt.discount), tt.qty)
			assert.True(t, d(tt.want).Equal(got), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestValidDiscount(t *testing.T) {
	assert.True(t, ValidDiscount(d("0")))
	assert.True(t, ValidDiscount(d("100")))
	assert.False(t, ValidDiscount(d("-1")))
	assert.False(t, ValidDiscount(d("100.5")))
}
