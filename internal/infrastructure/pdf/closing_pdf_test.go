package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

func TestFormatARS(t *testing.T) {
	cases := map[string]string{
		"199990":  "$199.990,00",
		"1500.5":  "$1.500,50",
		"0":       "$0,00",
		"999":     "$999,00",
		"-1234.5": "-$1.234,50",
		"1000000": "$1.000.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatARS(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateClosingPDF(t *testing.T) {
	c := &dto.ClosingResponse{
		Date:         "2024-01-15",
		OpeningFloat: decimal.NewFromInt(1000),
		SalesTotal:   decimal.NewFromInt(250),
		InvoiceB:     decimal.NewFromInt(250),
		Total:        decimal.NewFromInt(1250),
		CashIn:       decimal.NewFromInt(100),
		CashNet:      decimal.NewFromInt(100),
		SalesCount:   2,
		Sales: []dto.SaleResponse{
			{ID: 1, ProductCode: "ABC", Description: "Remera", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200), InvoiceClass: "B"},
			{ID: 2, Quantity: 0, UnitPrice: decimal.NewFromInt(50), Total: decimal.NewFromInt(50), Category: "Cambio", InvoiceClass: "B"},
		},
		CashMovements: []dto.CashMovementResponse{{ID: 1, Kind: "in", Amount: decimal.NewFromInt(100), Detail: "cambio"}},
	}

	out, err := NewMarotoClosingGenerator().GenerateClosingPDF(context.Background(), "Kiosco Centro", c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "salida PDF")
}

func TestGenerateClosingPDF_SinVentas(t *testing.T) {
	out, err := NewMarotoClosingGenerator().GenerateClosingPDF(context.Background(), "Kiosco", &dto.ClosingResponse{Date: "2024-01-15"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
