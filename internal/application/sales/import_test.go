package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

func TestImportHistory_NoTocaStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 10)

	rows := []dto.SaleImportRow{
		{Line: 2, Date: "2024-01-05", ProductCode: "ABC", Quantity: 3, UnitPrice: dec("100"), PaymentType: "Efectivo"},
		{Line: 3, Date: "2024-01-05", ProductCode: "NOPE", Quantity: 1, UnitPrice: dec("10")},
		{Line: 4, Date: "2024-01-06", ProductCode: "ABC", Quantity: -1, UnitPrice: dec("100")},
	}
	rejected := []dto.ImportRowError{{Line: 5, Message: "fila sin fecha, código o cantidad"}}

	out, err := h.uc.ImportHistory(ctx, comercio, rows, rejected)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Imported)
	assert.Equal(t, 2, out.Skipped)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 5, out.Errors[0].Line, "primero los rechazos de lectura")
	assert.Equal(t, 3, out.Errors[1].Line)
	assert.Equal(t, "NOPE", out.Errors[1].Code)

	assert.Equal(t, int64(10), h.stock(t, comercio, "ABC"), "las ventas históricas no descuentan stock")

	list, err := h.uc.ListByDate(ctx, comercio, "2024-01-05")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, dec("300").Equal(list[0].Total))
	assert.Equal(t, "Principal", list[0].Register)

	backups, err := h.backups.List(comercio)
	require.NoError(t, err)
	require.Len(t, backups, 1, "un solo backup por importación")
	assert.Equal(t, "Importación CSV", backups[0].Action)
	assert.Equal(t, "2 ventas importadas, 2 omitidas", backups[0].Detail)
}

func TestImportHistory_SinFilasValidasNoRespalda(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.uc.ImportHistory(ctx, comercio, []dto.SaleImportRow{
		{Line: 2, Date: "05/01/2024", ProductCode: "ABC", Quantity: 1},
	}, nil)
	require.NoError(t, err)
	assert.Zero(t, out.Imported)
	assert.Equal(t, 1, out.Skipped)
	assert.Zero(t, h.salesCount(t, comercio))

	backups, err := h.backups.List(comercio)
	require.NoError(t, err)
	assert.Empty(t, backups)
}
