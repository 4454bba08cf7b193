package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/domain"
)

func TestParseSalesCSV_FechaYPrecioUnitario(t *testing.T) {
	in := "Fecha,Código,Cantidad,Precio,Categoría,Factura,Tipo de pago\n" +
		"5/1/2024,A1,2,\"$3.000,00\",Ropa,b,Efectivo\n" +
		"\n" +
		"15/01/2024,B2,-1,-500,,X,\n"
	rows, rowErrs, err := ParseSalesCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	a := rows[0]
	assert.Equal(t, 2, a.Line)
	assert.Equal(t, "2024-01-05", a.Date)
	assert.Equal(t, "A1", a.ProductCode)
	assert.Equal(t, int64(2), a.Quantity)
	assert.True(t, decimal.RequireFromString("1500").Equal(a.UnitPrice), "precio unitario = total / cantidad")
	assert.Equal(t, "Ropa", a.Category)
	assert.Equal(t, "B", a.InvoiceClass)
	assert.Equal(t, "Efectivo", a.PaymentType)

	b := rows[1]
	assert.Equal(t, 4, b.Line)
	assert.Equal(t, "2024-01-15", b.Date)
	assert.True(t, decimal.RequireFromString("500").Equal(b.UnitPrice), "devolución: total y cantidad negativos")
	assert.Empty(t, b.InvoiceClass, "una factura desconocida queda vacía")
}

func TestParseSalesCSV_FilasOmitidas(t *testing.T) {
	in := "fecha;codigo;cantidad;precio;categoria;factura;pago\n" +
		"1/2/2024;A1;1;100\n" +
		"#N/A;A1;1;100;;;\n" +
		";A1;1;100;;;\n" +
		"2024-02-01;A1;1;100;;;\n" +
		"31/02/2024;A1;1;100;;;\n" +
		"1/2/2024;A1;0;100;;;\n" +
		"1/2/2024;A1;uno;100;;;\n" +
		"1/2/2024;A1;1;abc;;;\n" +
		"1/2/2024;A1;1;100;;;\n"
	rows, rowErrs, err := ParseSalesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Line)
	require.Len(t, rowErrs, 8)
	for i, e := range rowErrs {
		assert.Equal(t, i+2, e.Line)
	}
}

func TestParseSalesCSV_SinDatos(t *testing.T) {
	_, _, err := ParseSalesCSV(strings.NewReader("fecha,codigo,cantidad,precio,categoria,factura,pago\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = ParseSalesCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
