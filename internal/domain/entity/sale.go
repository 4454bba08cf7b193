package entity

import "github.com/shopspring/decimal"

// Clases de factura.
const (
	InvoiceA = "A"
	InvoiceB = "B"
)

// Sale línea de venta. Quantity es el ajuste exacto aplicado al stock con signo inverso:
// positiva sale mercadería, negativa es una devolución y cero es un ajuste de precio.
type Sale struct {
	ID           int64
	Date         string // YYYY-MM-DD
	ProductCode  string // vacío = línea sin artículo
	Quantity     int64
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal // porcentaje 0-100
	Category     string
	InvoiceClass string
	PaymentType  string
	Note         string
	Register     string // caja
	GroupID      string
	Description  string // descripción del producto (solo lectura, vía JOIN)
}

// HasProduct indica si la línea mueve stock de un artículo.
func (s *Sale) HasProduct() bool {
	return s.ProductCode != ""
}
