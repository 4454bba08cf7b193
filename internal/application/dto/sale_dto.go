package dto

import "github.com/shopspring/decimal"

// SaleLineRequest una línea de venta. Quantity con signo: positiva vende, negativa devuelve,
// cero ajusta precio sin tocar stock.
type SaleLineRequest struct {
	Date         string          `json:"date" validate:"required,datetime=2006-01-02"`
	ProductCode  string          `json:"product_code" validate:"max=64"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	Category     string          `json:"category" validate:"max=100"`
	InvoiceClass string          `json:"invoice_class" validate:"omitempty,oneof=A B"`
	PaymentType  string          `json:"payment_type" validate:"max=50"`
	Note         string          `json:"note" validate:"max=500"`
	Register     string          `json:"register" validate:"max=50"`
}

// RegisterSaleRequest venta de una o más líneas en una sola transacción.
type RegisterSaleRequest struct {
	Lines []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RegisterGroupedSaleRequest venta agrupada; sin GroupID se genera uno.
type RegisterGroupedSaleRequest struct {
	GroupID string            `json:"group_id" validate:"omitempty,max=64"`
	Lines   []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RegisterSaleResponse ids de las líneas creadas.
type RegisterSaleResponse struct {
	IDs []int64 `json:"ids"`
}

// GroupedSaleResponse resultado de una venta agrupada.
type GroupedSaleResponse struct {
	GroupID string  `json:"group_id"`
	Count   int     `json:"count"`
	IDs     []int64 `json:"ids"`
}

// VoidSaleResponse unidades devueltas al stock por la anulación.
type VoidSaleResponse struct {
	ID       int64 `json:"id"`
	Restored int64 `json:"restored"`
}

// VoidGroupResponse resultado de anular un grupo completo.
type VoidGroupResponse struct {
	GroupID  string `json:"group_id"`
	Voided   int    `json:"voided"`
	Restored int64  `json:"restored"`
}

// UpdateNoteRequest edición de la nota (detalles) de una venta.
type UpdateNoteRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// SaleResponse salida de una línea de venta.
type SaleResponse struct {
	ID           int64           `json:"id"`
	Date         string          `json:"date"`
	ProductCode  string          `json:"product_code"`
	Description  string          `json:"description"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Category     string          `json:"category"`
	InvoiceClass string          `json:"invoice_class"`
	PaymentType  string          `json:"payment_type"`
	Note         string          `json:"note"`
	Register     string          `json:"register"`
	GroupID      string          `json:"group_id,omitempty"`
}

// RegisterExchangeRequest cambio de mercadería: vuelve ReturnedCode, sale DeliveredCode.
// Con ChargeDifference y diferencia positiva se registra una venta por la diferencia.
// Con CreditCustomer y diferencia negativa la diferencia queda como saldo a favor del cliente.
type RegisterExchangeRequest struct {
	Date             string          `json:"date" validate:"required,datetime=2006-01-02"`
	ReturnedCode     string          `json:"returned_code" validate:"required,max=64"`
	DeliveredCode    string          `json:"delivered_code" validate:"required,max=64"`
	ReturnedPrice    decimal.Decimal `json:"returned_price"`
	DeliveredPrice   decimal.Decimal `json:"delivered_price"`
	Note             string          `json:"note" validate:"max=500"`
	ChargeDifference bool            `json:"charge_difference"`
	PaymentType      string          `json:"payment_type" validate:"max=50"`
	InvoiceClass     string          `json:"invoice_class" validate:"omitempty,oneof=A B"`
	Register         string          `json:"register" validate:"max=50"`
	CreditCustomer   string          `json:"credit_customer" validate:"max=120"`
}

// ExchangeResponse salida de un cambio.
type ExchangeResponse struct {
	ID               int64           `json:"id"`
	Date             string          `json:"date"`
	ReturnedCode     string          `json:"returned_code"`
	DeliveredCode    string          `json:"delivered_code"`
	ReturnedPrice    decimal.Decimal `json:"returned_price"`
	DeliveredPrice   decimal.Decimal `json:"delivered_price"`
	Difference       decimal.Decimal `json:"difference"`
	Note             string          `json:"note"`
	DifferenceSaleID *int64          `json:"difference_sale_id,omitempty"`
	CreditMovementID *int64          `json:"credit_movement_id,omitempty"`
}

// SaleImportRow línea histórica leída de un archivo. UnitPrice ya es el total dividido la cantidad.
type SaleImportRow struct {
	Line         int
	Date         string
	ProductCode  string
	Quantity     int64
	UnitPrice    decimal.Decimal
	Category     string
	InvoiceClass string
	PaymentType  string
}

// SaleImportResult resumen de una importación de historial de ventas.
type SaleImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}
