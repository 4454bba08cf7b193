package dto

import "github.com/shopspring/decimal"

// OpeningFloatRequest caja inicial del día.
type OpeningFloatRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// OpeningFloatResponse caja inicial de un día (0 si no se cargó).
type OpeningFloatResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CashMovementRequest ingreso o egreso manual. Kind: in | out.
type CashMovementRequest struct {
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Kind   string          `json:"kind" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
	Detail string          `json:"detail" validate:"max=500"`
}

// UpdateDetailRequest edición del detalle de un movimiento de caja.
type UpdateDetailRequest struct {
	Detail string `json:"detail" validate:"max=500"`
}

// CashMovementResponse salida de un movimiento de caja.
type CashMovementResponse struct {
	ID     int64           `json:"id"`
	Date   string          `json:"date"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Detail string          `json:"detail"`
}

// ClosingResponse cierre diario. Total = OpeningFloat + SalesTotal; los movimientos de
// caja se informan aparte y no suman.
type ClosingResponse struct {
	Date          string                 `json:"date"`
	OpeningFloat  decimal.Decimal        `json:"opening_float"`
	SalesTotal    decimal.Decimal        `json:"sales_total"`
	InvoiceA      decimal.Decimal        `json:"invoice_a"`
	InvoiceB      decimal.Decimal        `json:"invoice_b"`
	Total         decimal.Decimal        `json:"total"`
	CashIn        decimal.Decimal        `json:"cash_in"`
	CashOut       decimal.Decimal        `json:"cash_out"`
	CashNet       decimal.Decimal        `json:"cash_net"`
	SalesCount    int                    `json:"sales_count"`
	Sales         []SaleResponse         `json:"sales"`
	CashMovements []CashMovementResponse `json:"cash_movements"`
}
