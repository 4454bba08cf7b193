package entity

import "github.com/shopspring/decimal"

// Exchange cambio de mercadería: se devuelve un artículo y se entrega otro.
type Exchange struct {
	ID               int64
	Date             string
	ReturnedCode     string
	DeliveredCode    string
	ReturnedPrice    decimal.Decimal
	DeliveredPrice   decimal.Decimal
	Difference       decimal.Decimal // DeliveredPrice - ReturnedPrice
	Note             string
	DifferenceSaleID *int64 // venta de cantidad 0 que cobra la diferencia
	CreditMovementID *int64 // saldo a favor acreditado en cuenta corriente
}
