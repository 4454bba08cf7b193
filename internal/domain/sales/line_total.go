package sales

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotal calcula el importe de una línea de venta (servicio de dominio).
// Total = Precio * (1 - Descuento/100) * Cantidad
// Con cantidad 0 la línea es un ajuste de precio y el total es el precio neto.
func LineTotal(unitPrice, discountPct decimal.Decimal, quantity int64) decimal.Decimal {
	net := unitPrice.Mul(decimal.NewFromInt(1).Sub(discountPct.Div(hundred)))
	if quantity == 0 {
		return net
	}
	return net.Mul(decimal.NewFromInt(quantity))
}

// ValidDiscount indica si el porcentaje está en el rango 0-100.
func ValidDiscount(discountPct decimal.Decimal) bool {
	return !discountPct.IsNegative() && discountPct.LessThanOrEqual(hundred)
}
