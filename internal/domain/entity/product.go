package entity

import "github.com/shopspring/decimal"

// Product artículo del catálogo de un comercio. Code es la clave de negocio.
// Stock es el contador autoritativo: solo lo modifican el catálogo, las ventas y los cambios.
type Product struct {
	Code        string
	Description string
	Category    string
	Price       decimal.Decimal // precio público
	Cost        decimal.Decimal
	Stock       int64
}
