package dto

import (
	"github.com/shopspring/decimal"
)

// Modos de importación masiva de productos.
const (
	ImportModeFull       = "full"
	ImportModeAttributes = "attributes"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=64"`
	Description string          `json:"description" validate:"max=300"`
	Category    string          `json:"category" validate:"max=100"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int64           `json:"stock"`
}

// UpdateProductRequest entrada para actualizar un producto. Los campos nil no cambian.
// StockFinal es absoluto (no un delta).
type UpdateProductRequest struct {
	Description *string          `json:"description" validate:"omitempty,max=300"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	StockFinal  *int64           `json:"stock_final"`
}

// SetStockRequest edición unitaria de stock.
type SetStockRequest struct {
	Stock *int64 `json:"stock" validate:"required"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int64           `json:"stock"`
}

// ProductImportRow fila leída de un archivo de importación. Los punteros nil indican
// columnas ausentes o vacías en la fila.
type ProductImportRow struct {
	Line        int
	Code        string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	Stock       *int64
}

// ImportRowError error de una fila que no aborta el lote.
type ImportRowError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult resumen de una importación masiva.
type ImportResult struct {
	Inserted int              `json:"inserted"`
	Updated  int              `json:"updated"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}
