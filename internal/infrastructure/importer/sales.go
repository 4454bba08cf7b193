package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// Columnas del historial de ventas, por posición. La primera fila es encabezado.
const (
	saleColDate = iota
	saleColCode
	saleColQuantity
	saleColTotal
	saleColCategory
	saleColInvoice
	saleColPayment
	saleColumns
)

// ParseSalesCSV lee un historial de ventas con columnas
// fecha (dd/mm/aaaa), código, cantidad, precio total, categoría, factura, tipo de pago.
// El precio unitario es el total dividido la cantidad. Las filas que no se pueden
// interpretar se devuelven como errores de fila sin abortar el archivo.
func ParseSalesCSV(r io.Reader) ([]dto.SaleImportRow, []dto.ImportRowError, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, domain.Invalid("el archivo está vacío o no tiene datos")
	}

	rows := make([]dto.SaleImportRow, 0, len(records)-1)
	var rowErrs []dto.ImportRowError
	for _, rec := range records[1:] {
		if blank(rec.fields) {
			continue
		}
		row, err := parseSaleRow(rec.fields, rec.line)
		if err != nil {
			rowErrs = append(rowErrs, dto.ImportRowError{Line: rec.line, Code: row.ProductCode, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func parseSaleRow(rec []string, line int) (dto.SaleImportRow, error) {
	row := dto.SaleImportRow{Line: line}
	if len(rec) < saleColumns {
		return row, fmt.Errorf("se esperan %d columnas, hay %d", saleColumns, len(rec))
	}
	field := func(i int) string { return strings.TrimSpace(rec[i]) }

	row.ProductCode = field(saleColCode)
	rawDate, rawQty := field(saleColDate), field(saleColQuantity)
	if rawDate == "" || row.ProductCode == "" || rawQty == "" || strings.Contains(rawDate, "#N/A") {
		return row, errors.New("fila sin fecha, código o cantidad")
	}
	date, err := dayMonthYear(rawDate)
	if err != nil {
		return row, err
	}
	row.Date = date

	total, err := ParseARS(field(saleColTotal))
	if err != nil {
		return row, fmt.Errorf("precio inválido %q", field(saleColTotal))
	}
	qty, err := strconv.ParseInt(rawQty, 10, 64)
	if err != nil || qty == 0 {
		return row, fmt.Errorf("cantidad inválida %q", rawQty)
	}
	row.Quantity = qty
	row.UnitPrice = total.Div(decimal.NewFromInt(qty))

	row.Category = field(saleColCategory)
	if inv := strings.ToUpper(field(saleColInvoice)); inv == entity.InvoiceA || inv == entity.InvoiceB {
		row.InvoiceClass = inv
	}
	row.PaymentType = field(saleColPayment)
	return row, nil
}

// dayMonthYear convierte d/m/aaaa a YYYY-MM-DD.
func dayMonthYear(s string) (string, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("fecha %q (se espera dd/mm/aaaa)", s)
	}
	day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return "", fmt.Errorf("fecha %q (se espera dd/mm/aaaa)", s)
	}
	iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if !domain.ValidDate(iso) {
		return "", fmt.Errorf("fecha inexistente %q", s)
	}
	return iso, nil
}
