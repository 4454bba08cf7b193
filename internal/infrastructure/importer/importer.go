// Package importer lee planillas de productos (CSV o XLSX) y el historial de ventas (CSV)
// para las importaciones masivas.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
)

// Límite del archivo subido.
const MaxFileSize = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type column int

const (
	colCode column = iota
	colDescription
	colCategory
	colPrice
	colCost
	colStock
)

// Encabezados aceptados, ya normalizados (minúsculas, sin acentos ni separadores).
var headerAliases = map[string]column{
	"codigo":        colCode,
	"code":          colCode,
	"cod":           colCode,
	"sku":           colCode,
	"descripcion":   colDescription,
	"description":   colDescription,
	"nombre":        colDescription,
	"articulo":      colDescription,
	"categoria":     colCategory,
	"category":      colCategory,
	"rubro":         colCategory,
	"precio":        colPrice,
	"preciopublico": colPrice,
	"price":         colPrice,
	"publico":       colPrice,
	"costo":         colCost,
	"cost":          colCost,
	"stock":         colStock,
	"cantidad":      colStock,
	"qty":           colStock,
}

// Parse elige el lector según la extensión del archivo (.csv o .xlsx).
func Parse(r io.Reader, filename string) ([]dto.ProductImportRow, []dto.ImportRowError, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	}
	return nil, nil, domain.Invalid("formato de archivo no soportado: %q (csv o xlsx)", filename)
}

// ParseCSV lee un CSV en UTF-8 o Windows-1252 (detectado). El separador es coma o
// punto y coma según el encabezado.
func ParseCSV(r io.Reader) ([]dto.ProductImportRow, []dto.ImportRowError, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}
	return fromRecords(records)
}

func readCSV(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, domain.Invalid("archivo demasiado grande")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// Excel en Windows exporta en cp1252.
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var records []record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.Invalid("csv mal formado: %v", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
	return records, nil
}

// ParseXLSX lee la primera hoja de un libro de Excel.
func ParseXLSX(r io.Reader) ([]dto.ProductImportRow, []dto.ImportRowError, error) {
	f, err := excelize.OpenReader(io.LimitReader(r, MaxFileSize))
	if err != nil {
		return nil, nil, domain.Invalid("xlsx inválido: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, domain.Invalid("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	records := make([]record, len(rows))
	for i, r := range rows {
		records[i] = record{line: i + 1, fields: r}
	}
	return fromRecords(records)
}

// record fila cruda con su número de línea en el archivo (1 = encabezado).
type record struct {
	line   int
	fields []string
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func fromRecords(records []record) ([]dto.ProductImportRow, []dto.ImportRowError, error) {
	if len(records) == 0 {
		return nil, nil, domain.Invalid("archivo vacío")
	}
	index := mapHeader(records[0].fields)
	if _, ok := index[colCode]; !ok {
		return nil, nil, domain.Invalid("falta la columna de código (codigo o code)")
	}

	rows := make([]dto.ProductImportRow, 0, len(records)-1)
	var rowErrs []dto.ImportRowError
	for _, rec := range records[1:] {
		if blank(rec.fields) {
			continue
		}
		row, err := parseRow(rec.fields, index, rec.line)
		if err != nil {
			rowErrs = append(rowErrs, dto.ImportRowError{Line: rec.line, Code: row.Code, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func mapHeader(header []string) map[column]int {
	index := make(map[column]int, len(header))
	for i, h := range header {
		col, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}
	return index
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	if s, _, err := transform.String(stripMarks, h); err == nil {
		h = s
	}
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' || r == '-' || r == '.' {
			return -1
		}
		return r
	}, h)
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func cell(rec []string, index map[column]int, col column) (string, bool) {
	i, ok := index[col]
	if !ok || i >= len(rec) {
		return "", false
	}
	v := strings.TrimSpace(rec[i])
	return v, v != ""
}

func parseRow(rec []string, index map[column]int, line int) (dto.ProductImportRow, error) {
	row := dto.ProductImportRow{Line: line}
	row.Code, _ = cell(rec, index, colCode)
	if row.Code == "" {
		return row, errors.New("fila sin código")
	}
	if v, ok := cell(rec, index, colDescription); ok {
		row.Description = &v
	}
	if v, ok := cell(rec, index, colCategory); ok {
		row.Category = &v
	}
	if v, ok := cell(rec, index, colPrice); ok {
		d, err := ParseARS(v)
		if err != nil {
			return row, fmt.Errorf("precio inválido %q", v)
		}
		row.Price = &d
	}
	if v, ok := cell(rec, index, colCost); ok {
		d, err := ParseARS(v)
		if err != nil {
			return row, fmt.Errorf("costo inválido %q", v)
		}
		row.Cost = &d
	}
	if v, ok := cell(rec, index, colStock); ok {
		d, err := ParseARS(v)
		if err != nil || !d.IsInteger() {
			return row, fmt.Errorf("stock inválido %q", v)
		}
		n := d.IntPart()
		row.Stock = &n
	}
	return row, nil
}

// ParseARS interpreta importes en formato argentino ("$199.990,00" es 199990.00).
// Sin coma decimal, los puntos se toman como separador de miles solo si todos los
// grupos siguientes tienen tres dígitos ("12.500" es 12500, "12.5" es 12.5).
func ParseARS(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '"', '$', ' ', '\u00a0':
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return decimal.Zero, errors.New("importe vacío")
	}
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsOnly(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}

func thousandsOnly(s string) bool {
	parts := strings.Split(strings.TrimPrefix(s, "-"), ".")
	if len(parts) < 2 || parts[0] == "" || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
