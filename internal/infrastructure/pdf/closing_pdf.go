// Package pdf genera el comprobante del cierre de caja diario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comercio            │  CIERRE DE CAJA + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Cant | Precio | Desc | Total │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Caja inicial / Ventas / A / B / TOTAL             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS DE CAJA (informativos)                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/cashdrawer"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ cashdrawer.ClosingPDFGenerator = (*MarotoClosingGenerator)(nil)

// MarotoClosingGenerator implementa cashdrawer.ClosingPDFGenerator usando Maroto v2.
type MarotoClosingGenerator struct{}

// NewMarotoClosingGenerator construye el generador.
func NewMarotoClosingGenerator() *MarotoClosingGenerator { return &MarotoClosingGenerator{} }

// GenerateClosingPDF genera el PDF y devuelve sus bytes.
func (g *MarotoClosingGenerator) GenerateClosingPDF(_ context.Context, businessName string, c *dto.ClosingResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cierre de caja "+c.Date, true).
		WithAuthor(businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(businessName, c.Date))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(saleRows(c.Sales)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(c))

	if len(c.CashMovements) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(cashMovementRows(c)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(businessName, date string) core.Row {
	fecha := date
	if t, err := time.Parse(domain.DateLayout, date); err == nil {
		fecha = t.Format("02/01/2006")
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("CIERRE DE CAJA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
		h("Desc.", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

func saleRows(sales []dto.SaleResponse) []core.Row {
	if len(sales) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin ventas registradas.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	result := make([]core.Row, 0, len(sales))
	for _, s := range sales {
		desc := nonEmpty(s.Description, nonEmpty(s.Category, nonEmpty(s.Note, "-")))
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(nonEmpty(s.ProductCode, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(s.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(FormatARS(s.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(s.Discount.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(FormatARS(s.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(c *dto.ClosingResponse) core.Row {
	labels := []string{"Caja inicial:", fmt.Sprintf("Ventas (%d):", c.SalesCount), "Factura A:", "Factura B:"}
	values := []decimal.Decimal{c.OpeningFloat, c.SalesTotal, c.InvoiceA, c.InvoiceB}

	left := make([]core.Component, 0, len(labels)+1)
	right := make([]core.Component, 0, len(values)+1)
	for i := range labels {
		top := float64(i) * 5
		left = append(left, text.New(labels[i], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		right = append(right, text.New(FormatARS(values[i]), props.Text{
			Size: 9, Align: align.Right, Right: 1, Top: top,
		}))
	}
	left = append(left, text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 21,
	}))
	right = append(right, text.New(FormatARS(c.Total), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 21,
	}))

	return row.New(28).Add(
		col.New(6), // espacio izquierdo
		col.New(3).Add(left...),
		col.New(3).Add(right...),
	)
}

func cashMovementRows(c *dto.ClosingResponse) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("MOVIMIENTOS DE CAJA (no suman al total)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, m := range c.CashMovements {
		kind := "Ingreso"
		if m.Kind == entity.CashOut {
			kind = "Egreso"
		}
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(kind, props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(7).Add(text.New(nonEmpty(m.Detail, "-"), props.Text{Size: 8, Top: 0.5})),
			col.New(3).Add(text.New(FormatARS(m.Amount), props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 1})),
		))
	}
	rows = append(rows, row.New(6).Add(
		col.New(9).Add(text.New(fmt.Sprintf("Ingresos %s  |  Egresos %s  |  Neto:", FormatARS(c.CashIn), FormatARS(c.CashOut)),
			props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray})),
		col.New(3).Add(text.New(FormatARS(c.CashNet), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatARS formatea un importe con puntos de miles y coma decimal.
// Ej: 199990 → "$199.990,00", -1500.5 → "-$1.500,50"
func FormatARS(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
