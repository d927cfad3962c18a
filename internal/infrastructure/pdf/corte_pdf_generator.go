// Package pdf genera el comprobante imprimible del corte de caja.
//
// Layout (ticket A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio │ Caja + periodo                 │
//	│  RESUMEN: Saldo inicial / Ingresos / Gastos / Calculado      │
//	│           Efectivo contado / Diferencia                      │
//	│  NOTAS                                                       │
//	│  TABLA: Fecha | Tipo | Categoría | Monto | Usuario           │
//	│  FIRMAS                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/imprenta-api/internal/application/caja"
	"github.com/jhoicas/imprenta-api/internal/domain/entity"
)

var _ caja.CortePDFGenerator = (*CortePDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// CortePDFGenerator implementa caja.CortePDFGenerator usando Maroto v2.
type CortePDFGenerator struct {
	businessName string
	printer      *message.Printer
	loc          *time.Location
}

// NewCortePDFGenerator construye el generador. loc nil = hora local del servidor.
func NewCortePDFGenerator(businessName string, loc *time.Location) *CortePDFGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &CortePDFGenerator{
		businessName: businessName,
		printer:      message.NewPrinter(language.Spanish),
		loc:          loc,
	}
}

// GenerateCortePDF genera el comprobante del corte con sus movimientos y devuelve los bytes.
func (g *CortePDFGenerator) GenerateCortePDF(_ context.Context, c *entity.Corte, movements []*entity.Movement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Corte de caja", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRows(c)...)
	if c.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Notas:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(c.Notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(g.movementRows(movements)...)
	m.AddRows(line.NewRow(12))
	m.AddRows(signatureRow(c))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar corte: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *CortePDFGenerator) headerRow(c *entity.Corte) core.Row {
	periodo := fmt.Sprintf("%s - %s",
		c.PeriodStart.In(g.loc).Format("02/01/2006 15:04"),
		c.PeriodEnd.In(g.loc).Format("02/01/2006 15:04"))
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Caja: "+c.CashRegisterID, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("CORTE DE CAJA", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(periodo, props.Text{Size: 8, Align: align.Right, Top: 8}),
			text.New("Folio: "+shortID(c.ID), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func (g *CortePDFGenerator) summaryRows(c *entity.Corte) []core.Row {
	entry := func(label, value string, color *props.Color, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(4),
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(4).Add(text.New(value, props.Text{Style: style, Size: 9, Align: align.Right, Right: 1, Color: color})),
		)
	}
	diffColor := colorPrimary
	if !c.Difference.IsZero() {
		diffColor = colorRed
	}
	return []core.Row{
		entry("Saldo inicial:", g.money(c.OpeningBalance), nil, false),
		entry("(+) Ingresos:", g.money(c.SumInflows), nil, false),
		entry("(-) Gastos:", g.money(c.SumOutflows), nil, false),
		entry("Saldo calculado:", g.money(c.ComputedBalance), colorPrimary, true),
		entry("Efectivo contado:", g.money(c.ObservedValue), nil, false),
		entry("Diferencia:", g.money(c.Difference), diffColor, true),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Tipo", 2, align.Left),
		h("Categoría", 3, align.Left),
		h("Monto", 2, align.Right),
		h("Usuario", 2, align.Left),
	)
}

func (g *CortePDFGenerator) movementRows(movements []*entity.Movement) []core.Row {
	if len(movements) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin movimientos en el periodo", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	out := make([]core.Row, 0, len(movements))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, mv := range movements {
		out = append(out, row.New(6).Add(
			cell(mv.Timestamp.In(g.loc).Format("02/01 15:04"), 3, align.Left),
			cell(mv.Flow, 2, align.Left),
			cell(mv.Category, 3, align.Left),
			cell(g.money(mv.QuantityChanged), 2, align.Right),
			cell(mv.Actor, 2, align.Left),
		))
	}
	return out
}

func signatureRow(c *entity.Corte) core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(sign("Entrega: "+c.CreatedBy), sign("Recibe"))
}

// money formatea con separadores en español: 1234567.5 -> $1.234.567,50.
func (g *CortePDFGenerator) money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
