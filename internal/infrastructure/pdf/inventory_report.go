// Package pdf genera el reporte imprimible del inventario valorizado de una sucursal.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre app + Sucursal │ Fecha de corte             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Modelo/Color | Cant | P.Venta | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / VALOR TOTAL                            │
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

	"github.com/jhoicas/glamstock-api/internal/application/dto"
	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 156, Green: 39, Blue: 100}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ inventory.ReportRenderer = (*InventoryReportGenerator)(nil)

// InventoryReportGenerator implementa inventory.ReportRenderer con Maroto v2.
type InventoryReportGenerator struct {
	appName string
	now     func() time.Time
}

func NewInventoryReportGenerator(appName string) *InventoryReportGenerator {
	return &InventoryReportGenerator{appName: appName, now: time.Now}
}

// RenderBranchInventory genera el PDF y devuelve sus bytes.
func (g *InventoryReportGenerator) RenderBranchInventory(
	_ context.Context,
	branch *entity.Branch,
	items []dto.BranchInventoryItem,
	total decimal.Decimal,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventario "+branch.Name, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, branch, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin existencias registradas en esta sucursal.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(itemRows(items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(items, total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(appName string, branch *entity.Branch, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Sucursal: "+branch.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 8,
			}),
			text.New(nonEmpty(branch.Location, "—"), props.Text{
				Size: 8, Top: 13, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVENTARIO VALORIZADO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Corte: "+at.Format("02/01/2006 15:04"), props.Text{
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
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Modelo / Color", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("P. Venta", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

func itemRows(items []dto.BranchInventoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, it := range items {
		result = append(result, row.New(6).Add(
			cell(it.SKU, 2, align.Left),
			cell(it.Name, 3, align.Left),
			cell(variantLabel(it.Model, it.Color), 2, align.Left),
			cell(fmt.Sprintf("%d", it.Quantity), 1, align.Center),
			cell("$"+formatMoney(it.UnitSalePrice), 2, align.Right),
			cell("$"+formatMoney(it.ValuedTotal), 2, align.Right),
		))
	}
	return result
}

func totalsRow(items []dto.BranchInventoryItem, total decimal.Decimal) core.Row {
	var units int64
	for _, it := range items {
		units += it.Quantity
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label(fmt.Sprintf("Unidades: %d", units))),
		col.New(3).Add(label("TOTAL: $"+formatMoney(total))),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func variantLabel(model, color string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{model, color} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return nonEmpty(strings.Join(parts, " / "), "—")
}

// formatMoney formato colombiano: puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
