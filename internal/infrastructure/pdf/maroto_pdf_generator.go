// Package pdf implementa los reportes imprimibles del almacén con Maroto v2:
// el resumen de stock y el bono de recepción de una entrada.
//
// Layout de la página A4 del resumen:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Ent kg/ctn | Sal kg/ctn | Saldo  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de productos listados                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.StockPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa usecase.StockPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// StockSummaryPDF genera el resumen de stock y devuelve sus bytes.
func (g *MarotoPDFGenerator) StockSummaryPDF(rows []*repository.StockSummaryRow, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de Stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow("RESUMEN DE STOCK", generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryHeaderRow())
	for _, r := range rows {
		m.AddRows(summaryDetailRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Productos listados: %d", len(rows)), props.Text{
			Size: 8, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar resumen: %w", err)
	}
	return doc.GetBytes(), nil
}

// ReceptionVoucherPDF genera el bono de recepción imprimible de una entrada.
// Los nombres de producto se pasan aparte, indexados por ID.
func (g *MarotoPDFGenerator) ReceptionVoucherPDF(entry *entity.StockEntry, productNames map[string]string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bono de Recepción", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow("BONO DE RECEPCIÓN N° "+entry.ReceptionNumber, entry.ReceptionDate))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Carnet: %s   |   Factura: %s   |   Packing list: %s",
			nonEmpty(entry.CarnetNumber, "—"),
			nonEmpty(entry.InvoiceNumber, "—"),
			nonEmpty(entry.PackingListNumber, "—"),
		), props.Text{Size: 8, Top: 2, Color: colorGray}),
	)))
	m.AddRows(voucherHeaderRow())
	for _, item := range entry.Items {
		m.AddRows(voucherDetailRow(item, productNames[item.ProductID]))
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(16).Add(
		col.New(6).Add(text.New("Recibido por: ______________________", props.Text{Size: 9, Top: 8})),
		col.New(6).Add(text.New("Entregado por: ______________________", props.Text{Size: 9, Top: 8})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar bono: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título (izq) y fecha (der).
func titleRow(title string, date time.Time) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func summaryHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Entradas", 2, align.Right),
		h("Salidas", 2, align.Right),
		h("Saldo kg", 2, align.Right),
		h("Saldo ctn", 1, align.Right),
	)
}

func summaryDetailRow(r *repository.StockSummaryRow) core.Row {
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		cell(r.ProductCode, 2, align.Left),
		cell(r.ProductName, 3, align.Left),
		cell(fmt.Sprintf("%s kg / %d", r.TotalInKg.StringFixed(2), r.TotalInCartons), 2, align.Right),
		cell(fmt.Sprintf("%s kg / %d", r.TotalOutKg.StringFixed(2), r.TotalOutCartons), 2, align.Right),
		cell(r.CurrentKg.StringFixed(2), 2, align.Right),
		cell(fmt.Sprintf("%d", r.CurrentCartons), 1, align.Right),
	)
}

func voucherHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Kg", 2, align.Right),
		h("Cartones", 2, align.Right),
		h("Vencimiento", 3, align.Right),
	)
}

func voucherDetailRow(item *entity.StockEntryItem, productName string) core.Row {
	expiry := "—"
	if item.ExpiryDate != nil {
		expiry = item.ExpiryDate.Format("02/01/2006")
	}
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		cell(nonEmpty(productName, item.ProductID), 5, align.Left),
		cell(item.QtyKg.StringFixed(2), 2, align.Right),
		cell(fmt.Sprintf("%d", item.QtyCartons), 2, align.Right),
		cell(expiry, 3, align.Right),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
