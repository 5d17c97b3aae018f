// Package excel exporta el resumen de stock como libro XLSX.
package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ usecase.StockExcelExporter = (*StockExporter)(nil)

// StockExporter implementa usecase.StockExcelExporter usando excelize.
type StockExporter struct{}

// NewStockExporter construye el exportador.
func NewStockExporter() *StockExporter { return &StockExporter{} }

const sheetName = "Stock"

// StockSummaryXLSX genera el libro y devuelve sus bytes.
func (e *StockExporter) StockSummaryXLSX(rows []*repository.StockSummaryRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: borrar hoja por defecto: %w", err)
	}

	headers := []string{
		"Código", "Producto",
		"Entradas kg", "Entradas cartones",
		"Salidas kg", "Salidas cartones",
		"Saldo kg", "Saldo cartones",
		"Umbral de alerta",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("excel: cabecera: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheetName, "A1", last, headerStyle)
	}

	for r, row := range rows {
		values := []any{
			row.ProductCode, row.ProductName,
			row.TotalInKg.InexactFloat64(), row.TotalInCartons,
			row.TotalOutKg.InexactFloat64(), row.TotalOutCartons,
			row.CurrentKg.InexactFloat64(), row.CurrentCartons,
			row.AlertThreshold.InexactFloat64(),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("excel: fila %d: %w", r+2, err)
			}
		}
	}

	footer, _ := excelize.CoordinatesToCellName(1, len(rows)+3)
	_ = f.SetCellValue(sheetName, footer, "Generado: "+generatedAt.Format("02/01/2006 15:04"))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}
