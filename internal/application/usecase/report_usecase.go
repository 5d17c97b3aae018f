package usecase

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockPDFGenerator genera el reporte de resumen de stock en PDF.
type StockPDFGenerator interface {
	StockSummaryPDF(rows []*repository.StockSummaryRow, generatedAt time.Time) ([]byte, error)
}

// StockExcelExporter genera el reporte de resumen de stock en XLSX.
type StockExcelExporter interface {
	StockSummaryXLSX(rows []*repository.StockSummaryRow, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase reportes de solo lectura sobre saldos y movimientos.
type ReportUseCase struct {
	reports repository.ReportRepository
	pdf     StockPDFGenerator
	excel   StockExcelExporter
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(reports repository.ReportRepository, pdf StockPDFGenerator, excel StockExcelExporter) *ReportUseCase {
	return &ReportUseCase{reports: reports, pdf: pdf, excel: excel}
}

// StockSummary resumen de stock por producto, opcionalmente acotado a un período.
func (uc *ReportUseCase) StockSummary(from, to *time.Time) (*dto.StockSummaryResponse, error) {
	rows, err := uc.reports.StockSummary(from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockSummaryRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ToStockSummaryRow(r))
	}
	return &dto.StockSummaryResponse{From: from, To: to, Items: items}, nil
}

// PeriodStats estadísticas globales de un período.
func (uc *ReportUseCase) PeriodStats(from, to time.Time) (*dto.PeriodStatsResponse, error) {
	stats, err := uc.reports.PeriodStats(from, to)
	if err != nil {
		return nil, err
	}
	return &dto.PeriodStatsResponse{
		From:          stats.From,
		To:            stats.To,
		TotalProducts: stats.TotalProducts,
		TotalEntries:  stats.TotalEntries,
		TotalExits:    stats.TotalExits,
		StockValue:    stats.StockValue,
	}, nil
}

// LowStock productos con saldo en o por debajo de su umbral de alerta.
func (uc *ReportUseCase) LowStock() (*dto.StockSummaryResponse, error) {
	rows, err := uc.reports.LowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockSummaryRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ToStockSummaryRow(r))
	}
	return &dto.StockSummaryResponse{Items: items}, nil
}

// ExpiringLots líneas de entrada que vencen dentro de la ventana dada.
func (uc *ReportUseCase) ExpiringLots(window time.Duration) (*dto.ExpiringLotsResponse, error) {
	before := time.Now().Add(window)
	rows, err := uc.reports.ExpiringLots(before)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpiringLotRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ToExpiringLotRow(r))
	}
	return &dto.ExpiringLotsResponse{Before: before, Items: items}, nil
}

// StockSummaryPDF resumen de stock renderizado como PDF.
func (uc *ReportUseCase) StockSummaryPDF(from, to *time.Time) ([]byte, error) {
	rows, err := uc.reports.StockSummary(from, to)
	if err != nil {
		return nil, err
	}
	return uc.pdf.StockSummaryPDF(rows, time.Now())
}

// StockSummaryXLSX resumen de stock renderizado como libro Excel.
func (uc *ReportUseCase) StockSummaryXLSX(from, to *time.Time) ([]byte, error) {
	rows, err := uc.reports.StockSummary(from, to)
	if err != nil {
		return nil, err
	}
	return uc.excel.StockSummaryXLSX(rows, time.Now())
}
