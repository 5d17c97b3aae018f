package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockSummaryRow resumen de stock por producto, con totales del período y
// saldo actual en ambas unidades.
type StockSummaryRow struct {
	ProductID       string          `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	TotalInKg       decimal.Decimal `json:"total_in_kg"`
	TotalInCartons  int64           `json:"total_in_cartons"`
	TotalOutKg      decimal.Decimal `json:"total_out_kg"`
	TotalOutCartons int64           `json:"total_out_cartons"`
	CurrentKg       decimal.Decimal `json:"current_kg"`
	CurrentCartons  int64           `json:"current_cartons"`
	AlertThreshold  decimal.Decimal `json:"alert_threshold"`
}

// StockSummaryResponse reporte de resumen de stock.
type StockSummaryResponse struct {
	From  *time.Time        `json:"from,omitempty"`
	To    *time.Time        `json:"to,omitempty"`
	Items []StockSummaryRow `json:"items"`
}

// PeriodStatsResponse estadísticas globales de un período.
type PeriodStatsResponse struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalProducts int             `json:"total_products"`
	TotalEntries  int             `json:"total_entries"`
	TotalExits    int             `json:"total_exits"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

// ExpiringLotRow línea de entrada próxima a vencer.
type ExpiringLotRow struct {
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	ReceptionNumber string          `json:"reception_number"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	QtyKg           decimal.Decimal `json:"qty_kg"`
	QtyCartons      int64           `json:"qty_cartons"`
}

// ExpiringLotsResponse reporte de lotes próximos a vencer.
type ExpiringLotsResponse struct {
	Before time.Time        `json:"before"`
	Items  []ExpiringLotRow `json:"items"`
}

// ToStockSummaryRow convierte la fila del repositorio al DTO de salida.
func ToStockSummaryRow(r *repository.StockSummaryRow) StockSummaryRow {
	return StockSummaryRow{
		ProductID:       r.ProductID,
		ProductCode:     r.ProductCode,
		ProductName:     r.ProductName,
		TotalInKg:       r.TotalInKg,
		TotalInCartons:  r.TotalInCartons,
		TotalOutKg:      r.TotalOutKg,
		TotalOutCartons: r.TotalOutCartons,
		CurrentKg:       r.CurrentKg,
		CurrentCartons:  r.CurrentCartons,
		AlertThreshold:  r.AlertThreshold,
	}
}

// ToExpiringLotRow convierte la fila del repositorio al DTO de salida.
func ToExpiringLotRow(r *repository.ExpiringLotRow) ExpiringLotRow {
	return ExpiringLotRow{
		ProductCode:     r.ProductCode,
		ProductName:     r.ProductName,
		ReceptionNumber: r.ReceptionNumber,
		ExpiryDate:      r.ExpiryDate,
		QtyKg:           r.QtyKg,
		QtyCartons:      r.QtyCartons,
	}
}
