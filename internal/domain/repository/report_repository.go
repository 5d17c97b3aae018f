package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummaryRow resumen de stock por producto: totales de entradas y salidas
// en el período (ambas unidades) más el saldo actual.
type StockSummaryRow struct {
	ProductID        string
	ProductCode      string
	ProductName      string
	TotalInKg        decimal.Decimal
	TotalInCartons   int64
	TotalOutKg       decimal.Decimal
	TotalOutCartons  int64
	CurrentKg        decimal.Decimal
	CurrentCartons   int64
	PurchasePrice    decimal.Decimal
	AlertThreshold   decimal.Decimal
}

// PeriodStats estadísticas globales de un período.
type PeriodStats struct {
	From          time.Time
	To            time.Time
	TotalProducts int
	TotalEntries  int
	TotalExits    int
	StockValue    decimal.Decimal // saldo kg × precio de compra, sumado
}

// ExpiringLotRow línea de entrada cuya fecha de vencimiento está próxima.
type ExpiringLotRow struct {
	ProductCode     string
	ProductName     string
	ReceptionNumber string
	ExpiryDate      time.Time
	QtyKg           decimal.Decimal
	QtyCartons      int64
}

// ReportRepository consultas de solo lectura para reportes. El colaborador de
// reportes nunca escribe: lee el libro de movimientos y los saldos.
type ReportRepository interface {
	StockSummary(from, to *time.Time) ([]*StockSummaryRow, error)
	PeriodStats(from, to time.Time) (*PeriodStats, error)
	// LowStock devuelve el resumen de los productos cuyo saldo (en cualquiera de
	// las dos unidades) está en o por debajo de su umbral de alerta.
	LowStock() ([]*StockSummaryRow, error)
	ExpiringLots(before time.Time) ([]*ExpiringLotRow, error)
}
