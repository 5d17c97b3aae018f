package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un ajuste de stock.
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
)

// StockAdjustment es una corrección puntual fuera del flujo normal de
// entradas/salidas. La razón es obligatoria. Siempre produce exactamente un
// StockMovement.
type StockAdjustment struct {
	ID             string
	AdjustmentDate time.Time
	ProductID      string
	Direction      string // increase | decrease
	QtyKg          decimal.Decimal
	QtyCartons     int64
	Reason         string
	RefDocument    string
	CreatedBy      string
	CreatedAt      time.Time
}
