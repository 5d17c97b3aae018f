package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el saldo actual de un producto en sus dos unidades
// independientes: continua (kg) y discreta (cartones). Un registro por producto.
// Ninguna de las dos cantidades puede quedar negativa tras una operación
// confirmada; la mutación pasa siempre por el motor de inventario.
type StockBalance struct {
	ProductID  string
	QtyKg      decimal.Decimal
	QtyCartons int64
	UpdatedAt  time.Time
}
