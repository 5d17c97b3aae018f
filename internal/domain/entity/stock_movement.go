package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. El tipo se deriva del signo del delta neto:
// IN si alguna componente del delta es positiva, OUT en caso contrario.
const (
	MovementKindIN  = "IN"  // entrada
	MovementKindOUT = "OUT" // salida
)

// Tipos de referencia causal de un movimiento.
const (
	RefKindEntry      = "ENTRY"      // documento de entrada
	RefKindExit       = "EXIT"       // documento de salida
	RefKindAdjustment = "ADJUSTMENT" // ajuste manual
)

// StockMovement es un registro inmutable del libro de movimientos: captura una
// transición de saldo con las cantidades antes, el delta firmado y las
// cantidades después, en ambas unidades. Invariante: after = before + delta,
// componente a componente, exacto.
type StockMovement struct {
	ID            string
	ProductID     string
	Kind          string // IN | OUT
	BeforeKg      decimal.Decimal
	BeforeCartons int64
	DeltaKg       decimal.Decimal // positivo en créditos, negativo en débitos
	DeltaCartons  int64
	AfterKg       decimal.Decimal
	AfterCartons  int64
	RefID         string // documento o ajuste que causó el movimiento
	RefKind       string // ENTRY | EXIT | ADJUSTMENT
	CreatedBy     string // actor, siempre explícito
	CreatedAt     time.Time
}
