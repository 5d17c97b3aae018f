package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del almacén. Su stock vive en StockBalance y se
// modifica únicamente a través del motor de inventario, nunca sobre el producto.
type Product struct {
	ID             string
	Code           string // código de producto, único
	Barcode        string // código de barras, único si no está vacío
	Name           string
	Description    string
	UnitKg         bool // maneja la unidad continua (kg)
	UnitCartons    bool // maneja la unidad discreta (cartones)
	PurchasePrice  decimal.Decimal
	SalePrice      decimal.Decimal
	AlertThreshold decimal.Decimal // umbral de alerta de stock bajo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
