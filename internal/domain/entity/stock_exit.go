package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de salida de stock.
const (
	ExitTypeSale        = "venta"
	ExitTypeConsignment = "deposito_venta"
	ExitTypeDonation    = "donacion"
	ExitTypeExpired     = "vencido"
	ExitTypeInedible    = "no_consumible"
	ExitTypeUnusable    = "no_utilizable"
)

// ValidExitType indica si el tipo de salida es uno de los conocidos.
func ValidExitType(t string) bool {
	switch t {
	case ExitTypeSale, ExitTypeConsignment, ExitTypeDonation,
		ExitTypeExpired, ExitTypeInedible, ExitTypeUnusable:
		return true
	}
	return false
}

// StockExit es la cabecera de un documento de salida (despacho).
type StockExit struct {
	ID            string
	ExitDate      time.Time
	InvoiceNumber string
	ExitType      string
	SalePrice     *decimal.Decimal
	Remark        string
	Items         []*StockExitItem
	CreatedBy     string
	CreatedAt     time.Time
}

// StockExitItem es una línea de un documento de salida. Sujeta a la verificación
// de suficiencia por unidad antes de confirmarse.
type StockExitItem struct {
	ID         string
	ExitID     string
	ProductID  string
	QtyKg      decimal.Decimal
	QtyCartons int64
	ExpiryDate *time.Time
	Remark     string
}
