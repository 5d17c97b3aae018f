package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry es la cabecera de un documento de entrada (recepción). Agrupa una o
// más líneas; la cabecera se elimina al borrar su última línea.
type StockEntry struct {
	ID                string
	ReceptionDate     time.Time
	ReceptionNumber   string
	CarnetNumber      string
	InvoiceNumber     string
	PackingListNumber string
	Items             []*StockEntryItem
	CreatedBy         string
	CreatedAt         time.Time
}

// StockEntryItem es una línea de un documento de entrada: un producto con su
// cantidad en ambas unidades. Cada línea confirmada corresponde exactamente a un
// StockMovement.
type StockEntryItem struct {
	ID         string
	EntryID    string
	ProductID  string
	QtyKg      decimal.Decimal
	QtyCartons int64
	ExpiryDate *time.Time
	Remark     string
}
