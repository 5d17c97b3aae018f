package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// EntryFilter filtros para listar documentos de entrada.
type EntryFilter struct {
	ProductID       string
	From            *time.Time
	To              *time.Time
	ReceptionNumber string // búsqueda parcial
	Limit           int
	Offset          int
}

// EntryRepository define el puerto de persistencia para documentos de entrada
// (cabecera + líneas). Las escrituras se hacen siempre dentro de la transacción
// del coordinador de documentos.
type EntryRepository interface {
	CreateHeader(entry *entity.StockEntry) error
	AddItem(item *entity.StockEntryItem) error
	// GetHeader devuelve la cabecera con sus líneas, o nil si no existe.
	GetHeader(id string) (*entity.StockEntry, error)
	GetItem(itemID string) (*entity.StockEntryItem, error)
	UpdateItem(item *entity.StockEntryItem) error
	DeleteItem(itemID string) error
	DeleteHeader(id string) error
	CountItems(entryID string) (int, error)
	List(filter EntryFilter) ([]*entity.StockEntry, error)
	// GetByReceptionNumber devuelve la cabecera (con líneas) de un número de
	// recepción exacto, para el bono de entrada imprimible.
	GetByReceptionNumber(receptionNumber string) (*entity.StockEntry, error)
	DeleteAll() error
}
