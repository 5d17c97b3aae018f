package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ExitFilter filtros para listar documentos de salida.
type ExitFilter struct {
	ProductID     string
	From          *time.Time
	To            *time.Time
	ExitType      string
	InvoiceNumber string // búsqueda parcial
	Limit         int
	Offset        int
}

// ExitRepository define el puerto de persistencia para documentos de salida
// (cabecera + líneas).
type ExitRepository interface {
	CreateHeader(exit *entity.StockExit) error
	AddItem(item *entity.StockExitItem) error
	GetHeader(id string) (*entity.StockExit, error)
	GetItem(itemID string) (*entity.StockExitItem, error)
	UpdateItem(item *entity.StockExitItem) error
	DeleteItem(itemID string) error
	DeleteHeader(id string) error
	CountItems(exitID string) (int, error)
	List(filter ExitFilter) ([]*entity.StockExit, error)
	DeleteAll() error
}
