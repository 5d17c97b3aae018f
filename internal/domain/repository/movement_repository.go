package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto del libro de movimientos: append-only, sin
// update ni delete en operación normal. DeleteAll existe solo para la purga de
// mantenimiento.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	// List devuelve movimientos ordenados por fecha de creación descendente.
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	// ExistsForProduct indica si algún movimiento referencia al producto (bloquea
	// el borrado del producto).
	ExistsForProduct(productID string) (bool, error)
	DeleteAll() error
}
