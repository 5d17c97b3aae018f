package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// AdjustmentFilter filtros para listar ajustes.
type AdjustmentFilter struct {
	ProductID string
	Direction string
	CreatedBy string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// AdjustmentRepository define el puerto de persistencia para ajustes de stock.
type AdjustmentRepository interface {
	Create(adjustment *entity.StockAdjustment) error
	// List devuelve ajustes ordenados por fecha de ajuste descendente.
	List(filter AdjustmentFilter) ([]*entity.StockAdjustment, error)
	DeleteAll() error
}
