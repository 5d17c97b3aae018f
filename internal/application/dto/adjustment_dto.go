package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateAdjustmentRequest entrada para un ajuste manual de inventario.
type CreateAdjustmentRequest struct {
	AdjustmentDate time.Time       `json:"adjustment_date" validate:"required"`
	ProductID      string          `json:"product_id" validate:"required"`
	Direction      string          `json:"direction" validate:"required,oneof=increase decrease"`
	QtyKg          decimal.Decimal `json:"qty_kg"`
	QtyCartons     int64           `json:"qty_cartons"`
	Reason         string          `json:"reason" validate:"required,min=1"`
	RefDocument    string          `json:"ref_document"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID             string          `json:"id"`
	AdjustmentDate time.Time       `json:"adjustment_date"`
	ProductID      string          `json:"product_id"`
	Direction      string          `json:"direction"`
	QtyKg          decimal.Decimal `json:"qty_kg"`
	QtyCartons     int64           `json:"qty_cartons"`
	Reason         string          `json:"reason"`
	RefDocument    string          `json:"ref_document"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ToAdjustmentResponse convierte la entidad al DTO de salida.
func ToAdjustmentResponse(a *entity.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:             a.ID,
		AdjustmentDate: a.AdjustmentDate,
		ProductID:      a.ProductID,
		Direction:      a.Direction,
		QtyKg:          a.QtyKg,
		QtyCartons:     a.QtyCartons,
		Reason:         a.Reason,
		RefDocument:    a.RefDocument,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}
