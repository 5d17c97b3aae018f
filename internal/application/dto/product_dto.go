package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code           string          `json:"code" validate:"required,min=1,max=100"`
	Barcode        string          `json:"barcode" validate:"max=100"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    string          `json:"description"`
	UnitKg         bool            `json:"unit_kg"`
	UnitCartons    bool            `json:"unit_cartons"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

// UpdateProductRequest entrada para actualizar un producto. Los campos en nil
// no se tocan.
type UpdateProductRequest struct {
	Barcode        *string          `json:"barcode" validate:"omitempty,max=100"`
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description"`
	UnitKg         *bool            `json:"unit_kg"`
	UnitCartons    *bool            `json:"unit_cartons"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	AlertThreshold *decimal.Decimal `json:"alert_threshold"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	UnitKg         bool            `json:"unit_kg"`
	UnitCartons    bool            `json:"unit_cartons"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Barcode:        p.Barcode,
		Name:           p.Name,
		Description:    p.Description,
		UnitKg:         p.UnitKg,
		UnitCartons:    p.UnitCartons,
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		AlertThreshold: p.AlertThreshold,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
