package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// BalanceResponse saldo actual de un producto en ambas unidades.
type BalanceResponse struct {
	ProductID  string          `json:"product_id"`
	QtyKg      decimal.Decimal `json:"qty_kg"`
	QtyCartons int64           `json:"qty_cartons"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MovementResponse un asiento del libro de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Kind          string          `json:"kind"`
	BeforeKg      decimal.Decimal `json:"before_kg"`
	BeforeCartons int64           `json:"before_cartons"`
	DeltaKg       decimal.Decimal `json:"delta_kg"`
	DeltaCartons  int64           `json:"delta_cartons"`
	AfterKg       decimal.Decimal `json:"after_kg"`
	AfterCartons  int64           `json:"after_cartons"`
	RefID         string          `json:"ref_id"`
	RefKind       string          `json:"ref_kind"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LineRequest una línea de documento (entrada o salida).
type LineRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	QtyKg      decimal.Decimal `json:"qty_kg"`
	QtyCartons int64           `json:"qty_cartons"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	Remark     string          `json:"remark"`
}

// LineUpdateRequest edición parcial de una línea.
type LineUpdateRequest struct {
	ProductID  *string          `json:"product_id"`
	QtyKg      *decimal.Decimal `json:"qty_kg"`
	QtyCartons *int64           `json:"qty_cartons"`
	ExpiryDate *time.Time       `json:"expiry_date"`
	Remark     *string          `json:"remark"`
}

// CreateEntryRequest documento de entrada: cabecera + líneas.
type CreateEntryRequest struct {
	ReceptionDate     time.Time     `json:"reception_date" validate:"required"`
	ReceptionNumber   string        `json:"reception_number"`
	CarnetNumber      string        `json:"carnet_number"`
	InvoiceNumber     string        `json:"invoice_number"`
	PackingListNumber string        `json:"packing_list_number"`
	Items             []LineRequest `json:"items" validate:"required,min=1,dive"`
}

// EntryItemResponse una línea de entrada.
type EntryItemResponse struct {
	ID         string          `json:"id"`
	EntryID    string          `json:"entry_id"`
	ProductID  string          `json:"product_id"`
	QtyKg      decimal.Decimal `json:"qty_kg"`
	QtyCartons int64           `json:"qty_cartons"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Remark     string          `json:"remark"`
}

// EntryResponse documento de entrada con sus líneas.
type EntryResponse struct {
	ID                string              `json:"id"`
	ReceptionDate     time.Time           `json:"reception_date"`
	ReceptionNumber   string              `json:"reception_number"`
	CarnetNumber      string              `json:"carnet_number"`
	InvoiceNumber     string              `json:"invoice_number"`
	PackingListNumber string              `json:"packing_list_number"`
	Items             []EntryItemResponse `json:"items"`
	CreatedBy         string              `json:"created_by"`
	CreatedAt         time.Time           `json:"created_at"`
}

// EntryListResponse lista paginada de entradas.
type EntryListResponse struct {
	Items []EntryResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CreateExitRequest documento de salida: cabecera + líneas.
type CreateExitRequest struct {
	ExitDate      time.Time        `json:"exit_date" validate:"required"`
	InvoiceNumber string           `json:"invoice_number"`
	ExitType      string           `json:"exit_type" validate:"required"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	Remark        string           `json:"remark"`
	Items         []LineRequest    `json:"items" validate:"required,min=1,dive"`
}

// ExitItemResponse una línea de salida.
type ExitItemResponse struct {
	ID         string          `json:"id"`
	ExitID     string          `json:"exit_id"`
	ProductID  string          `json:"product_id"`
	QtyKg      decimal.Decimal `json:"qty_kg"`
	QtyCartons int64           `json:"qty_cartons"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Remark     string          `json:"remark"`
}

// ExitResponse documento de salida con sus líneas.
type ExitResponse struct {
	ID            string             `json:"id"`
	ExitDate      time.Time          `json:"exit_date"`
	InvoiceNumber string             `json:"invoice_number"`
	ExitType      string             `json:"exit_type"`
	SalePrice     *decimal.Decimal   `json:"sale_price,omitempty"`
	Remark        string             `json:"remark"`
	Items         []ExitItemResponse `json:"items"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ExitListResponse lista paginada de salidas.
type ExitListResponse struct {
	Items []ExitResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToBalanceResponse convierte la entidad al DTO de salida.
func ToBalanceResponse(b *entity.StockBalance) BalanceResponse {
	return BalanceResponse{
		ProductID:  b.ProductID,
		QtyKg:      b.QtyKg,
		QtyCartons: b.QtyCartons,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Kind:          m.Kind,
		BeforeKg:      m.BeforeKg,
		BeforeCartons: m.BeforeCartons,
		DeltaKg:       m.DeltaKg,
		DeltaCartons:  m.DeltaCartons,
		AfterKg:       m.AfterKg,
		AfterCartons:  m.AfterCartons,
		RefID:         m.RefID,
		RefKind:       m.RefKind,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToEntryResponse convierte la entidad al DTO de salida, líneas incluidas.
func ToEntryResponse(e *entity.StockEntry) EntryResponse {
	items := make([]EntryItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, EntryItemResponse{
			ID:         it.ID,
			EntryID:    it.EntryID,
			ProductID:  it.ProductID,
			QtyKg:      it.QtyKg,
			QtyCartons: it.QtyCartons,
			ExpiryDate: it.ExpiryDate,
			Remark:     it.Remark,
		})
	}
	return EntryResponse{
		ID:                e.ID,
		ReceptionDate:     e.ReceptionDate,
		ReceptionNumber:   e.ReceptionNumber,
		CarnetNumber:      e.CarnetNumber,
		InvoiceNumber:     e.InvoiceNumber,
		PackingListNumber: e.PackingListNumber,
		Items:             items,
		CreatedBy:         e.CreatedBy,
		CreatedAt:         e.CreatedAt,
	}
}

// ToExitResponse convierte la entidad al DTO de salida, líneas incluidas.
func ToExitResponse(e *entity.StockExit) ExitResponse {
	items := make([]ExitItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, ExitItemResponse{
			ID:         it.ID,
			ExitID:     it.ExitID,
			ProductID:  it.ProductID,
			QtyKg:      it.QtyKg,
			QtyCartons: it.QtyCartons,
			ExpiryDate: it.ExpiryDate,
			Remark:     it.Remark,
		})
	}
	return ExitResponse{
		ID:            e.ID,
		ExitDate:      e.ExitDate,
		InvoiceNumber: e.InvoiceNumber,
		ExitType:      e.ExitType,
		SalePrice:     e.SalePrice,
		Remark:        e.Remark,
		Items:         items,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}
