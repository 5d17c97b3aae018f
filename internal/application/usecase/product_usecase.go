package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El saldo no se edita aquí:
// solo cambia vía entradas, salidas y ajustes.
type ProductUseCase struct {
	products  repository.ProductRepository
	balances  repository.BalanceRepository
	movements repository.MovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, balances repository.BalanceRepository, movements repository.MovementRepository) *ProductUseCase {
	return &ProductUseCase{products: products, balances: balances, movements: movements}
}

// Create crea un producto nuevo con saldo inicial en cero. Código y código de
// barras deben ser únicos.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if existing, _ := uc.products.GetByCode(in.Code); existing != nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, in.Code)
	}
	if in.Barcode != "" {
		if existing, _ := uc.products.GetByBarcode(in.Barcode); existing != nil {
			return nil, fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, in.Barcode)
		}
	}
	if !in.UnitKg && !in.UnitCartons {
		return nil, fmt.Errorf("%w: el producto debe manejar al menos una unidad", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Code:           in.Code,
		Barcode:        in.Barcode,
		Name:           in.Name,
		Description:    in.Description,
		UnitKg:         in.UnitKg,
		UnitCartons:    in.UnitCartons,
		PurchasePrice:  in.PurchasePrice,
		SalePrice:      in.SalePrice,
		AlertThreshold: in.AlertThreshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}
	// Saldo inicial en cero, para que el producto aparezca en los reportes
	// desde su creación.
	if err := uc.balances.Upsert(&entity.StockBalance{ProductID: product.ID, UpdatedAt: now}); err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// GetByBarcode obtiene un producto por código de barras (escaneo móvil).
func (uc *ProductUseCase) GetByBarcode(barcode string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// Update actualiza un producto. El código no se modifica; el saldo tampoco.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Barcode != nil && *in.Barcode != product.Barcode {
		if *in.Barcode != "" {
			if existing, _ := uc.products.GetByBarcode(*in.Barcode); existing != nil && existing.ID != id {
				return nil, fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, *in.Barcode)
			}
		}
		product.Barcode = *in.Barcode
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitKg != nil {
		product.UnitKg = *in.UnitKg
	}
	if in.UnitCartons != nil {
		product.UnitCartons = *in.UnitCartons
	}
	if !product.UnitKg && !product.UnitCartons {
		return nil, fmt.Errorf("%w: el producto debe manejar al menos una unidad", domain.ErrInvalidInput)
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.AlertThreshold != nil {
		product.AlertThreshold = *in.AlertThreshold
	}
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(product); err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(search string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.products.List(search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto. Se rechaza si el libro de movimientos lo
// referencia: borrar el producto rompería la trazabilidad del histórico.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	used, err := uc.movements.ExistsForProduct(id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: el producto tiene movimientos registrados", domain.ErrConflict)
	}
	return uc.products.Delete(id)
}
