package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Fakes mínimos para el caso de uso de productos.

type fakeProductRepo struct {
	byID map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Barcode == barcode && barcode != "" {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type fakeBalanceRepo struct {
	upserted []string
}

func (r *fakeBalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	return &entity.StockBalance{ProductID: productID}, nil
}

func (r *fakeBalanceRepo) GetForUpdate(productID string) (*entity.StockBalance, error) {
	return r.Get(productID)
}

func (r *fakeBalanceRepo) Upsert(balance *entity.StockBalance) error {
	r.upserted = append(r.upserted, balance.ProductID)
	return nil
}

func (r *fakeBalanceRepo) ResetAll() error { return nil }

type fakeMovementRepo struct {
	used map[string]bool
}

func (r *fakeMovementRepo) Create(*entity.StockMovement) error { return nil }

func (r *fakeMovementRepo) List(repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ExistsForProduct(productID string) (bool, error) {
	return r.used[productID], nil
}

func (r *fakeMovementRepo) DeleteAll() error { return nil }

func newUC() (*usecase.ProductUseCase, *fakeProductRepo, *fakeBalanceRepo, *fakeMovementRepo) {
	products := newFakeProductRepo()
	balances := &fakeBalanceRepo{}
	movements := &fakeMovementRepo{used: make(map[string]bool)}
	return usecase.NewProductUseCase(products, balances, movements), products, balances, movements
}

func TestProductUseCase_Create(t *testing.T) {
	uc, _, balances, _ := newUC()

	resp, err := uc.Create(dto.CreateProductRequest{
		Code: "ARR-01", Name: "Arroz", UnitKg: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ARR-01", resp.Code)

	// El saldo inicial en cero se crea junto al producto.
	require.Len(t, balances.upserted, 1)
	assert.Equal(t, resp.ID, balances.upserted[0])
}

func TestProductUseCase_Create_CodigoDuplicado(t *testing.T) {
	uc, _, _, _ := newUC()

	_, err := uc.Create(dto.CreateProductRequest{Code: "ARR-01", Name: "Arroz", UnitKg: true})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateProductRequest{Code: "ARR-01", Name: "Otro", UnitKg: true})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_Create_SinUnidades(t *testing.T) {
	uc, _, _, _ := newUC()

	_, err := uc.Create(dto.CreateProductRequest{Code: "X", Name: "Sin unidad"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_GetByBarcode(t *testing.T) {
	uc, _, _, _ := newUC()

	created, err := uc.Create(dto.CreateProductRequest{
		Code: "ARR-01", Barcode: "779123", Name: "Arroz", UnitKg: true,
	})
	require.NoError(t, err)

	got, err := uc.GetByBarcode("779123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = uc.GetByBarcode("000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_Update(t *testing.T) {
	uc, _, _, _ := newUC()

	created, err := uc.Create(dto.CreateProductRequest{Code: "ARR-01", Name: "Arroz", UnitKg: true})
	require.NoError(t, err)

	name := "Arroz integral"
	updated, err := uc.Update(created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Arroz integral", updated.Name)
	assert.True(t, updated.UnitKg, "los campos no enviados se conservan")

	// Quitar la última unidad activa se rechaza.
	off := false
	_, err = uc.Update(created.ID, dto.UpdateProductRequest{UnitKg: &off})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_Delete(t *testing.T) {
	uc, _, _, movements := newUC()

	created, err := uc.Create(dto.CreateProductRequest{Code: "ARR-01", Name: "Arroz", UnitKg: true})
	require.NoError(t, err)

	// Con movimientos registrados el borrado se rechaza.
	movements.used[created.ID] = true
	err = uc.Delete(created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	movements.used[created.ID] = false
	require.NoError(t, uc.Delete(created.ID))

	_, err = uc.GetByID(created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
