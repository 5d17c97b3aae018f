package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con
// pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo actual de un producto. Sin fila devuelve saldo en cero.
func (r *BalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, qty_kg, qty_cartons, updated_at
		FROM stock_balances WHERE product_id = $1`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&b.ProductID, &b.QtyKg, &b.QtyCartons, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, QtyKg: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE). El
// bloqueo serializa cualquier read-modify-write sobre el producto.
func (r *BalanceRepo) GetForUpdate(productID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, qty_kg, qty_cartons, updated_at
		FROM stock_balances WHERE product_id = $1
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&b.ProductID, &b.QtyKg, &b.QtyCartons, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, QtyKg: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo del producto en ambas unidades.
func (r *BalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, qty_kg, qty_cartons, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id)
		DO UPDATE SET qty_kg = EXCLUDED.qty_kg, qty_cartons = EXCLUDED.qty_cartons, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.ProductID, balance.QtyKg, balance.QtyCartons)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ResetAll pone todos los saldos en cero. Solo lo usa la purga de mantenimiento.
func (r *BalanceRepo) ResetAll() error {
	query := `UPDATE stock_balances SET qty_kg = 0, qty_cartons = 0, updated_at = now()`
	if _, err := r.q.Exec(context.Background(), query); err != nil {
		return fmt.Errorf("reset balances: %w", err)
	}
	return nil
}
