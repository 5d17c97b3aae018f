package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL. El libro
// es append-only: no hay Update ni Delete individual.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un asiento en el libro.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (
			id, product_id, kind,
			before_kg, before_cartons, delta_kg, delta_cartons, after_kg, after_cartons,
			ref_id, ref_kind, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Kind,
		m.BeforeKg, m.BeforeCartons, m.DeltaKg, m.DeltaCartons, m.AfterKg, m.AfterCartons,
		m.RefID, m.RefKind, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List devuelve movimientos con filtros, ordenados por fecha descendente.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, kind,
		       before_kg, before_cartons, delta_kg, delta_cartons, after_kg, after_cartons,
		       ref_id, ref_kind, created_by, created_at
		FROM stock_movements
		WHERE ($1 = '' OR product_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(context.Background(), query,
		filter.ProductID, filter.From, filter.To, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Kind,
			&m.BeforeKg, &m.BeforeCartons, &m.DeltaKg, &m.DeltaCartons, &m.AfterKg, &m.AfterCartons,
			&m.RefID, &m.RefKind, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ExistsForProduct indica si algún movimiento referencia al producto.
func (r *MovementRepo) ExistsForProduct(productID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists movement: %w", err)
	}
	return exists, nil
}

// DeleteAll vacía el libro. Solo lo usa la purga de mantenimiento.
func (r *MovementRepo) DeleteAll() error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements`); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}
