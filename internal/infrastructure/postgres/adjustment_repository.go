package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador de ajustes.
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create inserta un ajuste.
func (r *AdjustmentRepo) Create(a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (
			id, adjustment_date, product_id, direction,
			qty_kg, qty_cartons, reason, ref_document, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.AdjustmentDate, a.ProductID, a.Direction,
		a.QtyKg, a.QtyCartons, a.Reason, a.RefDocument, a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

// List devuelve ajustes con filtros, ordenados por fecha de ajuste descendente.
func (r *AdjustmentRepo) List(filter repository.AdjustmentFilter) ([]*entity.StockAdjustment, error) {
	query := `
		SELECT id, adjustment_date, product_id, direction,
		       qty_kg, qty_cartons, reason, ref_document, created_by, created_at
		FROM stock_adjustments
		WHERE ($1 = '' OR product_id = $1)
		  AND ($2 = '' OR direction = $2)
		  AND ($3 = '' OR created_by = $3)
		  AND ($4::timestamptz IS NULL OR adjustment_date >= $4)
		  AND ($5::timestamptz IS NULL OR adjustment_date <= $5)
		ORDER BY adjustment_date DESC, id DESC
		LIMIT $6 OFFSET $7`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(context.Background(), query,
		filter.ProductID, filter.Direction, filter.CreatedBy, filter.From, filter.To, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		if err := rows.Scan(
			&a.ID, &a.AdjustmentDate, &a.ProductID, &a.Direction,
			&a.QtyKg, &a.QtyCartons, &a.Reason, &a.RefDocument, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteAll vacía los ajustes. Solo lo usa la purga de mantenimiento.
func (r *AdjustmentRepo) DeleteAll() error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_adjustments`); err != nil {
		return fmt.Errorf("delete adjustments: %w", err)
	}
	return nil
}
