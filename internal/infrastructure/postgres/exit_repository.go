package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ExitRepository = (*ExitRepo)(nil)

// ExitRepo implementación de ExitRepository sobre PostgreSQL (usable con pool
// o tx).
type ExitRepo struct {
	q Querier
}

// NewExitRepository construye el adaptador de salidas.
func NewExitRepository(q Querier) *ExitRepo {
	return &ExitRepo{q: q}
}

// CreateHeader inserta la cabecera del documento de salida.
func (r *ExitRepo) CreateHeader(e *entity.StockExit) error {
	query := `
		INSERT INTO stock_exits (
			id, exit_date, invoice_number, exit_type, sale_price, remark, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ExitDate, e.InvoiceNumber, e.ExitType, e.SalePrice, e.Remark, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create exit header: %w", err)
	}
	return nil
}

// AddItem inserta una línea del documento de salida.
func (r *ExitRepo) AddItem(item *entity.StockExitItem) error {
	query := `
		INSERT INTO stock_exit_items (
			id, exit_id, product_id, qty_kg, qty_cartons, expiry_date, remark
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ExitID, item.ProductID, item.QtyKg, item.QtyCartons, item.ExpiryDate, item.Remark,
	)
	if err != nil {
		return fmt.Errorf("add exit item: %w", err)
	}
	return nil
}

// GetHeader devuelve la cabecera con sus líneas, o nil si no existe.
func (r *ExitRepo) GetHeader(id string) (*entity.StockExit, error) {
	query := `
		SELECT id, exit_date, invoice_number, exit_type, sale_price, remark, created_by, created_at
		FROM stock_exits WHERE id = $1`
	var e entity.StockExit
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ExitDate, &e.InvoiceNumber, &e.ExitType, &e.SalePrice, &e.Remark, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exit header: %w", err)
	}
	items, err := r.itemsOf(e.ID)
	if err != nil {
		return nil, err
	}
	e.Items = items
	return &e, nil
}

// GetItem devuelve una línea por ID, o nil si no existe.
func (r *ExitRepo) GetItem(itemID string) (*entity.StockExitItem, error) {
	query := `
		SELECT id, exit_id, product_id, qty_kg, qty_cartons, expiry_date, remark
		FROM stock_exit_items WHERE id = $1`
	var it entity.StockExitItem
	err := r.q.QueryRow(context.Background(), query, itemID).Scan(
		&it.ID, &it.ExitID, &it.ProductID, &it.QtyKg, &it.QtyCartons, &it.ExpiryDate, &it.Remark,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exit item: %w", err)
	}
	return &it, nil
}

// UpdateItem actualiza una línea.
func (r *ExitRepo) UpdateItem(item *entity.StockExitItem) error {
	query := `
		UPDATE stock_exit_items
		SET product_id = $2, qty_kg = $3, qty_cartons = $4, expiry_date = $5, remark = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.ProductID, item.QtyKg, item.QtyCartons, item.ExpiryDate, item.Remark,
	)
	if err != nil {
		return fmt.Errorf("update exit item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de salida %s", domain.ErrNotFound, item.ID)
	}
	return nil
}

// DeleteItem elimina una línea.
func (r *ExitRepo) DeleteItem(itemID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_exit_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete exit item: %w", err)
	}
	return nil
}

// DeleteHeader elimina la cabecera y, por cascada, sus líneas.
func (r *ExitRepo) DeleteHeader(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_exits WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exit header: %w", err)
	}
	return nil
}

// CountItems cuenta las líneas vivas de un documento.
func (r *ExitRepo) CountItems(exitID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_exit_items WHERE exit_id = $1`, exitID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count exit items: %w", err)
	}
	return n, nil
}

// List devuelve documentos de salida con filtros, líneas incluidas, ordenados
// por fecha de salida descendente.
func (r *ExitRepo) List(filter repository.ExitFilter) ([]*entity.StockExit, error) {
	query := `
		SELECT DISTINCT e.id, e.exit_date, e.invoice_number, e.exit_type,
		       e.sale_price, e.remark, e.created_by, e.created_at
		FROM stock_exits e
		LEFT JOIN stock_exit_items i ON i.exit_id = e.id
		WHERE ($1 = '' OR i.product_id = $1)
		  AND ($2::timestamptz IS NULL OR e.exit_date >= $2)
		  AND ($3::timestamptz IS NULL OR e.exit_date <= $3)
		  AND ($4 = '' OR e.exit_type = $4)
		  AND ($5 = '' OR e.invoice_number ILIKE '%' || $5 || '%')
		ORDER BY e.exit_date DESC, e.id DESC
		LIMIT $6 OFFSET $7`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(context.Background(), query,
		filter.ProductID, filter.From, filter.To, filter.ExitType, filter.InvoiceNumber, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list exits: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockExit
	for rows.Next() {
		var e entity.StockExit
		if err := rows.Scan(
			&e.ID, &e.ExitDate, &e.InvoiceNumber, &e.ExitType,
			&e.SalePrice, &e.Remark, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exit: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range out {
		items, err := r.itemsOf(e.ID)
		if err != nil {
			return nil, err
		}
		e.Items = items
	}
	return out, nil
}

// DeleteAll vacía salidas y líneas. Solo lo usa la purga de mantenimiento.
func (r *ExitRepo) DeleteAll() error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_exit_items`); err != nil {
		return fmt.Errorf("delete exit items: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_exits`); err != nil {
		return fmt.Errorf("delete exits: %w", err)
	}
	return nil
}

func (r *ExitRepo) itemsOf(exitID string) ([]*entity.StockExitItem, error) {
	query := `
		SELECT id, exit_id, product_id, qty_kg, qty_cartons, expiry_date, remark
		FROM stock_exit_items WHERE exit_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, exitID)
	if err != nil {
		return nil, fmt.Errorf("list exit items: %w", err)
	}
	defer rows.Close()

	var items []*entity.StockExitItem
	for rows.Next() {
		var it entity.StockExitItem
		if err := rows.Scan(&it.ID, &it.ExitID, &it.ProductID, &it.QtyKg, &it.QtyCartons, &it.ExpiryDate, &it.Remark); err != nil {
			return nil, fmt.Errorf("scan exit item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
