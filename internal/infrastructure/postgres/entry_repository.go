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

var _ repository.EntryRepository = (*EntryRepo)(nil)

// EntryRepo implementación de EntryRepository sobre PostgreSQL (usable con
// pool o tx).
type EntryRepo struct {
	q Querier
}

// NewEntryRepository construye el adaptador de entradas.
func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{q: q}
}

// CreateHeader inserta la cabecera del documento de entrada.
func (r *EntryRepo) CreateHeader(e *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (
			id, reception_date, reception_number, carnet_number,
			invoice_number, packing_list_number, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ReceptionDate, e.ReceptionNumber, e.CarnetNumber,
		e.InvoiceNumber, e.PackingListNumber, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de recepción %s", domain.ErrDuplicate, e.ReceptionNumber)
		}
		return fmt.Errorf("create entry header: %w", err)
	}
	return nil
}

// AddItem inserta una línea del documento de entrada.
func (r *EntryRepo) AddItem(item *entity.StockEntryItem) error {
	query := `
		INSERT INTO stock_entry_items (
			id, entry_id, product_id, qty_kg, qty_cartons, expiry_date, remark
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.EntryID, item.ProductID, item.QtyKg, item.QtyCartons, item.ExpiryDate, item.Remark,
	)
	if err != nil {
		return fmt.Errorf("add entry item: %w", err)
	}
	return nil
}

// GetHeader devuelve la cabecera con sus líneas, o nil si no existe.
func (r *EntryRepo) GetHeader(id string) (*entity.StockEntry, error) {
	query := `
		SELECT id, reception_date, reception_number, carnet_number,
		       invoice_number, packing_list_number, created_by, created_at
		FROM stock_entries WHERE id = $1`
	var e entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ReceptionDate, &e.ReceptionNumber, &e.CarnetNumber,
		&e.InvoiceNumber, &e.PackingListNumber, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry header: %w", err)
	}
	items, err := r.itemsOf(e.ID)
	if err != nil {
		return nil, err
	}
	e.Items = items
	return &e, nil
}

// GetItem devuelve una línea por ID, o nil si no existe.
func (r *EntryRepo) GetItem(itemID string) (*entity.StockEntryItem, error) {
	query := `
		SELECT id, entry_id, product_id, qty_kg, qty_cartons, expiry_date, remark
		FROM stock_entry_items WHERE id = $1`
	var it entity.StockEntryItem
	err := r.q.QueryRow(context.Background(), query, itemID).Scan(
		&it.ID, &it.EntryID, &it.ProductID, &it.QtyKg, &it.QtyCartons, &it.ExpiryDate, &it.Remark,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry item: %w", err)
	}
	return &it, nil
}

// UpdateItem actualiza una línea.
func (r *EntryRepo) UpdateItem(item *entity.StockEntryItem) error {
	query := `
		UPDATE stock_entry_items
		SET product_id = $2, qty_kg = $3, qty_cartons = $4, expiry_date = $5, remark = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.ProductID, item.QtyKg, item.QtyCartons, item.ExpiryDate, item.Remark,
	)
	if err != nil {
		return fmt.Errorf("update entry item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de entrada %s", domain.ErrNotFound, item.ID)
	}
	return nil
}

// DeleteItem elimina una línea.
func (r *EntryRepo) DeleteItem(itemID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_entry_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete entry item: %w", err)
	}
	return nil
}

// DeleteHeader elimina la cabecera y, por cascada, sus líneas.
func (r *EntryRepo) DeleteHeader(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete entry header: %w", err)
	}
	return nil
}

// CountItems cuenta las líneas vivas de un documento.
func (r *EntryRepo) CountItems(entryID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_entry_items WHERE entry_id = $1`, entryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entry items: %w", err)
	}
	return n, nil
}

// List devuelve documentos de entrada con filtros, líneas incluidas, ordenados
// por fecha de recepción descendente.
func (r *EntryRepo) List(filter repository.EntryFilter) ([]*entity.StockEntry, error) {
	query := `
		SELECT DISTINCT e.id, e.reception_date, e.reception_number, e.carnet_number,
		       e.invoice_number, e.packing_list_number, e.created_by, e.created_at
		FROM stock_entries e
		LEFT JOIN stock_entry_items i ON i.entry_id = e.id
		WHERE ($1 = '' OR i.product_id = $1)
		  AND ($2::timestamptz IS NULL OR e.reception_date >= $2)
		  AND ($3::timestamptz IS NULL OR e.reception_date <= $3)
		  AND ($4 = '' OR e.reception_number ILIKE '%' || $4 || '%')
		ORDER BY e.reception_date DESC, e.id DESC
		LIMIT $5 OFFSET $6`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(context.Background(), query,
		filter.ProductID, filter.From, filter.To, filter.ReceptionNumber, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(
			&e.ID, &e.ReceptionDate, &e.ReceptionNumber, &e.CarnetNumber,
			&e.InvoiceNumber, &e.PackingListNumber, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
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

// GetByReceptionNumber devuelve la cabecera (con líneas) de un número de
// recepción exacto.
func (r *EntryRepo) GetByReceptionNumber(receptionNumber string) (*entity.StockEntry, error) {
	var id string
	err := r.q.QueryRow(context.Background(),
		`SELECT id FROM stock_entries WHERE reception_number = $1`, receptionNumber).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry by reception number: %w", err)
	}
	return r.GetHeader(id)
}

// DeleteAll vacía entradas y líneas. Solo lo usa la purga de mantenimiento.
func (r *EntryRepo) DeleteAll() error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_entry_items`); err != nil {
		return fmt.Errorf("delete entry items: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM stock_entries`); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}

func (r *EntryRepo) itemsOf(entryID string) ([]*entity.StockEntryItem, error) {
	query := `
		SELECT id, entry_id, product_id, qty_kg, qty_cartons, expiry_date, remark
		FROM stock_entry_items WHERE entry_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, entryID)
	if err != nil {
		return nil, fmt.Errorf("list entry items: %w", err)
	}
	defer rows.Close()

	var items []*entity.StockEntryItem
	for rows.Next() {
		var it entity.StockEntryItem
		if err := rows.Scan(&it.ID, &it.EntryID, &it.ProductID, &it.QtyKg, &it.QtyCartons, &it.ExpiryDate, &it.Remark); err != nil {
			return nil, fmt.Errorf("scan entry item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
