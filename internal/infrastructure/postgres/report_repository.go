package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reportes sobre PostgreSQL. Solo lectura: agrega el
// libro de movimientos y los saldos.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const stockSummaryQuery = `
	SELECT p.id, p.code, p.name,
	       COALESCE(sum(m.delta_kg) FILTER (WHERE m.kind = 'IN' AND m.in_period), 0),
	       COALESCE(sum(m.delta_cartons) FILTER (WHERE m.kind = 'IN' AND m.in_period), 0),
	       COALESCE(-sum(m.delta_kg) FILTER (WHERE m.kind = 'OUT' AND m.in_period), 0),
	       COALESCE(-sum(m.delta_cartons) FILTER (WHERE m.kind = 'OUT' AND m.in_period), 0),
	       COALESCE(b.qty_kg, 0), COALESCE(b.qty_cartons, 0),
	       p.purchase_price, p.alert_threshold
	FROM products p
	LEFT JOIN stock_balances b ON b.product_id = p.id
	LEFT JOIN LATERAL (
		SELECT delta_kg, delta_cartons, kind,
		       ($1::timestamptz IS NULL OR created_at >= $1)
		   AND ($2::timestamptz IS NULL OR created_at <= $2) AS in_period
		FROM stock_movements WHERE product_id = p.id
	) m ON true
	GROUP BY p.id, p.code, p.name, b.qty_kg, b.qty_cartons, p.purchase_price, p.alert_threshold
	ORDER BY p.name`

// StockSummary resumen por producto: totales de entradas/salidas del período
// (derivados del libro, ambas unidades) más el saldo actual.
func (r *ReportRepo) StockSummary(from, to *time.Time) ([]*repository.StockSummaryRow, error) {
	rows, err := r.q.Query(context.Background(), stockSummaryQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	defer rows.Close()

	var out []*repository.StockSummaryRow
	for rows.Next() {
		var s repository.StockSummaryRow
		if err := rows.Scan(
			&s.ProductID, &s.ProductCode, &s.ProductName,
			&s.TotalInKg, &s.TotalInCartons, &s.TotalOutKg, &s.TotalOutCartons,
			&s.CurrentKg, &s.CurrentCartons,
			&s.PurchasePrice, &s.AlertThreshold,
		); err != nil {
			return nil, fmt.Errorf("scan stock summary: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// PeriodStats estadísticas globales de un período.
func (r *ReportRepo) PeriodStats(from, to time.Time) (*repository.PeriodStats, error) {
	stats := &repository.PeriodStats{From: from, To: to}
	query := `
		SELECT
			(SELECT count(*) FROM products),
			(SELECT count(*) FROM stock_entries WHERE reception_date BETWEEN $1 AND $2),
			(SELECT count(*) FROM stock_exits WHERE exit_date BETWEEN $1 AND $2),
			COALESCE((SELECT sum(b.qty_kg * p.purchase_price)
			          FROM stock_balances b JOIN products p ON p.id = b.product_id), 0)`
	err := r.q.QueryRow(context.Background(), query, from, to).Scan(
		&stats.TotalProducts, &stats.TotalEntries, &stats.TotalExits, &stats.StockValue,
	)
	if err != nil {
		return nil, fmt.Errorf("period stats: %w", err)
	}
	return stats, nil
}

// LowStock productos cuyo saldo (en cualquiera de las dos unidades que el
// producto maneja) está en o por debajo de su umbral de alerta.
func (r *ReportRepo) LowStock() ([]*repository.StockSummaryRow, error) {
	query := `
		SELECT p.id, p.code, p.name,
		       0, 0, 0, 0,
		       COALESCE(b.qty_kg, 0), COALESCE(b.qty_cartons, 0),
		       p.purchase_price, p.alert_threshold
		FROM products p
		LEFT JOIN stock_balances b ON b.product_id = p.id
		WHERE (p.unit_kg AND COALESCE(b.qty_kg, 0) <= p.alert_threshold)
		   OR (p.unit_cartons AND COALESCE(b.qty_cartons, 0) <= p.alert_threshold)
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var out []*repository.StockSummaryRow
	for rows.Next() {
		var s repository.StockSummaryRow
		if err := rows.Scan(
			&s.ProductID, &s.ProductCode, &s.ProductName,
			&s.TotalInKg, &s.TotalInCartons, &s.TotalOutKg, &s.TotalOutCartons,
			&s.CurrentKg, &s.CurrentCartons,
			&s.PurchasePrice, &s.AlertThreshold,
		); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// ExpiringLots líneas de entrada con fecha de vencimiento anterior al límite.
func (r *ReportRepo) ExpiringLots(before time.Time) ([]*repository.ExpiringLotRow, error) {
	query := `
		SELECT p.code, p.name, e.reception_number, i.expiry_date, i.qty_kg, i.qty_cartons
		FROM stock_entry_items i
		JOIN stock_entries e ON e.id = i.entry_id
		JOIN products p ON p.id = i.product_id
		WHERE i.expiry_date IS NOT NULL AND i.expiry_date <= $1
		ORDER BY i.expiry_date`
	rows, err := r.q.Query(context.Background(), query, before)
	if err != nil {
		return nil, fmt.Errorf("expiring lots: %w", err)
	}
	defer rows.Close()

	var out []*repository.ExpiringLotRow
	for rows.Next() {
		var l repository.ExpiringLotRow
		if err := rows.Scan(
			&l.ProductCode, &l.ProductName, &l.ReceptionNumber, &l.ExpiryDate, &l.QtyKg, &l.QtyCartons,
		); err != nil {
			return nil, fmt.Errorf("scan expiring lot: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
