package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// BalanceRepository define el puerto para leer y escribir el saldo por producto.
// Usado dentro de transacciones para garantizar consistencia.
type BalanceRepository interface {
	// Get devuelve el saldo; si no hay fila devuelve un saldo en cero.
	Get(productID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) y devuelve el
	// saldo. El bloqueo serializa cualquier read-modify-write sobre el producto.
	GetForUpdate(productID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	// ResetAll pone todos los saldos en cero. Solo lo usa la purga de mantenimiento.
	ResetAll() error
}
