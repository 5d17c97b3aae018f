package ledger

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD. El
// callback de TxRunner los recibe para que la mutación del saldo y el append
// del movimiento compartan el mismo límite de durabilidad.
type TxRepos struct {
	Balances    repository.BalanceRepository
	Movements   repository.MovementRepository
	Entries     repository.EntryRepository
	Exits       repository.ExitRepository
	Adjustments repository.AdjustmentRepository
	Products    repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: si fn devuelve error no persiste nada de lo que hizo.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
