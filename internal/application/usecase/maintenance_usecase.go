package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
)

// MaintenanceUseCase operaciones administrativas destructivas.
type MaintenanceUseCase struct {
	txRunner ledger.TxRunner
	log      zerolog.Logger
}

// NewMaintenanceUseCase construye el caso de uso de mantenimiento.
func NewMaintenanceUseCase(txRunner ledger.TxRunner, log zerolog.Logger) *MaintenanceUseCase {
	return &MaintenanceUseCase{txRunner: txRunner, log: log}
}

// PurgeTransactions borra movimientos, entradas, salidas y ajustes, y pone
// todos los saldos en cero. Los productos y usuarios se conservan. Todo en una
// transacción: no puede quedar un libro a medio purgar.
func (uc *MaintenanceUseCase) PurgeTransactions(ctx context.Context, actor string) error {
	err := uc.txRunner.Run(ctx, func(r ledger.TxRepos) error {
		if err := r.Movements.DeleteAll(); err != nil {
			return err
		}
		if err := r.Adjustments.DeleteAll(); err != nil {
			return err
		}
		if err := r.Entries.DeleteAll(); err != nil {
			return err
		}
		if err := r.Exits.DeleteAll(); err != nil {
			return err
		}
		return r.Balances.ResetAll()
	})
	if err != nil {
		return err
	}
	uc.log.Warn().Str("actor", actor).Msg("purga de transacciones ejecutada")
	return nil
}
