package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Ref es la referencia causal que cada movimiento registra junto al delta.
type Ref struct {
	ID   string
	Kind string // entity.RefKindEntry | entity.RefKindExit | entity.RefKindAdjustment
}

// Engine es el motor de inventario: el único punto del sistema que muta saldos.
// Cada operación (crédito, débito, ajuste) lee el saldo con bloqueo de fila,
// valida, escribe el saldo nuevo y añade un movimiento, todo dentro de una
// transacción. Leer-luego-escribir nunca se parte en dos estados observables.
type Engine struct {
	txRunner TxRunner

	// Repositorios de solo lectura (pool, fuera de transacción) para consultas.
	balances    repository.BalanceRepository
	movements   repository.MovementRepository
	adjustments repository.AdjustmentRepository
}

// NewEngine construye el motor.
func NewEngine(
	txRunner TxRunner,
	balances repository.BalanceRepository,
	movements repository.MovementRepository,
	adjustments repository.AdjustmentRepository,
) *Engine {
	return &Engine{
		txRunner:    txRunner,
		balances:    balances,
		movements:   movements,
		adjustments: adjustments,
	}
}

// ValidateQuantities rechaza cantidades negativas y el caso ambas-en-cero. Una
// sola unidad en cero es válido: hay productos que se mueven solo en kg o solo
// en cartones.
func ValidateQuantities(qtyKg decimal.Decimal, qtyCartons int64) error {
	if qtyKg.IsNegative() || qtyCartons < 0 {
		return fmt.Errorf("%w: las cantidades no pueden ser negativas (kg=%s, cartones=%d)",
			domain.ErrInvalidQuantity, qtyKg, qtyCartons)
	}
	if qtyKg.IsZero() && qtyCartons == 0 {
		return fmt.Errorf("%w: ambas cantidades en cero", domain.ErrInvalidQuantity)
	}
	return nil
}

// Credit registra una entrada de stock para un producto: suma qty al saldo y
// añade un movimiento IN. Nunca falla por suficiencia.
func (e *Engine) Credit(ctx context.Context, productID string, qtyKg decimal.Decimal, qtyCartons int64, ref Ref, actor string) (*entity.StockBalance, error) {
	if err := ValidateQuantities(qtyKg, qtyCartons); err != nil {
		return nil, err
	}
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.StockBalance
	err := e.txRunner.Run(ctx, func(r TxRepos) error {
		bal, err := lockBalance(r, productID)
		if err != nil {
			return err
		}
		if err := e.CreditLocked(r, bal, qtyKg, qtyCartons, ref, actor, time.Now()); err != nil {
			return err
		}
		out = bal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Debit registra una salida de stock: verifica suficiencia en cada unidad por
// separado, resta qty del saldo y añade un movimiento OUT con delta negativo
// explícito. El faltante en una unidad bloquea la operación completa aunque la
// otra tenga excedente.
func (e *Engine) Debit(ctx context.Context, productID string, qtyKg decimal.Decimal, qtyCartons int64, ref Ref, actor string) (*entity.StockBalance, error) {
	if err := ValidateQuantities(qtyKg, qtyCartons); err != nil {
		return nil, err
	}
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.StockBalance
	err := e.txRunner.Run(ctx, func(r TxRepos) error {
		bal, err := lockBalance(r, productID)
		if err != nil {
			return err
		}
		if err := e.DebitLocked(r, bal, qtyKg, qtyCartons, ref, actor, time.Now()); err != nil {
			return err
		}
		out = bal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustmentInput entrada para un ajuste manual de stock.
type AdjustmentInput struct {
	ProductID      string
	AdjustmentDate time.Time
	Direction      string // entity.AdjustmentIncrease | entity.AdjustmentDecrease
	QtyKg          decimal.Decimal
	QtyCartons     int64
	Reason         string
	RefDocument    string
}

// Adjust registra una corrección manual: increase se comporta como un crédito y
// decrease como un débito, salvo que el faltante se reporta como
// ErrNegativeBalance (clase causal distinta a las salidas). Persiste el ajuste
// y su movimiento en la misma transacción.
func (e *Engine) Adjust(ctx context.Context, in AdjustmentInput, actor string) (*entity.StockAdjustment, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: la razón es obligatoria", domain.ErrInvalidAdjustment)
	}
	if in.Direction != entity.AdjustmentIncrease && in.Direction != entity.AdjustmentDecrease {
		return nil, fmt.Errorf("%w: dirección %q desconocida", domain.ErrInvalidAdjustment, in.Direction)
	}
	if err := ValidateQuantities(in.QtyKg, in.QtyCartons); err != nil {
		return nil, err
	}
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	now := time.Now()
	if in.AdjustmentDate.IsZero() {
		in.AdjustmentDate = now
	}
	adj := &entity.StockAdjustment{
		ID:             uuid.New().String(),
		AdjustmentDate: in.AdjustmentDate,
		ProductID:      in.ProductID,
		Direction:      in.Direction,
		QtyKg:          in.QtyKg,
		QtyCartons:     in.QtyCartons,
		Reason:         in.Reason,
		RefDocument:    in.RefDocument,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	err := e.txRunner.Run(ctx, func(r TxRepos) error {
		bal, err := lockBalance(r, in.ProductID)
		if err != nil {
			return err
		}
		ref := Ref{ID: adj.ID, Kind: entity.RefKindAdjustment}
		if in.Direction == entity.AdjustmentDecrease {
			if err := checkSufficiency(bal, in.QtyKg, in.QtyCartons, domain.ErrNegativeBalance); err != nil {
				return err
			}
			if err := applyDelta(r, bal, in.QtyKg.Neg(), -in.QtyCartons, ref, actor, now); err != nil {
				return err
			}
		} else {
			if err := applyDelta(r, bal, in.QtyKg, in.QtyCartons, ref, actor, now); err != nil {
				return err
			}
		}
		return r.Adjustments.Create(adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// CreditLocked aplica un crédito sobre un saldo ya bloqueado por la transacción
// del caller. Lo usa el coordinador de documentos para encadenar varias líneas
// en una sola unidad de trabajo.
func (e *Engine) CreditLocked(r TxRepos, bal *entity.StockBalance, qtyKg decimal.Decimal, qtyCartons int64, ref Ref, actor string, now time.Time) error {
	if err := ValidateQuantities(qtyKg, qtyCartons); err != nil {
		return err
	}
	return applyDelta(r, bal, qtyKg, qtyCartons, ref, actor, now)
}

// DebitLocked aplica un débito sobre un saldo ya bloqueado, con verificación de
// suficiencia por unidad.
func (e *Engine) DebitLocked(r TxRepos, bal *entity.StockBalance, qtyKg decimal.Decimal, qtyCartons int64, ref Ref, actor string, now time.Time) error {
	if err := ValidateQuantities(qtyKg, qtyCartons); err != nil {
		return err
	}
	if err := checkSufficiency(bal, qtyKg, qtyCartons, domain.ErrInsufficientStock); err != nil {
		return err
	}
	return applyDelta(r, bal, qtyKg.Neg(), -qtyCartons, ref, actor, now)
}

// ReverseCreditLocked revierte un crédito previo (lo debita). Se revalida la
// suficiencia: si operaciones intermedias ya consumieron ese stock, la
// reversión dejaría el saldo negativo y se rechaza con ErrNegativeBalance.
func (e *Engine) ReverseCreditLocked(r TxRepos, bal *entity.StockBalance, qtyKg decimal.Decimal, qtyCartons int64, ref Ref, actor string, now time.Time) error {
	if err := checkSufficiency(bal, qtyKg, qtyCartons, domain.ErrNegativeBalance); err != nil {
		return err
	}
	return applyDelta(r, bal, qtyKg.Neg(), -qtyCartons, ref, actor, now)
}

// ReverseDebitLocked revierte un débito previo (lo acredita). Nunca falla por
// suficiencia: reponer una salida solo puede aumentar el saldo.
func (e *Engine) ReverseDebitLocked(r TxRepos, bal *entity.StockBalance, qtyKg decimal.Decimal, qtyCartons int64, ref Ref, actor string, now time.Time) error {
	return applyDelta(r, bal, qtyKg, qtyCartons, ref, actor, now)
}

// Balance devuelve el saldo actual de un producto (cero si nunca tuvo
// movimientos).
func (e *Engine) Balance(productID string) (*entity.StockBalance, error) {
	return e.balances.Get(productID)
}

// Movements consulta el libro de movimientos, ordenado por fecha descendente.
func (e *Engine) Movements(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return e.movements.List(filter)
}

// Adjustments lista ajustes con filtros.
func (e *Engine) Adjustments(filter repository.AdjustmentFilter) ([]*entity.StockAdjustment, error) {
	return e.adjustments.List(filter)
}

// lockBalance valida que el producto exista y bloquea su fila de saldo.
func lockBalance(r TxRepos, productID string) (*entity.StockBalance, error) {
	product, err := r.Products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return r.Balances.GetForUpdate(productID)
}

// checkSufficiency verifica por unidad que el saldo alcanza para restar qty. El
// error sentinel lo elige el caller: ErrInsufficientStock para salidas,
// ErrNegativeBalance para ajustes y reversiones.
func checkSufficiency(bal *entity.StockBalance, qtyKg decimal.Decimal, qtyCartons int64, sentinel error) error {
	if bal.QtyKg.LessThan(qtyKg) {
		return fmt.Errorf("%w: producto %s: %s kg disponibles, %s solicitados",
			sentinel, bal.ProductID, bal.QtyKg, qtyKg)
	}
	if bal.QtyCartons < qtyCartons {
		return fmt.Errorf("%w: producto %s: %d cartones disponibles, %d solicitados",
			sentinel, bal.ProductID, bal.QtyCartons, qtyCartons)
	}
	return nil
}

// applyDelta muta el saldo bloqueado y añade el movimiento dentro de la misma
// transacción. El delta llega ya firmado; el caller garantiza que el resultado
// no es negativo. El tipo del movimiento se deriva del signo del delta neto: IN
// si alguna componente es positiva, OUT en caso contrario.
func applyDelta(r TxRepos, bal *entity.StockBalance, deltaKg decimal.Decimal, deltaCartons int64, ref Ref, actor string, now time.Time) error {
	kind := entity.MovementKindOUT
	if deltaKg.IsPositive() || deltaCartons > 0 {
		kind = entity.MovementKindIN
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     bal.ProductID,
		Kind:          kind,
		BeforeKg:      bal.QtyKg,
		BeforeCartons: bal.QtyCartons,
		DeltaKg:       deltaKg,
		DeltaCartons:  deltaCartons,
		AfterKg:       bal.QtyKg.Add(deltaKg),
		AfterCartons:  bal.QtyCartons + deltaCartons,
		RefID:         ref.ID,
		RefKind:       ref.Kind,
		CreatedBy:     actor,
		CreatedAt:     now,
	}
	bal.QtyKg = mov.AfterKg
	bal.QtyCartons = mov.AfterCartons
	bal.UpdatedAt = now
	if err := r.Balances.Upsert(bal); err != nil {
		return err
	}
	return r.Movements.Create(mov)
}

// requireActor: el actor es un campo opaco obligatorio que suministra el
// colaborador de autenticación; el motor nunca lo asume por defecto.
func requireActor(actor string) error {
	if actor == "" {
		return fmt.Errorf("%w: actor requerido", domain.ErrInvalidInput)
	}
	return nil
}
