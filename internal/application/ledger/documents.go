package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LineInput es una línea de documento tal como la envía el caller.
type LineInput struct {
	ProductID  string
	QtyKg      decimal.Decimal
	QtyCartons int64
	ExpiryDate *time.Time
	Remark     string
}

// EntryInput documento de entrada: cabecera + líneas.
type EntryInput struct {
	ReceptionDate     time.Time
	ReceptionNumber   string
	CarnetNumber      string
	InvoiceNumber     string
	PackingListNumber string
	Items             []LineInput
}

// ExitInput documento de salida: cabecera + líneas.
type ExitInput struct {
	ExitDate      time.Time
	InvoiceNumber string
	ExitType      string
	SalePrice     *decimal.Decimal
	Remark        string
	Items         []LineInput
}

// LineUpdate campos editables de una línea. Los punteros en nil dejan el campo
// como está.
type LineUpdate struct {
	ProductID  *string
	QtyKg      *decimal.Decimal
	QtyCartons *int64
	ExpiryDate *time.Time
	Remark     *string
}

// DocumentCoordinator aplica un documento (cabecera + N líneas) como una unidad
// todo-o-nada: la primera línea que falla descarta la cabecera, las líneas, los
// saldos y los movimientos de toda la sumisión. No existe estado intermedio:
// un documento está completamente confirmado o completamente ausente.
type DocumentCoordinator struct {
	engine   *Engine
	txRunner TxRunner

	// Lado de lectura, atado al pool.
	entries repository.EntryRepository
	exits   repository.ExitRepository
}

// NewDocumentCoordinator construye el coordinador.
func NewDocumentCoordinator(engine *Engine, txRunner TxRunner, entries repository.EntryRepository, exits repository.ExitRepository) *DocumentCoordinator {
	return &DocumentCoordinator{engine: engine, txRunner: txRunner, entries: entries, exits: exits}
}

// SubmitEntry confirma un documento de entrada: cada línea acredita su producto
// y deja un movimiento IN referenciando al documento. Todo en una transacción.
func (c *DocumentCoordinator) SubmitEntry(ctx context.Context, in EntryInput, actor string) (*entity.StockEntry, error) {
	if err := validateBatch(in.Items, actor); err != nil {
		return nil, err
	}
	now := time.Now()
	header := &entity.StockEntry{
		ID:                uuid.New().String(),
		ReceptionDate:     in.ReceptionDate,
		ReceptionNumber:   in.ReceptionNumber,
		CarnetNumber:      in.CarnetNumber,
		InvoiceNumber:     in.InvoiceNumber,
		PackingListNumber: in.PackingListNumber,
		CreatedBy:         actor,
		CreatedAt:         now,
	}
	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		balances, err := lockBalances(r, productIDs(in.Items))
		if err != nil {
			return err
		}
		if err := r.Entries.CreateHeader(header); err != nil {
			return err
		}
		ref := Ref{ID: header.ID, Kind: entity.RefKindEntry}
		for _, line := range in.Items { // orden de entrada
			item := &entity.StockEntryItem{
				ID:         uuid.New().String(),
				EntryID:    header.ID,
				ProductID:  line.ProductID,
				QtyKg:      line.QtyKg,
				QtyCartons: line.QtyCartons,
				ExpiryDate: line.ExpiryDate,
				Remark:     line.Remark,
			}
			if err := r.Entries.AddItem(item); err != nil {
				return err
			}
			if err := c.engine.CreditLocked(r, balances[line.ProductID], line.QtyKg, line.QtyCartons, ref, actor, now); err != nil {
				return err
			}
			header.Items = append(header.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

// SubmitExit confirma un documento de salida: cada línea debita su producto con
// verificación de suficiencia. Dos líneas sobre el mismo producto ven el saldo
// ya decrementado por la anterior, porque comparten la misma fila bloqueada.
func (c *DocumentCoordinator) SubmitExit(ctx context.Context, in ExitInput, actor string) (*entity.StockExit, error) {
	if err := validateBatch(in.Items, actor); err != nil {
		return nil, err
	}
	if !entity.ValidExitType(in.ExitType) {
		return nil, fmt.Errorf("%w: tipo de salida %q desconocido", domain.ErrInvalidInput, in.ExitType)
	}
	now := time.Now()
	header := &entity.StockExit{
		ID:            uuid.New().String(),
		ExitDate:      in.ExitDate,
		InvoiceNumber: in.InvoiceNumber,
		ExitType:      in.ExitType,
		SalePrice:     in.SalePrice,
		Remark:        in.Remark,
		CreatedBy:     actor,
		CreatedAt:     now,
	}
	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		balances, err := lockBalances(r, productIDs(in.Items))
		if err != nil {
			return err
		}
		if err := r.Exits.CreateHeader(header); err != nil {
			return err
		}
		ref := Ref{ID: header.ID, Kind: entity.RefKindExit}
		for _, line := range in.Items {
			item := &entity.StockExitItem{
				ID:         uuid.New().String(),
				ExitID:     header.ID,
				ProductID:  line.ProductID,
				QtyKg:      line.QtyKg,
				QtyCartons: line.QtyCartons,
				ExpiryDate: line.ExpiryDate,
				Remark:     line.Remark,
			}
			if err := r.Exits.AddItem(item); err != nil {
				return err
			}
			if err := c.engine.DebitLocked(r, balances[line.ProductID], line.QtyKg, line.QtyCartons, ref, actor, now); err != nil {
				return err
			}
			header.Items = append(header.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

// EditEntryItem edita una línea de entrada. Si cambian producto o cantidades,
// la reversión del impacto viejo y la aplicación del nuevo se encadenan dentro
// de la misma transacción: si la reaplicación falla no queda ningún estado
// intermedio confirmado.
func (c *DocumentCoordinator) EditEntryItem(ctx context.Context, itemID string, upd LineUpdate, actor string) (*entity.StockEntryItem, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.StockEntryItem
	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		item, err := r.Entries.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: línea de entrada %s", domain.ErrNotFound, itemID)
		}
		newProduct, newKg, newCartons := resolveLineUpdate(item.ProductID, item.QtyKg, item.QtyCartons, upd)
		if newProduct != item.ProductID || !newKg.Equal(item.QtyKg) || newCartons != item.QtyCartons {
			balances, err := lockBalances(r, []string{item.ProductID, newProduct})
			if err != nil {
				return err
			}
			now := time.Now()
			ref := Ref{ID: item.EntryID, Kind: entity.RefKindEntry}
			if err := c.engine.ReverseCreditLocked(r, balances[item.ProductID], item.QtyKg, item.QtyCartons, ref, actor, now); err != nil {
				return err
			}
			if err := c.engine.CreditLocked(r, balances[newProduct], newKg, newCartons, ref, actor, now); err != nil {
				return err
			}
		}
		item.ProductID = newProduct
		item.QtyKg = newKg
		item.QtyCartons = newCartons
		if upd.ExpiryDate != nil {
			item.ExpiryDate = upd.ExpiryDate
		}
		if upd.Remark != nil {
			item.Remark = *upd.Remark
		}
		if err := r.Entries.UpdateItem(item); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EditExitItem edita una línea de salida: revierte el débito viejo (crédito) y
// aplica el nuevo débito con verificación de suficiencia, en una transacción.
func (c *DocumentCoordinator) EditExitItem(ctx context.Context, itemID string, upd LineUpdate, actor string) (*entity.StockExitItem, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.StockExitItem
	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		item, err := r.Exits.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: línea de salida %s", domain.ErrNotFound, itemID)
		}
		newProduct, newKg, newCartons := resolveLineUpdate(item.ProductID, item.QtyKg, item.QtyCartons, upd)
		if newProduct != item.ProductID || !newKg.Equal(item.QtyKg) || newCartons != item.QtyCartons {
			balances, err := lockBalances(r, []string{item.ProductID, newProduct})
			if err != nil {
				return err
			}
			now := time.Now()
			ref := Ref{ID: item.ExitID, Kind: entity.RefKindExit}
			if err := c.engine.ReverseDebitLocked(r, balances[item.ProductID], item.QtyKg, item.QtyCartons, ref, actor, now); err != nil {
				return err
			}
			if err := c.engine.DebitLocked(r, balances[newProduct], newKg, newCartons, ref, actor, now); err != nil {
				return err
			}
		}
		item.ProductID = newProduct
		item.QtyKg = newKg
		item.QtyCartons = newCartons
		if upd.ExpiryDate != nil {
			item.ExpiryDate = upd.ExpiryDate
		}
		if upd.Remark != nil {
			item.Remark = *upd.Remark
		}
		if err := r.Exits.UpdateItem(item); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteEntryItem revierte el crédito de la línea y la elimina. La reversión se
// revalida: si salidas intermedias ya consumieron ese stock, borrar la entrada
// dejaría el saldo negativo y se rechaza con ErrNegativeBalance. Al borrar la
// última línea se elimina también la cabecera.
func (c *DocumentCoordinator) DeleteEntryItem(ctx context.Context, itemID string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(r TxRepos) error {
		item, err := r.Entries.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: línea de entrada %s", domain.ErrNotFound, itemID)
		}
		balances, err := lockBalances(r, []string{item.ProductID})
		if err != nil {
			return err
		}
		ref := Ref{ID: item.EntryID, Kind: entity.RefKindEntry}
		if err := c.engine.ReverseCreditLocked(r, balances[item.ProductID], item.QtyKg, item.QtyCartons, ref, actor, time.Now()); err != nil {
			return err
		}
		if err := r.Entries.DeleteItem(itemID); err != nil {
			return err
		}
		return dropHeaderIfEmpty(r.Entries.CountItems, r.Entries.DeleteHeader, item.EntryID)
	})
}

// DeleteExitItem revierte el débito de la línea (crédito incondicional) y la
// elimina. Al borrar la última línea se elimina también la cabecera.
func (c *DocumentCoordinator) DeleteExitItem(ctx context.Context, itemID string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(r TxRepos) error {
		item, err := r.Exits.GetItem(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: línea de salida %s", domain.ErrNotFound, itemID)
		}
		balances, err := lockBalances(r, []string{item.ProductID})
		if err != nil {
			return err
		}
		ref := Ref{ID: item.ExitID, Kind: entity.RefKindExit}
		if err := c.engine.ReverseDebitLocked(r, balances[item.ProductID], item.QtyKg, item.QtyCartons, ref, actor, time.Now()); err != nil {
			return err
		}
		if err := r.Exits.DeleteItem(itemID); err != nil {
			return err
		}
		return dropHeaderIfEmpty(r.Exits.CountItems, r.Exits.DeleteHeader, item.ExitID)
	})
}

// DeleteEntry revierte todas las líneas del documento de entrada y lo elimina.
func (c *DocumentCoordinator) DeleteEntry(ctx context.Context, entryID string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(r TxRepos) error {
		header, err := r.Entries.GetHeader(entryID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, entryID)
		}
		balances, err := lockBalances(r, entryProductIDs(header.Items))
		if err != nil {
			return err
		}
		now := time.Now()
		ref := Ref{ID: header.ID, Kind: entity.RefKindEntry}
		for _, item := range header.Items {
			if err := c.engine.ReverseCreditLocked(r, balances[item.ProductID], item.QtyKg, item.QtyCartons, ref, actor, now); err != nil {
				return err
			}
		}
		return r.Entries.DeleteHeader(entryID)
	})
}

// DeleteExit revierte todas las líneas del documento de salida y lo elimina.
func (c *DocumentCoordinator) DeleteExit(ctx context.Context, exitID string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return c.txRunner.Run(ctx, func(r TxRepos) error {
		header, err := r.Exits.GetHeader(exitID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: salida %s", domain.ErrNotFound, exitID)
		}
		balances, err := lockBalances(r, exitProductIDs(header.Items))
		if err != nil {
			return err
		}
		now := time.Now()
		ref := Ref{ID: header.ID, Kind: entity.RefKindExit}
		for _, item := range header.Items {
			if err := c.engine.ReverseDebitLocked(r, balances[item.ProductID], item.QtyKg, item.QtyCartons, ref, actor, now); err != nil {
				return err
			}
		}
		return r.Exits.DeleteHeader(exitID)
	})
}

// GetEntry devuelve un documento de entrada con sus líneas.
func (c *DocumentCoordinator) GetEntry(entryID string) (*entity.StockEntry, error) {
	return c.entries.GetHeader(entryID)
}

// GetEntryByReceptionNumber devuelve la entrada (con líneas) de un número de
// recepción exacto.
func (c *DocumentCoordinator) GetEntryByReceptionNumber(receptionNumber string) (*entity.StockEntry, error) {
	return c.entries.GetByReceptionNumber(receptionNumber)
}

// ListEntries lista documentos de entrada con filtros.
func (c *DocumentCoordinator) ListEntries(filter repository.EntryFilter) ([]*entity.StockEntry, error) {
	return c.entries.List(filter)
}

// GetExit devuelve un documento de salida con sus líneas.
func (c *DocumentCoordinator) GetExit(exitID string) (*entity.StockExit, error) {
	return c.exits.GetHeader(exitID)
}

// ListExits lista documentos de salida con filtros.
func (c *DocumentCoordinator) ListExits(filter repository.ExitFilter) ([]*entity.StockExit, error) {
	return c.exits.List(filter)
}

// validateBatch valida lote no vacío, cantidades y actor antes de abrir la
// transacción.
func validateBatch(items []LineInput, actor string) error {
	if len(items) == 0 {
		return fmt.Errorf("%w", domain.ErrEmptyBatch)
	}
	for i, line := range items {
		if err := ValidateQuantities(line.QtyKg, line.QtyCartons); err != nil {
			return fmt.Errorf("línea %d: %w", i+1, err)
		}
	}
	return requireActor(actor)
}

// lockBalances valida y bloquea los saldos de los productos dados, en orden
// ascendente de id, para que dos lotes concurrentes con productos en común
// adquieran los bloqueos en el mismo orden y no se interbloqueen.
func lockBalances(r TxRepos, ids []string) (map[string]*entity.StockBalance, error) {
	distinct := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}
	sort.Strings(distinct)
	balances := make(map[string]*entity.StockBalance, len(distinct))
	for _, id := range distinct {
		bal, err := lockBalance(r, id)
		if err != nil {
			return nil, err
		}
		balances[id] = bal
	}
	return balances, nil
}

func productIDs(items []LineInput) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func entryProductIDs(items []*entity.StockEntryItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func exitProductIDs(items []*entity.StockExitItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func resolveLineUpdate(productID string, qtyKg decimal.Decimal, qtyCartons int64, upd LineUpdate) (string, decimal.Decimal, int64) {
	if upd.ProductID != nil {
		productID = *upd.ProductID
	}
	if upd.QtyKg != nil {
		qtyKg = *upd.QtyKg
	}
	if upd.QtyCartons != nil {
		qtyCartons = *upd.QtyCartons
	}
	return productID, qtyKg, qtyCartons
}

func dropHeaderIfEmpty(count func(string) (int, error), drop func(string) error, headerID string) error {
	n, err := count(headerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return drop(headerID)
	}
	return nil
}
