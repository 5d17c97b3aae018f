package ledger_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un memStore respaldando todos los repositorios, y un
// memTxRunner que imita la semántica transaccional de PostgreSQL — un mutex
// serializa las transacciones (como los bloqueos de fila) y un snapshot
// restaura el estado si el callback falla (como el rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu          sync.Mutex
	products    map[string]*entity.Product
	balances    map[string]*entity.StockBalance
	movements   []*entity.StockMovement
	adjustments []*entity.StockAdjustment
	entries     map[string]*entity.StockEntry
	entryItems  map[string]*entity.StockEntryItem
	exits       map[string]*entity.StockExit
	exitItems   map[string]*entity.StockExitItem
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		balances:   make(map[string]*entity.StockBalance),
		entries:    make(map[string]*entity.StockEntry),
		entryItems: make(map[string]*entity.StockEntryItem),
		exits:      make(map[string]*entity.StockExit),
		exitItems:  make(map[string]*entity.StockExitItem),
	}
}

// addProduct siembra un producto con saldo en cero.
func (s *memStore) addProduct(id, name string) {
	now := time.Now()
	s.products[id] = &entity.Product{ID: id, Code: id, Name: name, UnitKg: true, UnitCartons: true, CreatedAt: now, UpdatedAt: now}
	s.balances[id] = &entity.StockBalance{ProductID: id, UpdatedAt: now}
}

type memSnapshot struct {
	products    map[string]entity.Product
	balances    map[string]entity.StockBalance
	movements   []entity.StockMovement
	adjustments []entity.StockAdjustment
	entries     map[string]entity.StockEntry
	entryItems  map[string]entity.StockEntryItem
	exits       map[string]entity.StockExit
	exitItems   map[string]entity.StockExitItem
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:   make(map[string]entity.Product, len(s.products)),
		balances:   make(map[string]entity.StockBalance, len(s.balances)),
		entries:    make(map[string]entity.StockEntry, len(s.entries)),
		entryItems: make(map[string]entity.StockEntryItem, len(s.entryItems)),
		exits:      make(map[string]entity.StockExit, len(s.exits)),
		exitItems:  make(map[string]entity.StockExitItem, len(s.exitItems)),
	}
	for k, v := range s.products {
		snap.products[k] = *v
	}
	for k, v := range s.balances {
		snap.balances[k] = *v
	}
	for _, m := range s.movements {
		snap.movements = append(snap.movements, *m)
	}
	for _, a := range s.adjustments {
		snap.adjustments = append(snap.adjustments, *a)
	}
	for k, v := range s.entries {
		e := *v
		e.Items = nil
		snap.entries[k] = e
	}
	for k, v := range s.entryItems {
		snap.entryItems[k] = *v
	}
	for k, v := range s.exits {
		e := *v
		e.Items = nil
		snap.exits[k] = e
	}
	for k, v := range s.exitItems {
		snap.exitItems[k] = *v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = make(map[string]*entity.Product, len(snap.products))
	for k := range snap.products {
		v := snap.products[k]
		s.products[k] = &v
	}
	s.balances = make(map[string]*entity.StockBalance, len(snap.balances))
	for k := range snap.balances {
		v := snap.balances[k]
		s.balances[k] = &v
	}
	s.movements = nil
	for i := range snap.movements {
		m := snap.movements[i]
		s.movements = append(s.movements, &m)
	}
	s.adjustments = nil
	for i := range snap.adjustments {
		a := snap.adjustments[i]
		s.adjustments = append(s.adjustments, &a)
	}
	s.entries = make(map[string]*entity.StockEntry, len(snap.entries))
	for k := range snap.entries {
		v := snap.entries[k]
		s.entries[k] = &v
	}
	s.entryItems = make(map[string]*entity.StockEntryItem, len(snap.entryItems))
	for k := range snap.entryItems {
		v := snap.entryItems[k]
		s.entryItems[k] = &v
	}
	s.exits = make(map[string]*entity.StockExit, len(snap.exits))
	for k := range snap.exits {
		v := snap.exits[k]
		s.exits[k] = &v
	}
	s.exitItems = make(map[string]*entity.StockExitItem, len(snap.exitItems))
	for k := range snap.exitItems {
		v := snap.exitItems[k]
		s.exitItems[k] = &v
	}
}

func (s *memStore) repos() ledger.TxRepos {
	return ledger.TxRepos{
		Balances:    &memBalanceRepo{s: s},
		Movements:   &memMovementRepo{s: s},
		Entries:     &memEntryRepo{s: s},
		Exits:       &memExitRepo{s: s},
		Adjustments: &memAdjustmentRepo{s: s},
		Products:    &memProductRepo{s: s},
	}
}

type memTxRunner struct {
	s *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(repos ledger.TxRepos) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(r.s.repos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// newTestEngine arma motor + coordinador sobre un store fresco.
func newTestEngine(s *memStore) (*ledger.Engine, *ledger.DocumentCoordinator) {
	repos := s.repos()
	runner := &memTxRunner{s: s}
	engine := ledger.NewEngine(runner, repos.Balances, repos.Movements, repos.Adjustments)
	coord := ledger.NewDocumentCoordinator(engine, runner, repos.Entries, repos.Exits)
	return engine, coord
}

// ── BalanceRepository ─────────────────────────────────────────────────────────

type memBalanceRepo struct{ s *memStore }

func (r *memBalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	if b, ok := r.s.balances[productID]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.StockBalance{ProductID: productID}, nil
}

func (r *memBalanceRepo) GetForUpdate(productID string) (*entity.StockBalance, error) {
	return r.Get(productID)
}

func (r *memBalanceRepo) Upsert(balance *entity.StockBalance) error {
	cp := *balance
	r.s.balances[balance.ProductID] = &cp
	return nil
}

func (r *memBalanceRepo) ResetAll() error {
	for id, b := range r.s.balances {
		r.s.balances[id] = &entity.StockBalance{ProductID: b.ProductID, UpdatedAt: time.Now()}
	}
	return nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memMovementRepo) ExistsForProduct(productID string) (bool, error) {
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovementRepo) DeleteAll() error {
	r.s.movements = nil
	return nil
}

// ── EntryRepository ───────────────────────────────────────────────────────────

type memEntryRepo struct{ s *memStore }

func (r *memEntryRepo) CreateHeader(e *entity.StockEntry) error {
	cp := *e
	cp.Items = nil
	r.s.entries[e.ID] = &cp
	return nil
}

func (r *memEntryRepo) AddItem(item *entity.StockEntryItem) error {
	cp := *item
	r.s.entryItems[item.ID] = &cp
	return nil
}

func (r *memEntryRepo) GetHeader(id string) (*entity.StockEntry, error) {
	h, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	cp.Items = r.itemsOf(id)
	return &cp, nil
}

func (r *memEntryRepo) GetItem(itemID string) (*entity.StockEntryItem, error) {
	it, ok := r.s.entryItems[itemID]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memEntryRepo) UpdateItem(item *entity.StockEntryItem) error {
	cp := *item
	r.s.entryItems[item.ID] = &cp
	return nil
}

func (r *memEntryRepo) DeleteItem(itemID string) error {
	delete(r.s.entryItems, itemID)
	return nil
}

func (r *memEntryRepo) DeleteHeader(id string) error {
	delete(r.s.entries, id)
	for itemID, it := range r.s.entryItems {
		if it.EntryID == id {
			delete(r.s.entryItems, itemID)
		}
	}
	return nil
}

func (r *memEntryRepo) CountItems(entryID string) (int, error) {
	return len(r.itemsOf(entryID)), nil
}

func (r *memEntryRepo) List(filter repository.EntryFilter) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for id := range r.s.entries {
		h, _ := r.GetHeader(id)
		if filter.ReceptionNumber != "" && !strings.Contains(h.ReceptionNumber, filter.ReceptionNumber) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceptionDate.After(out[j].ReceptionDate) })
	return out, nil
}

func (r *memEntryRepo) GetByReceptionNumber(receptionNumber string) (*entity.StockEntry, error) {
	for id, h := range r.s.entries {
		if h.ReceptionNumber == receptionNumber {
			return r.GetHeader(id)
		}
	}
	return nil, nil
}

func (r *memEntryRepo) DeleteAll() error {
	r.s.entries = make(map[string]*entity.StockEntry)
	r.s.entryItems = make(map[string]*entity.StockEntryItem)
	return nil
}

func (r *memEntryRepo) itemsOf(entryID string) []*entity.StockEntryItem {
	var items []*entity.StockEntryItem
	for _, it := range r.s.entryItems {
		if it.EntryID == entryID {
			cp := *it
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// ── ExitRepository ────────────────────────────────────────────────────────────

type memExitRepo struct{ s *memStore }

func (r *memExitRepo) CreateHeader(e *entity.StockExit) error {
	cp := *e
	cp.Items = nil
	r.s.exits[e.ID] = &cp
	return nil
}

func (r *memExitRepo) AddItem(item *entity.StockExitItem) error {
	cp := *item
	r.s.exitItems[item.ID] = &cp
	return nil
}

func (r *memExitRepo) GetHeader(id string) (*entity.StockExit, error) {
	h, ok := r.s.exits[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	cp.Items = r.itemsOf(id)
	return &cp, nil
}

func (r *memExitRepo) GetItem(itemID string) (*entity.StockExitItem, error) {
	it, ok := r.s.exitItems[itemID]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memExitRepo) UpdateItem(item *entity.StockExitItem) error {
	cp := *item
	r.s.exitItems[item.ID] = &cp
	return nil
}

func (r *memExitRepo) DeleteItem(itemID string) error {
	delete(r.s.exitItems, itemID)
	return nil
}

func (r *memExitRepo) DeleteHeader(id string) error {
	delete(r.s.exits, id)
	for itemID, it := range r.s.exitItems {
		if it.ExitID == id {
			delete(r.s.exitItems, itemID)
		}
	}
	return nil
}

func (r *memExitRepo) CountItems(exitID string) (int, error) {
	return len(r.itemsOf(exitID)), nil
}

func (r *memExitRepo) List(filter repository.ExitFilter) ([]*entity.StockExit, error) {
	var out []*entity.StockExit
	for id := range r.s.exits {
		h, _ := r.GetHeader(id)
		if filter.ExitType != "" && h.ExitType != filter.ExitType {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExitDate.After(out[j].ExitDate) })
	return out, nil
}

func (r *memExitRepo) DeleteAll() error {
	r.s.exits = make(map[string]*entity.StockExit)
	r.s.exitItems = make(map[string]*entity.StockExitItem)
	return nil
}

func (r *memExitRepo) itemsOf(exitID string) []*entity.StockExitItem {
	var items []*entity.StockExitItem
	for _, it := range r.s.exitItems {
		if it.ExitID == exitID {
			cp := *it
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// ── AdjustmentRepository ──────────────────────────────────────────────────────

type memAdjustmentRepo struct{ s *memStore }

func (r *memAdjustmentRepo) Create(a *entity.StockAdjustment) error {
	cp := *a
	r.s.adjustments = append(r.s.adjustments, &cp)
	return nil
}

func (r *memAdjustmentRepo) List(filter repository.AdjustmentFilter) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if filter.ProductID != "" && a.ProductID != filter.ProductID {
			continue
		}
		if filter.Direction != "" && a.Direction != filter.Direction {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AdjustmentDate.After(out[j].AdjustmentDate) })
	return out, nil
}

func (r *memAdjustmentRepo) DeleteAll() error {
	r.s.adjustments = nil
	return nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	delete(r.s.balances, id)
	return nil
}

func (r *memProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(p.Name, search) && !strings.Contains(p.Code, search) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
