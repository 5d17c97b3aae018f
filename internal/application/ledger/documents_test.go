package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestCoordinator_SubmitEntry(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	store.addProduct("p2", "Azúcar")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionDate:   time.Now(),
		ReceptionNumber: "REC-001",
		InvoiceNumber:   "FAC-77",
		Items: []ledger.LineInput{
			{ProductID: "p1", QtyKg: dec("10"), QtyCartons: 2},
			{ProductID: "p2", QtyKg: dec("5.5")},
		},
	}, "maria")
	require.NoError(t, err)
	require.Len(t, entry.Items, 2)
	assert.Equal(t, "REC-001", entry.ReceptionNumber)

	// Cabecera y líneas persistidas.
	got, err := coord.GetEntry(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 2)

	// Saldos acreditados.
	b1, _ := engine.Balance("p1")
	assert.True(t, b1.QtyKg.Equal(dec("10")))
	assert.Equal(t, int64(2), b1.QtyCartons)
	b2, _ := engine.Balance("p2")
	assert.True(t, b2.QtyKg.Equal(dec("5.5")))

	// Cada movimiento referencia al documento.
	movs, _ := engine.Movements(repository.MovementFilter{})
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entry.ID, m.RefID)
		assert.Equal(t, entity.RefKindEntry, m.RefKind)
		assert.Equal(t, entity.MovementKindIN, m.Kind)
	}
}

func TestCoordinator_SubmitEntry_LoteVacio(t *testing.T) {
	store := newMemStore()
	_, coord := newTestEngine(store)

	_, err := coord.SubmitEntry(context.Background(), ledger.EntryInput{
		ReceptionNumber: "REC-002",
	}, "maria")
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestCoordinator_SubmitEntry_ProductoInexistenteDescartaTodo(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)

	_, err := coord.SubmitEntry(context.Background(), ledger.EntryInput{
		ReceptionNumber: "REC-003",
		Items: []ledger.LineInput{
			{ProductID: "p1", QtyKg: dec("10")},
			{ProductID: "fantasma", QtyKg: dec("1")},
		},
	}, "maria")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Nada confirmado: ni documento, ni saldo, ni movimientos.
	entries, _ := coord.ListEntries(repository.EntryFilter{})
	assert.Empty(t, entries)
	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.IsZero())
	movs, _ := engine.Movements(repository.MovementFilter{})
	assert.Empty(t, movs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func seedStock(t *testing.T, engine *ledger.Engine, productID, kg string, cartons int64) {
	t.Helper()
	_, err := engine.Credit(context.Background(), productID, dec(kg), cartons,
		ledger.Ref{ID: "seed", Kind: entity.RefKindEntry}, "seed")
	require.NoError(t, err)
}

func TestCoordinator_SubmitExit(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	seedStock(t, engine, "p1", "20", 10)

	exit, err := coord.SubmitExit(context.Background(), ledger.ExitInput{
		ExitDate:      time.Now(),
		InvoiceNumber: "FAC-100",
		ExitType:      entity.ExitTypeSale,
		Items: []ledger.LineInput{
			{ProductID: "p1", QtyKg: dec("8"), QtyCartons: 4},
		},
	}, "maria")
	require.NoError(t, err)
	require.Len(t, exit.Items, 1)

	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("12")))
	assert.Equal(t, int64(6), bal.QtyCartons)
}

func TestCoordinator_SubmitExit_TipoDesconocido(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	seedStock(t, engine, "p1", "20", 0)

	_, err := coord.SubmitExit(context.Background(), ledger.ExitInput{
		ExitType: "regalo",
		Items:    []ledger.LineInput{{ProductID: "p1", QtyKg: dec("1")}},
	}, "maria")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCoordinator_SubmitExit_LineaInsuficienteDescartaTodo(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	store.addProduct("p2", "Azúcar")
	engine, coord := newTestEngine(store)
	seedStock(t, engine, "p1", "20", 0)
	seedStock(t, engine, "p2", "2", 0)

	_, err := coord.SubmitExit(context.Background(), ledger.ExitInput{
		ExitType: entity.ExitTypeSale,
		Items: []ledger.LineInput{
			{ProductID: "p1", QtyKg: dec("5")},
			{ProductID: "p1", QtyKg: dec("5")},
			{ProductID: "p2", QtyKg: dec("99")}, // excede el saldo
		},
	}, "maria")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Las dos primeras líneas se descartan junto a la tercera.
	b1, _ := engine.Balance("p1")
	assert.True(t, b1.QtyKg.Equal(dec("20")))
	b2, _ := engine.Balance("p2")
	assert.True(t, b2.QtyKg.Equal(dec("2")))
	exits, _ := coord.ListExits(repository.ExitFilter{})
	assert.Empty(t, exits)
}

func TestCoordinator_SubmitExit_DosLineasMismoProducto(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	seedStock(t, engine, "p1", "10", 0)

	// 6 + 6 contra 10: la segunda línea ve el saldo ya decrementado.
	_, err := coord.SubmitExit(context.Background(), ledger.ExitInput{
		ExitType: entity.ExitTypeSale,
		Items: []ledger.LineInput{
			{ProductID: "p1", QtyKg: dec("6")},
			{ProductID: "p1", QtyKg: dec("6")},
		},
	}, "maria")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("10")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestCoordinator_EditEntryItem_CambioDeCantidad(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionNumber: "REC-010",
		Items:           []ledger.LineInput{{ProductID: "p1", QtyKg: dec("10"), QtyCartons: 2}},
	}, "maria")
	require.NoError(t, err)

	newKg := dec("4")
	item, err := coord.EditEntryItem(ctx, entry.Items[0].ID, ledger.LineUpdate{QtyKg: &newKg}, "maria")
	require.NoError(t, err)
	assert.True(t, item.QtyKg.Equal(dec("4")))
	assert.Equal(t, int64(2), item.QtyCartons, "la cantidad no tocada se conserva")

	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("4")))
	assert.Equal(t, int64(2), bal.QtyCartons)

	// Reversión + reaplicación: dos movimientos nuevos además del original.
	movs, _ := engine.Movements(repository.MovementFilter{ProductID: "p1"})
	assert.Len(t, movs, 3)
}

func TestCoordinator_EditEntryItem_BloqueadoPorStockConsumido(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionNumber: "REC-011",
		Items:           []ledger.LineInput{{ProductID: "p1", QtyKg: dec("10")}},
	}, "maria")
	require.NoError(t, err)

	// Se consumen 8 de los 10 kg de esa entrada.
	_, err = coord.SubmitExit(ctx, ledger.ExitInput{
		ExitType: entity.ExitTypeSale,
		Items:    []ledger.LineInput{{ProductID: "p1", QtyKg: dec("8")}},
	}, "maria")
	require.NoError(t, err)

	// Revertir los 10 kg originales dejaría el saldo en -8: se rechaza.
	newKg := dec("3")
	_, err = coord.EditEntryItem(ctx, entry.Items[0].ID, ledger.LineUpdate{QtyKg: &newKg}, "maria")
	require.ErrorIs(t, err, domain.ErrNegativeBalance)

	// La línea queda intacta.
	got, _ := coord.GetEntry(entry.ID)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].QtyKg.Equal(dec("10")))
	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("2")))
}

func TestCoordinator_EditEntryItem_CambioDeProducto(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	store.addProduct("p2", "Azúcar")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionNumber: "REC-012",
		Items:           []ledger.LineInput{{ProductID: "p1", QtyKg: dec("5")}},
	}, "maria")
	require.NoError(t, err)

	p2 := "p2"
	item, err := coord.EditEntryItem(ctx, entry.Items[0].ID, ledger.LineUpdate{ProductID: &p2}, "maria")
	require.NoError(t, err)
	assert.Equal(t, "p2", item.ProductID)

	b1, _ := engine.Balance("p1")
	assert.True(t, b1.QtyKg.IsZero())
	b2, _ := engine.Balance("p2")
	assert.True(t, b2.QtyKg.Equal(dec("5")))
}

func TestCoordinator_EditExitItem_SuficienciaDelNuevoDebito(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	ctx := context.Background()
	seedStock(t, engine, "p1", "10", 0)

	exit, err := coord.SubmitExit(ctx, ledger.ExitInput{
		ExitType: entity.ExitTypeSale,
		Items:    []ledger.LineInput{{ProductID: "p1", QtyKg: dec("4")}},
	}, "maria")
	require.NoError(t, err)

	// Subir la salida a 20 kg: ni con la reversión de 4 alcanza.
	newKg := dec("20")
	_, err = coord.EditExitItem(ctx, exit.Items[0].ID, ledger.LineUpdate{QtyKg: &newKg}, "maria")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("6")), "la edición fallida no debe tocar el saldo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado de líneas y documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestCoordinator_DeleteEntryItem_Revalida(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionNumber: "REC-020",
		Items:           []ledger.LineInput{{ProductID: "p1", QtyKg: dec("10")}},
	}, "maria")
	require.NoError(t, err)

	_, err = coord.SubmitExit(ctx, ledger.ExitInput{
		ExitType: entity.ExitTypeSale,
		Items:    []ledger.LineInput{{ProductID: "p1", QtyKg: dec("7")}},
	}, "maria")
	require.NoError(t, err)

	err = coord.DeleteEntryItem(ctx, entry.Items[0].ID, "maria")
	require.ErrorIs(t, err, domain.ErrNegativeBalance)

	got, _ := coord.GetEntry(entry.ID)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1, "la línea no debe borrarse si la reversión falla")
	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("3")))
}

func TestCoordinator_DeleteEntryItem_UltimaLineaBorraCabecera(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionNumber: "REC-021",
		Items:           []ledger.LineInput{{ProductID: "p1", QtyKg: dec("10")}},
	}, "maria")
	require.NoError(t, err)

	require.NoError(t, coord.DeleteEntryItem(ctx, entry.Items[0].ID, "maria"))

	got, _ := coord.GetEntry(entry.ID)
	assert.Nil(t, got, "sin líneas la cabecera desaparece")
	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.IsZero())
}

func TestCoordinator_DeleteExitItem_ReponeStock(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	engine, coord := newTestEngine(store)
	ctx := context.Background()
	seedStock(t, engine, "p1", "10", 0)

	exit, err := coord.SubmitExit(ctx, ledger.ExitInput{
		ExitType: entity.ExitTypeDonation,
		Items:    []ledger.LineInput{{ProductID: "p1", QtyKg: dec("6")}},
	}, "maria")
	require.NoError(t, err)

	require.NoError(t, coord.DeleteExitItem(ctx, exit.Items[0].ID, "maria"))

	bal, _ := engine.Balance("p1")
	assert.True(t, bal.QtyKg.Equal(dec("10")))
	got, _ := coord.GetExit(exit.ID)
	assert.Nil(t, got)
}

func TestCoordinator_DeleteEntry_RevierteTodasLasLineas(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	store.addProduct("p2", "Azúcar")
	engine, coord := newTestEngine(store)
	ctx := context.Background()

	entry, err := coord.SubmitEntry(ctx, ledger.EntryInput{
		ReceptionNumber: "REC-030",
		Items: []ledger.LineInput{
			{ProductID: "p1", QtyKg: dec("10")},
			{ProductID: "p2", QtyKg: dec("4"), QtyCartons: 2},
		},
	}, "maria")
	require.NoError(t, err)

	require.NoError(t, coord.DeleteEntry(ctx, entry.ID, "maria"))

	b1, _ := engine.Balance("p1")
	assert.True(t, b1.QtyKg.IsZero())
	b2, _ := engine.Balance("p2")
	assert.True(t, b2.QtyKg.IsZero())
	assert.Equal(t, int64(0), b2.QtyCartons)
	got, _ := coord.GetEntry(entry.ID)
	assert.Nil(t, got)
}

func TestCoordinator_GetEntryByReceptionNumber(t *testing.T) {
	store := newMemStore()
	store.addProduct("p1", "Arroz")
	_, coord := newTestEngine(store)

	entry, err := coord.SubmitEntry(context.Background(), ledger.EntryInput{
		ReceptionNumber: "REC-040",
		Items:           []ledger.LineInput{{ProductID: "p1", QtyKg: dec("1")}},
	}, "maria")
	require.NoError(t, err)

	got, err := coord.GetEntryByReceptionNumber("REC-040")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.ID, got.ID)
	assert.Len(t, got.Items, 1)
}
