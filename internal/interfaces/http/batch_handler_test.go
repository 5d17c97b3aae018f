package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
)

// fakeSubmitter confirma documentos en memoria y falla en los números de
// documento marcados, para simular una línea sin stock a mitad del lote.
type fakeSubmitter struct {
	entries     []ledger.EntryInput
	exits       []ledger.ExitInput
	actors      []string
	failEntries map[string]error // por número de recepción
	failExits   map[string]error // por número de factura
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{
		failEntries: make(map[string]error),
		failExits:   make(map[string]error),
	}
}

func (s *fakeSubmitter) SubmitEntry(_ context.Context, in ledger.EntryInput, actor string) (*entity.StockEntry, error) {
	if err, ok := s.failEntries[in.ReceptionNumber]; ok {
		return nil, err
	}
	s.entries = append(s.entries, in)
	s.actors = append(s.actors, actor)
	return &entity.StockEntry{ID: fmt.Sprintf("entry-%d", len(s.entries)), ReceptionNumber: in.ReceptionNumber}, nil
}

func (s *fakeSubmitter) SubmitExit(_ context.Context, in ledger.ExitInput, actor string) (*entity.StockExit, error) {
	if err, ok := s.failExits[in.InvoiceNumber]; ok {
		return nil, err
	}
	s.exits = append(s.exits, in)
	s.actors = append(s.actors, actor)
	return &entity.StockExit{ID: fmt.Sprintf("exit-%d", len(s.exits)), InvoiceNumber: in.InvoiceNumber}, nil
}

func buildBatchApp(submitter *fakeSubmitter) *fiber.App {
	app := fiber.New()
	mobile := app.Group("/api/mobile", apphttp.AuthMiddleware(testSecret))
	handler := apphttp.NewBatchHandler(submitter)
	mobile.Post("/entries/batch", handler.CreateEntries)
	mobile.Post("/exits/batch", handler.CreateExits)
	return app
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newJSONRequest(method, path string, body io.Reader) *nethttp.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body any) (int, dto.BatchResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := newJSONRequest(fiber.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.BatchResponse
	if resp.StatusCode == fiber.StatusCreated || resp.StatusCode == fiber.StatusMultiStatus {
		require.NoError(t, json.Unmarshal(payload, &out))
	}
	return resp.StatusCode, out
}

func entryDoc(receptionNumber string) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		ReceptionDate:   time.Now(),
		ReceptionNumber: receptionNumber,
		Items: []dto.LineRequest{
			{ProductID: "p1", QtyKg: dec("5")},
		},
	}
}

func TestBatchHandler_EntradasTodoOK(t *testing.T) {
	submitter := newFakeSubmitter()
	app := buildBatchApp(submitter)

	status, out := postJSON(t, app, "/api/mobile/entries/batch", tokenForRole(t, "operador"), dto.BatchEntriesRequest{
		Documents: []dto.CreateEntryRequest{entryDoc("REC-100"), entryDoc("REC-101")},
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 2, out.Submitted)
	assert.Equal(t, 0, out.Failed)
	require.Len(t, out.Results, 2)
	assert.NotEmpty(t, out.Results[0].ID)
	assert.Empty(t, out.Results[0].Error)

	// Los documentos llegan en el orden enviado.
	require.Len(t, submitter.entries, 2)
	assert.Equal(t, "REC-100", submitter.entries[0].ReceptionNumber)
	assert.Equal(t, "REC-101", submitter.entries[1].ReceptionNumber)
}

func TestBatchHandler_ActorDelToken(t *testing.T) {
	submitter := newFakeSubmitter()
	app := buildBatchApp(submitter)

	status, _ := postJSON(t, app, "/api/mobile/entries/batch", tokenForRole(t, "operador"), dto.BatchEntriesRequest{
		Documents: []dto.CreateEntryRequest{entryDoc("REC-100")},
	})
	require.Equal(t, fiber.StatusCreated, status)

	// El actor nunca viene vacío ni por defecto: es el user id del JWT.
	require.Len(t, submitter.actors, 1)
	assert.Equal(t, "u-1", submitter.actors[0])
}

func TestBatchHandler_FalloCortaElLote(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.failEntries["REC-101"] = fmt.Errorf("%w: producto p9", domain.ErrNotFound)
	app := buildBatchApp(submitter)

	status, out := postJSON(t, app, "/api/mobile/entries/batch", tokenForRole(t, "operador"), dto.BatchEntriesRequest{
		Documents: []dto.CreateEntryRequest{entryDoc("REC-100"), entryDoc("REC-101"), entryDoc("REC-102")},
	})
	assert.Equal(t, fiber.StatusMultiStatus, status)
	assert.Equal(t, 1, out.Submitted, "el documento anterior al fallo queda confirmado")
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Results, 2, "el documento posterior al fallo no se intenta")
	assert.NotEmpty(t, out.Results[1].Error)

	require.Len(t, submitter.entries, 1)
	assert.Equal(t, "REC-100", submitter.entries[0].ReceptionNumber)
}

func TestBatchHandler_LoteVacio(t *testing.T) {
	submitter := newFakeSubmitter()
	app := buildBatchApp(submitter)

	status, _ := postJSON(t, app, "/api/mobile/entries/batch", tokenForRole(t, "operador"), dto.BatchEntriesRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestBatchHandler_SinToken(t *testing.T) {
	submitter := newFakeSubmitter()
	app := buildBatchApp(submitter)

	raw, err := json.Marshal(dto.BatchEntriesRequest{Documents: []dto.CreateEntryRequest{entryDoc("REC-100")}})
	require.NoError(t, err)
	req := newJSONRequest(fiber.MethodPost, "/api/mobile/entries/batch", bytes.NewReader(raw))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, submitter.entries)
}

func TestBatchHandler_SalidasInsuficiente(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.failExits["FAC-201"] = fmt.Errorf("%w: producto p1", domain.ErrInsufficientStock)
	app := buildBatchApp(submitter)

	exitDoc := func(invoice string) dto.CreateExitRequest {
		return dto.CreateExitRequest{
			ExitDate:      time.Now(),
			InvoiceNumber: invoice,
			ExitType:      entity.ExitTypeSale,
			Items:         []dto.LineRequest{{ProductID: "p1", QtyKg: dec("3")}},
		}
	}
	status, out := postJSON(t, app, "/api/mobile/exits/batch", tokenForRole(t, "operador"), dto.BatchExitsRequest{
		Documents: []dto.CreateExitRequest{exitDoc("FAC-200"), exitDoc("FAC-201")},
	})
	assert.Equal(t, fiber.StatusMultiStatus, status)
	assert.Equal(t, 1, out.Submitted)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, submitter.exits, 1)
	assert.Equal(t, "FAC-200", submitter.exits[0].InvoiceNumber)
}
