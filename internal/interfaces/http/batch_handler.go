package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// DocumentSubmitter confirma documentos de entrada y salida. Lo implementa
// ledger.DocumentCoordinator.
type DocumentSubmitter interface {
	SubmitEntry(ctx context.Context, in ledger.EntryInput, actor string) (*entity.StockEntry, error)
	SubmitExit(ctx context.Context, in ledger.ExitInput, actor string) (*entity.StockExit, error)
}

// BatchHandler lotes de documentos para la app móvil: varios documentos en una
// sola petición, aplicados en secuencia. Cada documento es atómico por sí
// mismo; el primero que falla corta el lote y los anteriores quedan
// confirmados. El actor sale del token, igual que en las rutas unitarias.
type BatchHandler struct {
	submitter DocumentSubmitter
}

// NewBatchHandler construye el handler.
func NewBatchHandler(submitter DocumentSubmitter) *BatchHandler {
	return &BatchHandler{submitter: submitter}
}

// CreateEntries godoc
// @Summary      Registrar lote de entradas (móvil)
// @Description  Aplica los documentos en orden, cada uno en su propia
//
//	transacción. Si un documento falla, los anteriores quedan
//	confirmados y se responde 207 con el detalle por documento.
//
// @Tags         mobile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchEntriesRequest  true  "Lote de entradas"
// @Success      201   {object}  dto.BatchResponse
// @Success      207   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/mobile/entries/batch [post]
func (h *BatchHandler) CreateEntries(c *fiber.Ctx) error {
	var in dto.BatchEntriesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Documents) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote no tiene documentos"})
	}
	actor := GetUserID(c)
	resp := dto.BatchResponse{Results: make([]dto.BatchDocumentResult, 0, len(in.Documents))}
	for i, doc := range in.Documents {
		entry, err := h.submitter.SubmitEntry(c.Context(), ledger.EntryInput{
			ReceptionDate:     doc.ReceptionDate,
			ReceptionNumber:   doc.ReceptionNumber,
			CarnetNumber:      doc.CarnetNumber,
			InvoiceNumber:     doc.InvoiceNumber,
			PackingListNumber: doc.PackingListNumber,
			Items:             toLineInputs(doc.Items),
		}, actor)
		if err != nil {
			resp.Failed = 1
			resp.Results = append(resp.Results, dto.BatchDocumentResult{Index: i, Error: err.Error()})
			return c.Status(fiber.StatusMultiStatus).JSON(resp)
		}
		resp.Submitted++
		resp.Results = append(resp.Results, dto.BatchDocumentResult{Index: i, ID: entry.ID})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CreateExits godoc
// @Summary      Registrar lote de salidas (móvil)
// @Description  Igual que el lote de entradas: secuencial, cada documento
//
//	atómico, corte en el primer fallo.
//
// @Tags         mobile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchExitsRequest  true  "Lote de salidas"
// @Success      201   {object}  dto.BatchResponse
// @Success      207   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/mobile/exits/batch [post]
func (h *BatchHandler) CreateExits(c *fiber.Ctx) error {
	var in dto.BatchExitsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Documents) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote no tiene documentos"})
	}
	actor := GetUserID(c)
	resp := dto.BatchResponse{Results: make([]dto.BatchDocumentResult, 0, len(in.Documents))}
	for i, doc := range in.Documents {
		exit, err := h.submitter.SubmitExit(c.Context(), ledger.ExitInput{
			ExitDate:      doc.ExitDate,
			InvoiceNumber: doc.InvoiceNumber,
			ExitType:      doc.ExitType,
			SalePrice:     doc.SalePrice,
			Remark:        doc.Remark,
			Items:         toLineInputs(doc.Items),
		}, actor)
		if err != nil {
			resp.Failed = 1
			resp.Results = append(resp.Results, dto.BatchDocumentResult{Index: i, Error: err.Error()})
			return c.Status(fiber.StatusMultiStatus).JSON(resp)
		}
		resp.Submitted++
		resp.Results = append(resp.Results, dto.BatchDocumentResult{Index: i, ID: exit.ID})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
