package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ReceptionVoucherGenerator genera el bono de recepción imprimible.
type ReceptionVoucherGenerator interface {
	ReceptionVoucherPDF(entry *entity.StockEntry, productNames map[string]string) ([]byte, error)
}

// EntryHandler documentos de entrada (protegido).
type EntryHandler struct {
	coord    *ledger.DocumentCoordinator
	products repository.ProductRepository
	voucher  ReceptionVoucherGenerator
}

// NewEntryHandler construye el handler.
func NewEntryHandler(coord *ledger.DocumentCoordinator, products repository.ProductRepository, voucher ReceptionVoucherGenerator) *EntryHandler {
	return &EntryHandler{coord: coord, products: products, voucher: voucher}
}

// Create godoc
// @Summary      Registrar documento de entrada
// @Description  Cabecera + líneas en una transacción: o entra todo el documento
//
//	o no entra nada.
//
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryRequest  true  "Documento de entrada"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.coord.SubmitEntry(c.Context(), ledger.EntryInput{
		ReceptionDate:     in.ReceptionDate,
		ReceptionNumber:   in.ReceptionNumber,
		CarnetNumber:      in.CarnetNumber,
		InvoiceNumber:     in.InvoiceNumber,
		PackingListNumber: in.PackingListNumber,
		Items:             toLineInputs(in.Items),
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToEntryResponse(entry))
}

// GetByID godoc
// @Summary      Obtener entrada por ID
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.EntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.coord.GetEntry(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrada no encontrada"})
	}
	return c.JSON(dto.ToEntryResponse(entry))
}

// List godoc
// @Summary      Listar entradas
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        product_id        query  string  false  "Filtrar por producto"
// @Param        reception_number  query  string  false  "Búsqueda parcial"
// @Param        from              query  string  false  "Desde (RFC3339)"
// @Param        to                query  string  false  "Hasta (RFC3339)"
// @Param        limit             query  int     false  "Límite"  default(50)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.EntryListResponse
// @Router       /api/entries [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	filter := repository.EntryFilter{
		ProductID:       c.Query("product_id"),
		ReceptionNumber: c.Query("reception_number"),
		Limit:           c.QueryInt("limit", 50),
		Offset:          c.QueryInt("offset", 0),
	}
	var err error
	filter.From, filter.To, err = parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser fechas RFC3339"})
	}
	entries, err := h.coord.ListEntries(filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToEntryResponse(e))
	}
	return c.JSON(dto.EntryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	})
}

// UpdateItem godoc
// @Summary      Editar línea de entrada
// @Description  Revierte el impacto viejo y aplica el nuevo en una transacción.
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        item_id  path  string  true  "ID de la línea"
// @Param        body     body  dto.LineUpdateRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.EntryItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entries/items/{item_id} [put]
func (h *EntryHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.LineUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.coord.EditEntryItem(c.Context(), c.Params("item_id"), toLineUpdate(in), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EntryItemResponse{
		ID:         item.ID,
		EntryID:    item.EntryID,
		ProductID:  item.ProductID,
		QtyKg:      item.QtyKg,
		QtyCartons: item.QtyCartons,
		ExpiryDate: item.ExpiryDate,
		Remark:     item.Remark,
	})
}

// DeleteItem godoc
// @Summary      Eliminar línea de entrada
// @Description  Revierte el crédito; si el stock ya fue consumido responde 409.
//
//	La última línea elimina también la cabecera.
//
// @Tags         entries
// @Security     Bearer
// @Param        item_id  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entries/items/{item_id} [delete]
func (h *EntryHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.coord.DeleteEntryItem(c.Context(), c.Params("item_id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar documento de entrada completo
// @Tags         entries
// @Security     Bearer
// @Param        id  path  string  true  "ID de la entrada"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [delete]
func (h *EntryHandler) Delete(c *fiber.Ctx) error {
	if err := h.coord.DeleteEntry(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Voucher godoc
// @Summary      Bono de recepción en PDF
// @Tags         entries
// @Security     Bearer
// @Produce      application/pdf
// @Param        reception_number  path  string  true  "Número de recepción"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/voucher/{reception_number} [get]
func (h *EntryHandler) Voucher(c *fiber.Ctx) error {
	entry, err := h.coord.GetEntryByReceptionNumber(c.Params("reception_number"))
	if err != nil {
		return respondError(c, err)
	}
	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entrada no encontrada"})
	}
	names := make(map[string]string, len(entry.Items))
	for _, item := range entry.Items {
		if _, ok := names[item.ProductID]; ok {
			continue
		}
		p, err := h.products.GetByID(item.ProductID)
		if err == nil && p != nil {
			names[item.ProductID] = p.Name
		}
	}
	doc, err := h.voucher.ReceptionVoucherPDF(entry, names)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bono-recepcion-`+entry.ReceptionNumber+`.pdf"`)
	return c.Send(doc)
}

func toLineInputs(items []dto.LineRequest) []ledger.LineInput {
	out := make([]ledger.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, ledger.LineInput{
			ProductID:  it.ProductID,
			QtyKg:      it.QtyKg,
			QtyCartons: it.QtyCartons,
			ExpiryDate: it.ExpiryDate,
			Remark:     it.Remark,
		})
	}
	return out
}

func toLineUpdate(in dto.LineUpdateRequest) ledger.LineUpdate {
	return ledger.LineUpdate{
		ProductID:  in.ProductID,
		QtyKg:      in.QtyKg,
		QtyCartons: in.QtyCartons,
		ExpiryDate: in.ExpiryDate,
		Remark:     in.Remark,
	}
}
