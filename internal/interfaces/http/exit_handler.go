package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ExitHandler documentos de salida (protegido).
type ExitHandler struct {
	coord *ledger.DocumentCoordinator
}

// NewExitHandler construye el handler.
func NewExitHandler(coord *ledger.DocumentCoordinator) *ExitHandler {
	return &ExitHandler{coord: coord}
}

// Create godoc
// @Summary      Registrar documento de salida
// @Description  Cada línea debita stock con verificación de suficiencia en
//
//	ambas unidades. Si cualquier línea falla, no sale nada.
//
// @Tags         exits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExitRequest  true  "Documento de salida"
// @Success      201   {object}  dto.ExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/exits [post]
func (h *ExitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	exit, err := h.coord.SubmitExit(c.Context(), ledger.ExitInput{
		ExitDate:      in.ExitDate,
		InvoiceNumber: in.InvoiceNumber,
		ExitType:      in.ExitType,
		SalePrice:     in.SalePrice,
		Remark:        in.Remark,
		Items:         toLineInputs(in.Items),
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToExitResponse(exit))
}

// GetByID godoc
// @Summary      Obtener salida por ID
// @Tags         exits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la salida"
// @Success      200  {object}  dto.ExitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exits/{id} [get]
func (h *ExitHandler) GetByID(c *fiber.Ctx) error {
	exit, err := h.coord.GetExit(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if exit == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "salida no encontrada"})
	}
	return c.JSON(dto.ToExitResponse(exit))
}

// List godoc
// @Summary      Listar salidas
// @Tags         exits
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Filtrar por producto"
// @Param        exit_type       query  string  false  "venta | deposito_venta | donacion | vencido | no_consumible | no_utilizable"
// @Param        invoice_number  query  string  false  "Búsqueda parcial"
// @Param        from            query  string  false  "Desde (RFC3339)"
// @Param        to              query  string  false  "Hasta (RFC3339)"
// @Param        limit           query  int     false  "Límite"  default(50)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ExitListResponse
// @Router       /api/exits [get]
func (h *ExitHandler) List(c *fiber.Ctx) error {
	filter := repository.ExitFilter{
		ProductID:     c.Query("product_id"),
		ExitType:      c.Query("exit_type"),
		InvoiceNumber: c.Query("invoice_number"),
		Limit:         c.QueryInt("limit", 50),
		Offset:        c.QueryInt("offset", 0),
	}
	var err error
	filter.From, filter.To, err = parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser fechas RFC3339"})
	}
	exits, err := h.coord.ListExits(filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ExitResponse, 0, len(exits))
	for _, e := range exits {
		items = append(items, dto.ToExitResponse(e))
	}
	return c.JSON(dto.ExitListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	})
}

// UpdateItem godoc
// @Summary      Editar línea de salida
// @Description  Revierte el débito viejo y aplica el nuevo con verificación de
//
//	suficiencia, en una transacción.
//
// @Tags         exits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        item_id  path  string  true  "ID de la línea"
// @Param        body     body  dto.LineUpdateRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.ExitItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/exits/items/{item_id} [put]
func (h *ExitHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.LineUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.coord.EditExitItem(c.Context(), c.Params("item_id"), toLineUpdate(in), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ExitItemResponse{
		ID:         item.ID,
		ExitID:     item.ExitID,
		ProductID:  item.ProductID,
		QtyKg:      item.QtyKg,
		QtyCartons: item.QtyCartons,
		ExpiryDate: item.ExpiryDate,
		Remark:     item.Remark,
	})
}

// DeleteItem godoc
// @Summary      Eliminar línea de salida
// @Description  Devuelve el stock debitado. La última línea elimina también la
//
//	cabecera.
//
// @Tags         exits
// @Security     Bearer
// @Param        item_id  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exits/items/{item_id} [delete]
func (h *ExitHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.coord.DeleteExitItem(c.Context(), c.Params("item_id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar documento de salida completo
// @Tags         exits
// @Security     Bearer
// @Param        id  path  string  true  "ID de la salida"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exits/{id} [delete]
func (h *ExitHandler) Delete(c *fiber.Ctx) error {
	if err := h.coord.DeleteExit(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
