package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// AdjustmentHandler ajustes manuales de inventario (protegido).
type AdjustmentHandler struct {
	engine *ledger.Engine
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(engine *ledger.Engine) *AdjustmentHandler {
	return &AdjustmentHandler{engine: engine}
}

// Create godoc
// @Summary      Registrar ajuste de stock
// @Description  Corrección manual con razón obligatoria. Un decrease que dejaría
//
//	el saldo negativo se rechaza con 409.
//
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Datos del ajuste"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adj, err := h.engine.Adjust(c.Context(), ledger.AdjustmentInput{
		ProductID:      in.ProductID,
		AdjustmentDate: in.AdjustmentDate,
		Direction:      in.Direction,
		QtyKg:          in.QtyKg,
		QtyCartons:     in.QtyCartons,
		Reason:         in.Reason,
		RefDocument:    in.RefDocument,
	}, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(adj))
}

// List godoc
// @Summary      Listar ajustes
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        direction   query  string  false  "increase | decrease"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AdjustmentListResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	filter := repository.AdjustmentFilter{
		ProductID: c.Query("product_id"),
		Direction: c.Query("direction"),
		CreatedBy: c.Query("created_by"),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}
	var err error
	filter.From, filter.To, err = parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser fechas RFC3339"})
	}
	adjustments, err := h.engine.Adjustments(filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		items = append(items, dto.ToAdjustmentResponse(a))
	}
	return c.JSON(dto.AdjustmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	})
}
