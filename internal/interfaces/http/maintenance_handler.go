package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// MaintenanceHandler operaciones administrativas (solo admin).
type MaintenanceHandler struct {
	uc *usecase.MaintenanceUseCase
}

// NewMaintenanceHandler construye el handler.
func NewMaintenanceHandler(uc *usecase.MaintenanceUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{uc: uc}
}

// Purge godoc
// @Summary      Purgar transacciones
// @Description  Borra movimientos, entradas, salidas y ajustes, y pone los
//
//	saldos en cero. Los productos y usuarios se conservan.
//
// @Tags         maintenance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/maintenance/purge [post]
func (h *MaintenanceHandler) Purge(c *fiber.Ctx) error {
	if err := h.uc.PurgeTransactions(c.Context(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transacciones purgadas"})
}
