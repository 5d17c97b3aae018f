package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// ReportHandler reportes de solo lectura (protegido).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockSummary godoc
// @Summary      Resumen de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockSummary(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser fechas RFC3339"})
	}
	out, err := h.uc.StockSummary(from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PeriodStats godoc
// @Summary      Estadísticas de un período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Desde (RFC3339)"
// @Param        to    query  string  true  "Hasta (RFC3339)"
// @Success      200  {object}  dto.PeriodStatsResponse
// @Router       /api/reports/stats [get]
func (h *ReportHandler) PeriodStats(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil || from == nil || to == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from y to son requeridos (RFC3339)"})
	}
	out, err := h.uc.PeriodStats(*from, *to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  Saldo en o por debajo del umbral de alerta del producto, en
//
//	cualquiera de las unidades que maneja.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExpiringLots godoc
// @Summary      Lotes próximos a vencer
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(7)
// @Success      200  {object}  dto.ExpiringLotsResponse
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) ExpiringLots(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}
	out, err := h.uc.ExpiringLots(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockSummaryPDF godoc
// @Summary      Resumen de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200  {file}  binary
// @Router       /api/reports/stock/pdf [get]
func (h *ReportHandler) StockSummaryPDF(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser fechas RFC3339"})
	}
	doc, err := h.uc.StockSummaryPDF(from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen-stock.pdf"`)
	return c.Send(doc)
}

// StockSummaryXLSX godoc
// @Summary      Resumen de stock en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200  {file}  binary
// @Router       /api/reports/stock/xlsx [get]
func (h *ReportHandler) StockSummaryXLSX(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser fechas RFC3339"})
	}
	doc, err := h.uc.StockSummaryXLSX(from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen-stock.xlsx"`)
	return c.Send(doc)
}
