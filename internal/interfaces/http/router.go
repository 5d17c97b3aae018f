package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	ReportUC      *usecase.ReportUseCase
	MaintenanceUC *usecase.MaintenanceUseCase
	Engine        *ledger.Engine
	Coordinator   *ledger.DocumentCoordinator
	Products      repository.ProductRepository
	Voucher       ReceptionVoucherGenerator
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock: saldos y libro de movimientos (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine)
	stock.Get("/movements", stockHandler.Movements)
	stock.Get("/:product_id", stockHandler.Balance)

	// Entradas (protegido)
	entries := protected.Group("/entries")
	entryHandler := NewEntryHandler(deps.Coordinator, deps.Products, deps.Voucher)
	entries.Post("/", entryHandler.Create)
	entries.Get("/", entryHandler.List)
	entries.Get("/voucher/:reception_number", entryHandler.Voucher)
	entries.Put("/items/:item_id", entryHandler.UpdateItem)
	entries.Delete("/items/:item_id", entryHandler.DeleteItem)
	entries.Get("/:id", entryHandler.GetByID)
	entries.Delete("/:id", entryHandler.Delete)

	// Salidas (protegido)
	exits := protected.Group("/exits")
	exitHandler := NewExitHandler(deps.Coordinator)
	exits.Post("/", exitHandler.Create)
	exits.Get("/", exitHandler.List)
	exits.Put("/items/:item_id", exitHandler.UpdateItem)
	exits.Delete("/items/:item_id", exitHandler.DeleteItem)
	exits.Get("/:id", exitHandler.GetByID)
	exits.Delete("/:id", exitHandler.Delete)

	// Lotes móviles (protegido): varios documentos por petición
	mobile := protected.Group("/mobile")
	batchHandler := NewBatchHandler(deps.Coordinator)
	mobile.Post("/entries/batch", batchHandler.CreateEntries)
	mobile.Post("/exits/batch", batchHandler.CreateExits)

	// Ajustes (protegido)
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.Engine)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)

	// Reportes (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stock", reportHandler.StockSummary)
	reports.Get("/stock/pdf", reportHandler.StockSummaryPDF)
	reports.Get("/stock/xlsx", reportHandler.StockSummaryXLSX)
	reports.Get("/stats", reportHandler.PeriodStats)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/expiring", reportHandler.ExpiringLots)

	// Mantenimiento (solo admin)
	maintenance := protected.Group("/maintenance", RequireAdmin())
	maintenanceHandler := NewMaintenanceHandler(deps.MaintenanceUC)
	maintenance.Post("/purge", maintenanceHandler.Purge)
}
