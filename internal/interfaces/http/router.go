package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TallerPos-api/internal/application/auth"
	"github.com/jhoicas/TallerPos-api/internal/application/inventory"
	"github.com/jhoicas/TallerPos-api/internal/application/jobs"
	"github.com/jhoicas/TallerPos-api/internal/application/purchasing"
	"github.com/jhoicas/TallerPos-api/internal/application/usecase"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	JobUC          *jobs.UseCase
	InventoryUC    *inventory.UseCase
	PurchasingUC   *purchasing.UseCase
	PartUC         *usecase.PartUseCase
	StoreUC        *usecase.StoreUseCase
	SupplierUC     *usecase.SupplierUseCase
	CustomerUC     *usecase.CustomerUseCase
	NotificationUC *usecase.NotificationUseCase
	JWTSecret      string
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
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Stores (protegido; alta solo admin)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", RequireRole(entity.RoleAdmin), storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)

	// Parts (protegido; escritura solo encargados)
	parts := protected.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	parts.Post("/", managers, partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", managers, partHandler.Update)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", managers, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Jobs: órdenes de reparación y su flujo de repuestos (protegido)
	jobsGroup := protected.Group("/jobs")
	jobHandler := NewJobHandler(deps.JobUC)
	jobsGroup.Post("/", jobHandler.Create)
	jobsGroup.Get("/", jobHandler.List)
	jobsGroup.Get("/:id", jobHandler.GetByID)
	jobsGroup.Post("/:id/reserve", jobHandler.ReservePart)
	jobsGroup.Post("/:id/use", jobHandler.UsePart)
	jobsGroup.Post("/:id/usages/:usageID/reverse", jobHandler.ReverseUsePart)
	jobsGroup.Post("/:id/complete", jobHandler.Complete)
	jobsGroup.Post("/:id/cancel", jobHandler.Cancel)
	jobsGroup.Patch("/:id/status", jobHandler.UpdateStatus)

	// Inventory: stock, ajustes, traslados y libro (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/adjust", managers, inventoryHandler.Adjust)
	invGroup.Post("/usage", inventoryHandler.LogUsage)
	invGroup.Post("/transfer", managers, inventoryHandler.Transfer)
	invGroup.Get("/stock/:storeID", inventoryHandler.ListStock)
	invGroup.Get("/stock/:storeID/:partID", inventoryHandler.GetStock)
	invGroup.Get("/stock-records/:id/allocations", inventoryHandler.GetAllocations)
	invGroup.Get("/transactions", inventoryHandler.History)

	// Purchase orders (protegido; escritura solo encargados)
	poGroup := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchasingUC)
	poGroup.Post("/", managers, poHandler.Create)
	poGroup.Get("/", poHandler.List)
	poGroup.Post("/returns", managers, poHandler.ReturnToVendor)
	poGroup.Get("/:id", poHandler.GetByID)
	poGroup.Post("/:id/receive", poHandler.Receive)
	poGroup.Post("/:id/cancel", managers, poHandler.Cancel)

	// Notifications (protegido)
	notifGroup := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifGroup.Get("/", notificationHandler.List)
	notifGroup.Post("/:id/read", notificationHandler.MarkRead)
}
