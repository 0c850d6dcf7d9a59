package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/cart"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/medicine"
	"github.com/jhoicas/Farmacia-api/internal/application/order"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	MedicineUC  *medicine.MedicineUseCase
	CartUC      *cart.CartUseCase
	OrderUC     *order.OrderUseCase
	InventoryUC *inventory.InventoryUseCase
	SyncUC      *inventory.SyncUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify", authHandler.VerifyEmail)
	authGroup.Post("/resend-code", authHandler.ResendCode)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de medicamentos (lectura para todos los autenticados;
	// escritura solo proveedor/admin)
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/mine", RequireRole(entity.RoleSupplier), medicineHandler.ListMine)
	medicines.Get("/:id", medicineHandler.Get)
	medicines.Post("/", RequireRole(entity.RoleSupplier, entity.RoleAdmin), medicineHandler.Create)
	medicines.Put("/:id", RequireRole(entity.RoleSupplier, entity.RoleAdmin), medicineHandler.Update)
	medicines.Delete("/:id", RequireRole(entity.RoleSupplier, entity.RoleAdmin), medicineHandler.Delete)

	// Carrito (compradores: USER y PHARMACY)
	cartGroup := protected.Group("/cart", RequireRole(entity.RoleUser, entity.RolePharmacy))
	cartHandler := NewCartHandler(deps.CartUC)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.Add)
	cartGroup.Put("/items/:id", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:id", cartHandler.RemoveItem)

	// Órdenes
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", RequireRole(entity.RoleUser, entity.RolePharmacy), orderHandler.Place)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleSupplier), orderHandler.UpdateStatus)
	orders.Post("/:id/cancel", RequireRole(entity.RoleUser, entity.RolePharmacy), orderHandler.Cancel)

	// Inventario de reventa (solo farmacias)
	pharmacy := protected.Group("/pharmacy/inventory", RequireRole(entity.RolePharmacy))
	inventoryHandler := NewPharmacyInventoryHandler(deps.InventoryUC, deps.SyncUC)
	pharmacy.Get("/", inventoryHandler.List)
	pharmacy.Get("/stats", inventoryHandler.Stats)
	pharmacy.Post("/", inventoryHandler.Create)
	pharmacy.Post("/sync-orders", inventoryHandler.SyncOrders)
	pharmacy.Put("/:id", inventoryHandler.Update)
	pharmacy.Delete("/:id", inventoryHandler.Delete)
}
