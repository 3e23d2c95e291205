package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/verduleria-api/internal/application/auth"
	"github.com/jhoicas/verduleria-api/internal/application/delivery"
	"github.com/jhoicas/verduleria-api/internal/application/orders"
	"github.com/jhoicas/verduleria-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	PlaceOrder *orders.PlaceOrderUseCase
	OrderQuery *orders.OrderQueryUseCase
	DeliveryUC *delivery.DeliveryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	// Auth + usuarios
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/login", authHandler.Login)

	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users")
	users.Post("/", authHandler.Register)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.Search)
	products.Post("/", productHandler.Create)
	products.Get("/image/:id", productHandler.GetImage)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Pedidos
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.PlaceOrder, deps.OrderQuery)
	ordersGroup.Post("/", orderHandler.Place)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/user/:userId", orderHandler.ListByUser)
	ordersGroup.Get("/:orderId", orderHandler.GetDetail)

	// Reparto
	deliveryGroup := api.Group("/delivery")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveryGroup.Get("/person", userHandler.ListDeliveryPeople)
	deliveryGroup.Post("/assign", deliveryHandler.Assign)
	deliveryGroup.Put("/task/:id", deliveryHandler.UpdateTaskStatus)
	deliveryGroup.Get("/tasks/:deliveryId", deliveryHandler.TasksByDeliveryPerson)
}
