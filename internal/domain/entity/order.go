package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/verduleria-api/internal/domain"
)

// Order cabecera de un pedido. TotalPrice se fija al crear (suma de líneas)
// y no se recalcula después; Status avanza según domain.CanTransition.
type Order struct {
	ID            string
	CustomerID    string
	TotalPrice    decimal.Decimal
	Status        domain.OrderStatus
	Latitude      *float64
	Longitude     *float64
	Address       string
	PaymentMethod string // default cod
	CreatedAt     time.Time
}

// OrderItem línea de pedido. UnitPrice es una copia del precio de catálogo
// al momento del pedido, desacoplada del precio actual del producto.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal de la línea (precio snapshot × cantidad).
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OrderItemDetail línea enriquecida con datos del producto (para lecturas con join).
type OrderItemDetail struct {
	OrderItem
	ProductName     string
	ProductImageURL string
}

// OrderWithItems pedido con nombre del cliente y sus líneas (lecturas con join).
type OrderWithItems struct {
	Order
	CustomerName string
	Items        []OrderItemDetail
}

// DeliveryPartner datos del repartidor asignado, tal como se exponen en el
// detalle de un pedido.
type DeliveryPartner struct {
	Name       string
	Email      string
	Phone      string
	TaskStatus domain.OrderStatus
	AssignedAt time.Time
}

// OrderDetail pedido completo: cliente, líneas y repartidor (si hay tarea).
type OrderDetail struct {
	OrderWithItems
	CustomerEmail   string
	CustomerPhone   string
	DeliveryPartner *DeliveryPartner
}
