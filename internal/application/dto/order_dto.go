package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada en el checkout. Price llega del cliente
// por compatibilidad de wire, pero el total y el snapshot se toman del
// precio de catálogo dentro de la transacción.
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// PlaceOrderRequest entrada para crear un pedido.
type PlaceOrderRequest struct {
	UserID          string             `json:"user_id" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Latitude        *float64           `json:"latitude"`
	Longitude       *float64           `json:"longitude"`
	DeliveryAddress string             `json:"delivery_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// PlaceOrderResponse salida del checkout.
type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// OrderItemResponse línea de pedido en lecturas.
type OrderItemResponse struct {
	ID        string          `json:"order_item_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderResponse pedido con cliente y líneas.
type OrderResponse struct {
	OrderID       string              `json:"order_id"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name,omitempty"`
	Status        string              `json:"status"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	Latitude      *float64            `json:"latitude,omitempty"`
	Longitude     *float64            `json:"longitude,omitempty"`
	Address       string              `json:"delivery_address,omitempty"`
	PaymentMethod string              `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []OrderItemResponse `json:"items"`
}

// DeliveryPartnerResponse bloque de repartidor en el detalle de un pedido.
type DeliveryPartnerResponse struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	TaskStatus string    `json:"task_status"`
	AssignedAt time.Time `json:"assigned_at"`
}

// OrderDetailResponse pedido completo para tracking.
type OrderDetailResponse struct {
	OrderResponse
	CustomerEmail   string                   `json:"customer_email,omitempty"`
	CustomerPhone   string                   `json:"customer_phone,omitempty"`
	DeliveryPartner *DeliveryPartnerResponse `json:"delivery_partner"`
}

// OrderListResponse lista de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
}
