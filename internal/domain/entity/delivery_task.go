package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/verduleria-api/internal/domain"
)

// DeliveryTask vincula un pedido con un repartidor. Se espera una tarea
// activa por pedido; Status se refleja sobre Order.Status en la misma tx.
type DeliveryTask struct {
	ID               string
	OrderID          string
	DeliveryPersonID string
	Status           domain.OrderStatus
	AssignedAt       time.Time
	UpdatedAt        time.Time
}

// DeliveryTaskDetail tarea enriquecida con datos del pedido y del cliente
// (lectura con join para el panel del repartidor).
type DeliveryTaskDetail struct {
	DeliveryTask
	OrderStatus  domain.OrderStatus
	TotalPrice   decimal.Decimal
	CustomerID   string
	CustomerName string
	Address      string
	Latitude     *float64
	Longitude    *float64
}
