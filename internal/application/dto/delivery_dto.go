package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignDeliveryRequest entrada para asignar un repartidor a un pedido.
type AssignDeliveryRequest struct {
	OrderID          string `json:"order_id" validate:"required"`
	DeliveryPersonID string `json:"delivery_person_id" validate:"required"`
}

// AssignDeliveryResponse salida de la asignación.
type AssignDeliveryResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId"`
}

// UpdateTaskStatusRequest entrada para avanzar el estado de una tarea.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DeliveryTaskResponse tarea con datos del pedido y del cliente.
type DeliveryTaskResponse struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	DeliveryPersonID string          `json:"delivery_person_id"`
	Status           string          `json:"status"`
	OrderStatus      string          `json:"order_status"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	CustomerID       string          `json:"customer_id"`
	CustomerName     string          `json:"customer_name,omitempty"`
	Address          string          `json:"address,omitempty"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	AssignedAt       time.Time       `json:"assigned_at"`
}

// DeliveryTaskListResponse lista de tareas de un repartidor.
type DeliveryTaskListResponse struct {
	Items []DeliveryTaskResponse `json:"items"`
}
