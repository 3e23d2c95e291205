package repository

import (
	"context"

	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
)

// DeliveryTaskRepository define el puerto de persistencia para DeliveryTask.
type DeliveryTaskRepository interface {
	Create(ctx context.Context, task *entity.DeliveryTask) error
	GetByID(ctx context.Context, id string) (*entity.DeliveryTask, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.DeliveryTask, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	// ListByDeliveryPerson devuelve las tareas de un repartidor con datos del
	// pedido y del cliente, más recientes primero.
	ListByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]*entity.DeliveryTaskDetail, error)
}
