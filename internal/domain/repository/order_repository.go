package repository

import (
	"context"

	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// Las lecturas enriquecidas usan un join por nivel (nunca una query por fila).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error

	// List devuelve pedidos con nombre de cliente y líneas; customerID vacío = todos.
	List(ctx context.Context, customerID string) ([]*entity.OrderWithItems, error)
	// GetDetail devuelve el pedido completo con repartidor asignado si existe.
	GetDetail(ctx context.Context, id string) (*entity.OrderDetail, error)
	// ListByCustomer devuelve los pedidos de un cliente con sus líneas.
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.OrderWithItems, error)
}
