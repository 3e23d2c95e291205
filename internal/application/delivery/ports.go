package delivery

import (
	"context"

	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

// TxRunner transacción para el flujo de reparto: asignación y avance de
// estado mutan tarea y pedido juntos (espejo) o ninguno.
type TxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		taskRepo repository.DeliveryTaskRepository,
		userRepo repository.UserRepository,
	) error) error
}
