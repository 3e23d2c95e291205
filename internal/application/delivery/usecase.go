package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

// DeliveryUseCase asignación de repartidor y avance del estado de reparto.
// El estado de la tarea se refleja sobre el pedido en la misma transacción.
type DeliveryUseCase struct {
	txRunner TxRunner
	taskRepo repository.DeliveryTaskRepository
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(txRunner TxRunner, taskRepo repository.DeliveryTaskRepository) *DeliveryUseCase {
	return &DeliveryUseCase{txRunner: txRunner, taskRepo: taskRepo}
}

// Assign crea la tarea de reparto y marca el pedido como assigned.
// Guardas: el pedido debe existir y estar pending; el asignado debe ser un
// usuario con rol delivery; un pedido con tarea activa no se reasigna.
func (uc *DeliveryUseCase) Assign(ctx context.Context, in dto.AssignDeliveryRequest) (*dto.AssignDeliveryResponse, error) {
	if in.OrderID == "" || in.DeliveryPersonID == "" {
		return nil, domain.ErrInvalidInput
	}
	taskID := uuid.New().String()
	now := time.Now()

	err := uc.txRunner.RunDelivery(ctx, func(
		orderRepo repository.OrderRepository,
		taskRepo repository.DeliveryTaskRepository,
		userRepo repository.UserRepository,
	) error {
		order, err := orderRepo.GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if order.Status != domain.StatusPending {
			return domain.ErrConflict
		}
		person, err := userRepo.GetByID(ctx, in.DeliveryPersonID)
		if err != nil {
			return err
		}
		if person == nil {
			return domain.ErrUserNotFound
		}
		if person.Role != entity.RoleDelivery {
			return domain.ErrInvalidInput
		}
		existing, err := taskRepo.GetByOrderID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}
		task := &entity.DeliveryTask{
			ID:               taskID,
			OrderID:          in.OrderID,
			DeliveryPersonID: in.DeliveryPersonID,
			Status:           domain.StatusAssigned,
			AssignedAt:       now,
			UpdatedAt:        now,
		}
		if err := taskRepo.Create(ctx, task); err != nil {
			return err
		}
		return orderRepo.UpdateStatus(ctx, in.OrderID, domain.StatusAssigned)
	})
	if err != nil {
		return nil, err
	}
	return &dto.AssignDeliveryResponse{Success: true, TaskID: taskID}, nil
}

// UpdateTaskStatus avanza el estado de una tarea (y su pedido) según la
// progresión fija. Repetir el estado actual es un no-op exitoso; saltos y
// retrocesos devuelven ErrInvalidTransition.
func (uc *DeliveryUseCase) UpdateTaskStatus(ctx context.Context, taskID string, in dto.UpdateTaskStatusRequest) error {
	target := domain.OrderStatus(in.Status)
	if !domain.IsValidStatus(target) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunDelivery(ctx, func(
		orderRepo repository.OrderRepository,
		taskRepo repository.DeliveryTaskRepository,
		_ repository.UserRepository,
	) error {
		task, err := taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if err := domain.CanTransition(task.Status, target); err != nil {
			return err
		}
		if task.Status == target {
			return nil // idempotente: nada que mutar
		}
		if err := taskRepo.UpdateStatus(ctx, taskID, target); err != nil {
			return err
		}
		return orderRepo.UpdateStatus(ctx, task.OrderID, target)
	})
}

// TasksByDeliveryPerson devuelve las tareas de un repartidor con datos del
// pedido y del cliente, más recientes primero.
func (uc *DeliveryUseCase) TasksByDeliveryPerson(ctx context.Context, deliveryPersonID string) (*dto.DeliveryTaskListResponse, error) {
	tasks, err := uc.taskRepo.ListByDeliveryPerson(ctx, deliveryPersonID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, dto.DeliveryTaskResponse{
			ID:               t.ID,
			OrderID:          t.OrderID,
			DeliveryPersonID: t.DeliveryPersonID,
			Status:           string(t.Status),
			OrderStatus:      string(t.OrderStatus),
			TotalPrice:       t.TotalPrice,
			CustomerID:       t.CustomerID,
			CustomerName:     t.CustomerName,
			Address:          t.Address,
			Latitude:         t.Latitude,
			Longitude:        t.Longitude,
			AssignedAt:       t.AssignedAt,
		})
	}
	return &dto.DeliveryTaskListResponse{Items: items}, nil
}
