package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

var _ repository.DeliveryTaskRepository = (*DeliveryTaskRepo)(nil)

// DeliveryTaskRepo implementación del puerto DeliveryTaskRepository sobre PostgreSQL.
type DeliveryTaskRepo struct {
	q Querier
}

// NewDeliveryTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryTaskRepository(q Querier) *DeliveryTaskRepo {
	return &DeliveryTaskRepo{q: q}
}

// Create persiste una nueva tarea de reparto. Un segundo insert para el
// mismo pedido choca con el índice único y devuelve ErrDuplicate.
func (r *DeliveryTaskRepo) Create(ctx context.Context, t *entity.DeliveryTask) error {
	query := `
		INSERT INTO delivery_tasks (id, order_id, delivery_person_id, status, assigned_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OrderID, t.DeliveryPersonID, string(t.Status), t.AssignedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert delivery task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea por ID; nil si no existe.
func (r *DeliveryTaskRepo) GetByID(ctx context.Context, id string) (*entity.DeliveryTask, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByOrderID obtiene la tarea activa de un pedido; nil si no hay.
func (r *DeliveryTaskRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.DeliveryTask, error) {
	return r.getOne(ctx, `WHERE order_id = $1 ORDER BY assigned_at DESC LIMIT 1`, orderID)
}

func (r *DeliveryTaskRepo) getOne(ctx context.Context, where string, arg any) (*entity.DeliveryTask, error) {
	query := `
		SELECT id, order_id, delivery_person_id, status, assigned_at, updated_at
		FROM delivery_tasks ` + where
	var t entity.DeliveryTask
	var status string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.OrderID, &t.DeliveryPersonID, &status, &t.AssignedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery task: %w", err)
	}
	t.Status = domain.OrderStatus(status)
	return &t, nil
}

// UpdateStatus actualiza el estado de la tarea. La validación de la transición
// es responsabilidad del caso de uso.
func (r *DeliveryTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `UPDATE delivery_tasks SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(status))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update delivery task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByDeliveryPerson devuelve las tareas de un repartidor con datos del
// pedido y del cliente, más recientes primero.
func (r *DeliveryTaskRepo) ListByDeliveryPerson(ctx context.Context, deliveryPersonID string) ([]*entity.DeliveryTaskDetail, error) {
	query := `
		SELECT t.id, t.order_id, t.delivery_person_id, t.status, t.assigned_at, t.updated_at,
			o.status, o.total_price, o.customer_id, u.name,
			COALESCE(o.address, ''), o.latitude, o.longitude
		FROM delivery_tasks t
		JOIN orders o ON o.id = t.order_id
		JOIN users u ON u.id = o.customer_id
		WHERE t.delivery_person_id = $1
		ORDER BY t.assigned_at DESC`
	rows, err := r.q.Query(ctx, query, deliveryPersonID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list delivery tasks: %w", err)
	}
	defer rows.Close()

	var out []*entity.DeliveryTaskDetail
	for rows.Next() {
		var d entity.DeliveryTaskDetail
		var taskStatus, orderStatus string
		if err := rows.Scan(&d.ID, &d.OrderID, &d.DeliveryPersonID, &taskStatus,
			&d.AssignedAt, &d.UpdatedAt,
			&orderStatus, &d.TotalPrice, &d.CustomerID, &d.CustomerName,
			&d.Address, &d.Latitude, &d.Longitude); err != nil {
			return nil, fmt.Errorf("scan delivery task: %w", err)
		}
		d.Status = domain.OrderStatus(taskStatus)
		d.OrderStatus = domain.OrderStatus(orderStatus)
		out = append(out, &d)
	}
	return out, rows.Err()
}
