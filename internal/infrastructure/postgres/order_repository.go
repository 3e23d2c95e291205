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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Las lecturas enriquecidas usan un join por nivel: una query para cabeceras
// (orders + users) y otra para todas las líneas (order_items + products) con
// = ANY($1), agrupadas en memoria. Nunca una query por fila.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, total_price, status, latitude, longitude,
			address, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CustomerID, o.TotalPrice, string(o.Status), o.Latitude, o.Longitude,
		nullIfEmpty(o.Address), o.PaymentMethod, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido con su precio snapshot.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene solo la cabecera; nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, customer_id, total_price, status, latitude, longitude,
			COALESCE(address, ''), payment_method, created_at
		FROM orders WHERE id = $1`
	var o entity.Order
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.TotalPrice, &status, &o.Latitude, &o.Longitude,
		&o.Address, &o.PaymentMethod, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// UpdateStatus actualiza el estado de la cabecera. La validación de la
// transición es responsabilidad del caso de uso.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// List devuelve pedidos con nombre de cliente y líneas; customerID vacío = todos.
func (r *OrderRepo) List(ctx context.Context, customerID string) ([]*entity.OrderWithItems, error) {
	query := `
		SELECT o.id, o.customer_id, o.total_price, o.status, o.latitude, o.longitude,
			COALESCE(o.address, ''), o.payment_method, o.created_at, u.name
		FROM orders o
		JOIN users u ON u.id = o.customer_id`
	args := []any{}
	if customerID != "" {
		query += ` WHERE o.customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.OrderWithItems
	var ids []string
	for rows.Next() {
		var ow entity.OrderWithItems
		var status string
		if err := rows.Scan(&ow.ID, &ow.CustomerID, &ow.TotalPrice, &status,
			&ow.Latitude, &ow.Longitude, &ow.Address, &ow.PaymentMethod,
			&ow.CreatedAt, &ow.CustomerName); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		ow.Status = domain.OrderStatus(status)
		ow.Items = []entity.OrderItemDetail{}
		orders = append(orders, &ow)
		ids = append(ids, ow.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	if err := r.attachItems(ctx, orders, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByCustomer devuelve los pedidos de un cliente con sus líneas.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.OrderWithItems, error) {
	return r.List(ctx, customerID)
}

// GetDetail devuelve el pedido completo: cliente, líneas y repartidor asignado
// si hay tarea activa. nil si el pedido no existe.
func (r *OrderRepo) GetDetail(ctx context.Context, id string) (*entity.OrderDetail, error) {
	query := `
		SELECT o.id, o.customer_id, o.total_price, o.status, o.latitude, o.longitude,
			COALESCE(o.address, ''), o.payment_method, o.created_at,
			u.name, u.email, COALESCE(u.phone_number, '')
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		WHERE o.id = $1`
	var d entity.OrderDetail
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CustomerID, &d.TotalPrice, &status, &d.Latitude, &d.Longitude,
		&d.Address, &d.PaymentMethod, &d.CreatedAt,
		&d.CustomerName, &d.CustomerEmail, &d.CustomerPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order detail: %w", err)
	}
	d.Status = domain.OrderStatus(status)
	d.Items = []entity.OrderItemDetail{}

	wrap := []*entity.OrderWithItems{&d.OrderWithItems}
	if err := r.attachItems(ctx, wrap, []string{d.ID}); err != nil {
		return nil, err
	}

	partner, err := r.deliveryPartner(ctx, id)
	if err != nil {
		return nil, err
	}
	d.DeliveryPartner = partner
	return &d, nil
}

// attachItems carga todas las líneas de los pedidos dados en una sola query
// y las reparte sobre los structs en memoria.
func (r *OrderRepo) attachItems(ctx context.Context, orders []*entity.OrderWithItems, ids []string) error {
	query := `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.price,
			p.name, COALESCE(p.image_url, '')
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.order_id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*entity.OrderWithItems, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	for rows.Next() {
		var it entity.OrderItemDetail
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.ProductName, &it.ProductImageURL); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r *OrderRepo) deliveryPartner(ctx context.Context, orderID string) (*entity.DeliveryPartner, error) {
	query := `
		SELECT u.name, u.email, COALESCE(u.phone_number, ''), t.status, t.assigned_at
		FROM delivery_tasks t
		JOIN users u ON u.id = t.delivery_person_id
		WHERE t.order_id = $1
		ORDER BY t.assigned_at DESC
		LIMIT 1`
	var p entity.DeliveryPartner
	var status string
	err := r.q.QueryRow(ctx, query, orderID).Scan(&p.Name, &p.Email, &p.Phone, &status, &p.AssignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery partner: %w", err)
	}
	p.TaskStatus = domain.OrderStatus(status)
	return &p, nil
}
