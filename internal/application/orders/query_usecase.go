package orders

import (
	"context"

	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

// OrderQueryUseCase lecturas de pedidos (join por nivel, sin N+1).
type OrderQueryUseCase struct {
	repo repository.OrderRepository
}

// NewOrderQueryUseCase construye el caso de uso.
func NewOrderQueryUseCase(repo repository.OrderRepository) *OrderQueryUseCase {
	return &OrderQueryUseCase{repo: repo}
}

// List devuelve pedidos con cliente y líneas; customerID vacío = todos.
func (uc *OrderQueryUseCase) List(ctx context.Context, customerID string) (*dto.OrderListResponse, error) {
	list, err := uc.repo.List(ctx, customerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items}, nil
}

// ListByUser devuelve los pedidos de un cliente con sus líneas.
func (uc *OrderQueryUseCase) ListByUser(ctx context.Context, userID string) (*dto.OrderListResponse, error) {
	list, err := uc.repo.ListByCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items}, nil
}

// GetDetail devuelve el pedido completo para tracking, con repartidor si hay.
func (uc *OrderQueryUseCase) GetDetail(ctx context.Context, orderID string) (*dto.OrderDetailResponse, error) {
	detail, err := uc.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrOrderNotFound
	}
	out := &dto.OrderDetailResponse{
		OrderResponse: toOrderResponse(&detail.OrderWithItems),
		CustomerEmail: detail.CustomerEmail,
		CustomerPhone: detail.CustomerPhone,
	}
	if dp := detail.DeliveryPartner; dp != nil {
		out.DeliveryPartner = &dto.DeliveryPartnerResponse{
			Name:       dp.Name,
			Email:      dp.Email,
			Phone:      dp.Phone,
			TaskStatus: string(dp.TaskStatus),
			AssignedAt: dp.AssignedAt,
		}
	}
	return out, nil
}

func toOrderResponse(o *entity.OrderWithItems) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			ImageURL:  it.ProductImageURL,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}
	return dto.OrderResponse{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		Status:        string(o.Status),
		TotalPrice:    o.TotalPrice,
		Latitude:      o.Latitude,
		Longitude:     o.Longitude,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		Items:         items,
	}
}
