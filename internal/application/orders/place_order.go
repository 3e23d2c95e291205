package orders

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
	"github.com/jhoicas/verduleria-api/pkg/config"
)

// PlaceOrderUseCase crea un pedido y descuenta stock en una sola transacción:
// lock por producto (SELECT FOR UPDATE), verificación de stock, total con
// precios de catálogo, insert de cabecera + líneas, decremento de stock,
// commit. En espera de lock expirada reintenta con backoff acotado.
type PlaceOrderUseCase struct {
	txRunner TxRunner
	cfg      config.OrderConfig
}

// NewPlaceOrderUseCase construye el caso de uso.
func NewPlaceOrderUseCase(txRunner TxRunner, cfg config.OrderConfig) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{txRunner: txRunner, cfg: cfg}
}

// PlaceOrder ejecuta el checkout completo. Cualquier fallo (producto
// inexistente, stock insuficiente, error de BD) hace rollback total: ningún
// pedido parcial queda visible y el stock de todos los productos queda intacto.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, in dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	if in.UserID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	// Orden estable de lock para evitar deadlocks entre checkouts concurrentes.
	sorted := make([]dto.OrderItemRequest, len(in.Items))
	copy(sorted, in.Items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	// Líneas duplicadas del mismo producto se consolidan: la verificación de
	// stock debe ver la demanda total del producto, no cada línea por separado.
	items := make([]dto.OrderItemRequest, 0, len(sorted))
	for _, it := range sorted {
		if n := len(items); n > 0 && items[n-1].ProductID == it.ProductID {
			items[n-1].Quantity += it.Quantity
			continue
		}
		items = append(items, it)
	}

	if uc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Timeout)
		defer cancel()
	}

	var orderID string
	attempts := uc.cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, domain.ErrLockTimeout
			case <-time.After(uc.cfg.RetryBackoff * time.Duration(attempt)):
			}
		}
		orderID, err = uc.placeOnce(ctx, in, items)
		if err == nil {
			return &dto.PlaceOrderResponse{Success: true, OrderID: orderID}, nil
		}
		if !errors.Is(err, domain.ErrLockTimeout) {
			return nil, err
		}
	}
	return nil, err
}

// placeOnce corre una transacción completa de checkout.
func (uc *PlaceOrderUseCase) placeOnce(ctx context.Context, in dto.PlaceOrderRequest, items []dto.OrderItemRequest) (string, error) {
	orderID := uuid.New().String()
	now := time.Now()

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) error {
		// Fase 1: lock + verificación de stock + precio autoritativo de catálogo.
		// El lock se sostiene hasta el commit: un checkout concurrente sobre el
		// mismo producto bloquea aquí y reevalúa contra el stock ya actualizado.
		// items llega con un producto por línea (duplicados ya consolidados),
		// así que Quantity es la demanda total de ese producto.
		lines := make([]*entity.OrderItem, 0, len(items))
		total := decimal.Zero
		for _, it := range items {
			p, err := productRepo.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrProductNotFound
			}
			if p.Stock < it.Quantity {
				return domain.ErrInsufficientStock
			}
			line := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
			}
			total = total.Add(line.Subtotal())
			lines = append(lines, line)
		}

		paymentMethod := in.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = "cod"
		}
		order := &entity.Order{
			ID:            orderID,
			CustomerID:    in.UserID,
			TotalPrice:    total,
			Status:        domain.StatusPending,
			Latitude:      in.Latitude,
			Longitude:     in.Longitude,
			Address:       in.DeliveryAddress,
			PaymentMethod: paymentMethod,
			CreatedAt:     now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		// Fase 2: líneas con snapshot de precio + decremento de stock.
		for _, line := range lines {
			if err := orderRepo.CreateItem(ctx, line); err != nil {
				return err
			}
			if err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}
