package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/verduleria-api/internal/application/auth"
	"github.com/jhoicas/verduleria-api/internal/application/delivery"
	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/application/orders"
	"github.com/jhoicas/verduleria-api/internal/application/usecase"
	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
	apphttp "github.com/jhoicas/verduleria-api/internal/interfaces/http"
	"github.com/jhoicas/verduleria-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria compartidos por todos los handlers bajo test.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	users    map[string]*entity.User
	products map[string]*entity.Product
	orders   map[string]*entity.Order
	items    []*entity.OrderItem
	tasks    map[string]*entity.DeliveryTask
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*entity.User{},
		products: map[string]*entity.Product{},
		orders:   map[string]*entity.Order{},
		tasks:    map[string]*entity.DeliveryTask{},
	}
}

type memUsers struct{ s *memStore }

var _ repository.UserRepository = (*memUsers)(nil)

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = u
	return nil
}
func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}
func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUsers) List(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	return out, nil
}
func (r *memUsers) ListByRole(_ context.Context, role string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type memProducts struct{ s *memStore }

var _ repository.ProductRepository = (*memProducts)(nil)

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.ImageBlob = nil
	return &cp, nil
}
func (r *memProducts) Search(_ context.Context, _, _ string) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		cp.ImageBlob = nil
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memProducts) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.s.products[p.ID] = p
	return nil
}
func (r *memProducts) UpdateImage(_ context.Context, id string, blob []byte, mime, imageURL string) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.ImageBlob, p.ImageMIME, p.ImageURL = blob, mime, imageURL
	return nil
}
func (r *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}
func (r *memProducts) GetImage(_ context.Context, id string) ([]byte, string, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, "", nil
	}
	return p.ImageBlob, p.ImageMIME, nil
}
func (r *memProducts) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *memProducts) DecrementStock(_ context.Context, id string, qty int) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock -= qty
	return nil
}

type memOrders struct{ s *memStore }

var _ repository.OrderRepository = (*memOrders)(nil)

func (r *memOrders) Create(_ context.Context, o *entity.Order) error {
	r.s.orders[o.ID] = o
	return nil
}
func (r *memOrders) CreateItem(_ context.Context, it *entity.OrderItem) error {
	r.s.items = append(r.s.items, it)
	return nil
}
func (r *memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return o, nil
}
func (r *memOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}
func (r *memOrders) List(_ context.Context, customerID string) ([]*entity.OrderWithItems, error) {
	var out []*entity.OrderWithItems
	for _, o := range r.s.orders {
		if customerID != "" && o.CustomerID != customerID {
			continue
		}
		out = append(out, &entity.OrderWithItems{Order: *o, Items: []entity.OrderItemDetail{}})
	}
	return out, nil
}
func (r *memOrders) GetDetail(_ context.Context, id string) (*entity.OrderDetail, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &entity.OrderDetail{
		OrderWithItems: entity.OrderWithItems{Order: *o, Items: []entity.OrderItemDetail{}},
	}, nil
}
func (r *memOrders) ListByCustomer(ctx context.Context, customerID string) ([]*entity.OrderWithItems, error) {
	return r.List(ctx, customerID)
}

type memTasks struct{ s *memStore }

var _ repository.DeliveryTaskRepository = (*memTasks)(nil)

func (r *memTasks) Create(_ context.Context, t *entity.DeliveryTask) error {
	r.s.tasks[t.ID] = t
	return nil
}
func (r *memTasks) GetByID(_ context.Context, id string) (*entity.DeliveryTask, error) {
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}
func (r *memTasks) GetByOrderID(_ context.Context, orderID string) (*entity.DeliveryTask, error) {
	for _, t := range r.s.tasks {
		if t.OrderID == orderID {
			return t, nil
		}
	}
	return nil, nil
}
func (r *memTasks) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	t, ok := r.s.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}
func (r *memTasks) ListByDeliveryPerson(_ context.Context, personID string) ([]*entity.DeliveryTaskDetail, error) {
	var out []*entity.DeliveryTaskDetail
	for _, t := range r.s.tasks {
		if t.DeliveryPersonID == personID {
			out = append(out, &entity.DeliveryTaskDetail{DeliveryTask: *t})
		}
	}
	return out, nil
}

// memRunner pasa los repos en memoria sin transacción real; los tests de
// rollback viven en los tests de los casos de uso.
type memRunner struct{ s *memStore }

func (r *memRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return fn(&memProducts{s: r.s}, &memOrders{s: r.s})
}

func (r *memRunner) RunDelivery(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	taskRepo repository.DeliveryTaskRepository,
	userRepo repository.UserRepository,
) error) error {
	return fn(&memOrders{s: r.s}, &memTasks{s: r.s}, &memUsers{s: r.s})
}

// buildApp arma la app Fiber completa sobre el store en memoria.
func buildApp(s *memStore) *fiber.App {
	userRepo := &memUsers{s: s}
	productRepo := &memProducts{s: s}
	orderRepo := &memOrders{s: s}
	taskRepo := &memTasks{s: s}
	runner := &memRunner{s: s}

	orderCfg := config.OrderConfig{
		Timeout:      2 * time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(userRepo),
		UserUC:     usecase.NewUserUseCase(userRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo),
		PlaceOrder: orders.NewPlaceOrderUseCase(runner, orderCfg),
		OrderQuery: orders.NewOrderQueryUseCase(orderRepo),
		DeliveryUC: delivery.NewDeliveryUseCase(runner, taskRepo),
	})
	return app
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Ping y login
// ──────────────────────────────────────────────────────────────────────────────

func TestPing(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]bool](t, resp)
	assert.True(t, body["ok"])
}

func TestLogin_CredencialesInvalidasDevuelve401(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/login", dto.LoginRequest{
		Email: "nadie@example.com", Password: "loquesea1",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestSignupYLogin(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/users", dto.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "secreto123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Email duplicado
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/users", dto.CreateUserRequest{
		Name: "Ana 2", Email: "ana@example.com", Password: "secreto123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/login", dto.LoginRequest{
		Email: "ana@example.com", Password: "secreto123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user := decodeBody[dto.UserResponse](t, resp)
	assert.Equal(t, "ana@example.com", user.Email)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos: multipart e imagen
// ──────────────────────────────────────────────────────────────────────────────

func multipartProduct(t *testing.T, fields map[string]string, image []byte, imageMIME string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="image"; filename="producto.jpg"`}
		hdr["Content-Type"] = []string{imageMIME}
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProductoConImagen_RoundTripDeBytes(t *testing.T) {
	app := buildApp(newMemStore())
	imgBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}

	resp, err := app.Test(multipartProduct(t, map[string]string{
		"name":  "Tomate",
		"price": "3.50",
		"stock": "12",
	}, imgBytes, "image/jpeg"), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[dto.ProductResponse](t, resp)
	require.NotEmpty(t, created.ImageURL)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, created.ImageURL, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", resp.Header.Get("Cache-Control"))

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, imgBytes, got, "los bytes servidos deben ser idénticos a los subidos")
}

func TestProductoSinImagen_Imagen404(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(multipartProduct(t, map[string]string{
		"name":  "Lechuga",
		"price": "2",
	}, nil, ""), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[dto.ProductResponse](t, resp)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/products/image/"+created.ID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductoCreate_PrecioInvalido(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(multipartProduct(t, map[string]string{
		"name":  "Papa",
		"price": "no-numero",
	}, nil, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout: mapeo de errores de dominio a HTTP
// ──────────────────────────────────────────────────────────────────────────────

func seedProduct(s *memStore, id string, price int64, stock int) {
	s.products[id] = &entity.Product{
		ID:    id,
		Name:  "Producto " + id,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestCheckout_Exitoso(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 10)
	app := buildApp(s)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/orders", dto.PlaceOrderRequest{
		UserID: "u1",
		Items:  []dto.OrderItemRequest{{ProductID: "p1", Quantity: 5}},
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeBody[dto.PlaceOrderResponse](t, resp)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.OrderID)
	assert.Equal(t, 5, s.products["p1"].Stock)
}

func TestCheckout_StockInsuficienteDevuelve409(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 2)
	app := buildApp(s)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/orders", dto.PlaceOrderRequest{
		UserID: "u1",
		Items:  []dto.OrderItemRequest{{ProductID: "p1", Quantity: 5}},
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestCheckout_ProductoInexistenteDevuelve404(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/orders", dto.PlaceOrderRequest{
		UserID: "u1",
		Items:  []dto.OrderItemRequest{{ProductID: "fantasma", Quantity: 1}},
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckout_SinItemsDevuelve400(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/orders", dto.PlaceOrderRequest{
		UserID: "u1",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reparto: asignación y avance de estado por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoDeReparto(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 10)
	s.users["d1"] = &entity.User{ID: "d1", Name: "Diego", Email: "diego@example.com", Role: entity.RoleDelivery}
	app := buildApp(s)

	// Checkout
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/orders", dto.PlaceOrderRequest{
		UserID: "u1",
		Items:  []dto.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decodeBody[dto.PlaceOrderResponse](t, resp)

	// Asignación
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/delivery/assign", dto.AssignDeliveryRequest{
		OrderID: placed.OrderID, DeliveryPersonID: "d1",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assigned := decodeBody[dto.AssignDeliveryResponse](t, resp)
	require.NotEmpty(t, assigned.TaskID)

	// Reasignar el mismo pedido: conflicto
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/delivery/assign", dto.AssignDeliveryRequest{
		OrderID: placed.OrderID, DeliveryPersonID: "d1",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Salto assigned → delivered: 409
	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/delivery/task/"+assigned.TaskID,
		dto.UpdateTaskStatusRequest{Status: "delivered"}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)

	// Avance paso a paso
	for _, status := range []string{"on_the_way", "delivered"} {
		resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/delivery/task/"+assigned.TaskID,
			dto.UpdateTaskStatusRequest{Status: status}), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, domain.StatusDelivered, s.orders[placed.OrderID].Status)

	// delivered repetido: idempotente, 200
	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/delivery/task/"+assigned.TaskID,
		dto.UpdateTaskStatusRequest{Status: "delivered"}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Tareas del repartidor
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/delivery/tasks/d1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decodeBody[dto.DeliveryTaskListResponse](t, resp)
	assert.Len(t, tasks.Items, 1)
}

func TestDetalleDePedidoInexistente(t *testing.T) {
	app := buildApp(newMemStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/no-existe", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
