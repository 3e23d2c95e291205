package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/application/usecase"
	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

// memProductRepo repo de productos en memoria.
type memProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.ImageBlob = nil // las lecturas normales no cargan el blob
	return &cp, nil
}

func (r *memProductRepo) Search(_ context.Context, _, _ string) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		cp.ImageBlob = nil
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	stored, ok := r.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	blob, mime := stored.ImageBlob, stored.ImageMIME
	cp := *p
	cp.ImageBlob, cp.ImageMIME = blob, mime
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateImage(_ context.Context, id string, blob []byte, mime, imageURL string) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.ImageBlob = blob
	p.ImageMIME = mime
	p.ImageURL = imageURL
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) GetImage(_ context.Context, id string) ([]byte, string, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, "", nil
	}
	return p.ImageBlob, p.ImageMIME, nil
}

func (r *memProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.GetByID(context.Background(), id)
}

func (r *memProductRepo) DecrementStock(_ context.Context, id string, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock -= qty
	return nil
}

// Create aplica defaults de categoría y unidad de medida.
func TestProductCreate_AplicaDefaults(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Tomate",
		Price: decimal.NewFromInt(3),
		Stock: 20,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Vegetables", out.Category)
	assert.Equal(t, "kg", out.UnitMeasure)
	assert.Empty(t, out.ImageURL, "sin imagen no hay URL")
}

// Create con imagen guarda el blob y apunta image_url al endpoint de bytes.
func TestProductCreate_ConImagen(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	img := &dto.ImageUpload{Data: []byte{0xFF, 0xD8, 0xFF}, MIME: "image/jpeg"}
	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Lechuga",
		Price: decimal.NewFromInt(2),
		Stock: 5,
	}, img)
	require.NoError(t, err)
	assert.Equal(t, "/api/products/image/"+out.ID, out.ImageURL)

	blob, mime, err := uc.GetImage(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Data, blob, "los bytes deben volver idénticos")
	assert.Equal(t, "image/jpeg", mime)
}

// Un archivo de imagen vacío no produce URL ni imagen servible.
func TestProductCreate_ImagenVaciaNoGeneraURL(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Rúcula",
		Price: decimal.NewFromInt(2),
		Stock: 3,
	}, &dto.ImageUpload{Data: nil, MIME: "image/png"})
	require.NoError(t, err)
	assert.Empty(t, out.ImageURL)

	_, _, err = uc.GetImage(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Valores negativos en create: entrada inválida.
func TestProductCreate_ValoresNegativos(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Papa",
		Price: decimal.NewFromInt(-1),
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{
		Name:  "Papa",
		Price: decimal.NewFromInt(1),
		Stock: -3,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Update parcial: solo los campos presentes cambian.
func TestProductUpdate_SoloCamposPresentes(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:        "Zanahoria",
		Price:       decimal.NewFromInt(4),
		Stock:       30,
		Description: "fresca",
	}, nil)
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(5)
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		Price: &newPrice,
	}, nil)
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(newPrice))
	assert.Equal(t, "Zanahoria", out.Name, "el nombre no vino en el update y no debe cambiar")
	assert.Equal(t, 30, out.Stock)
	assert.Equal(t, "fresca", out.Description)
}

// Update con precio negativo se rechaza.
func TestProductUpdate_PrecioNegativo(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Cebolla", Price: decimal.NewFromInt(2), Stock: 10,
	}, nil)
	require.NoError(t, err)

	bad := decimal.NewFromInt(-2)
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Price: &bad}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Update de producto inexistente devuelve nil (el handler lo mapea a 404).
func TestProductUpdate_NoEncontrado(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	out, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{}, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

// Update con imagen reemplaza el blob sin tocar el resto.
func TestProductUpdate_ReemplazaImagen(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Pimiento", Price: decimal.NewFromInt(6), Stock: 8,
	}, &dto.ImageUpload{Data: []byte{1, 2, 3}, MIME: "image/png"})
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{},
		&dto.ImageUpload{Data: []byte{9, 9}, MIME: "image/webp"})
	require.NoError(t, err)

	blob, mime, err := uc.GetImage(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, blob)
	assert.Equal(t, "image/webp", mime)
}

// GetImage sin blob cargado: ErrNotFound; MIME vacío cae a image/jpeg.
func TestProductGetImage_SinImagen(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Apio", Price: decimal.NewFromInt(1), Stock: 2,
	}, nil)
	require.NoError(t, err)

	_, _, err = uc.GetImage(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = uc.GetImage(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductGetImage_MIMEPorDefecto(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Ajo", Price: decimal.NewFromInt(1), Stock: 2,
	}, &dto.ImageUpload{Data: []byte{7}, MIME: ""})
	require.NoError(t, err)

	_, mime, err := uc.GetImage(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
}

// Delete elimina y la lectura posterior devuelve nil.
func TestProductDelete(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Brócoli", Price: decimal.NewFromInt(3), Stock: 4,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))

	out, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, out)

	assert.ErrorIs(t, uc.Delete(context.Background(), created.ID), domain.ErrProductNotFound)
}
