package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/verduleria-api/internal/application/dto"
	"github.com/jhoicas/verduleria-api/internal/domain"
	"github.com/jhoicas/verduleria-api/internal/domain/entity"
	"github.com/jhoicas/verduleria-api/internal/domain/repository"
)

// Valores por defecto del catálogo cuando el form no los trae.
const (
	defaultCategory    = "Vegetables"
	defaultUnitMeasure = "kg"
)

// ProductUseCase casos de uso CRUD del catálogo. El stock solo lo muta el
// checkout (transacción de pedido) o un update explícito de admin.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto; si viene imagen, se guarda como blob y la
// image_url apunta al endpoint de bytes.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, image *dto.ImageUpload) (*dto.ProductResponse, error) {
	if in.Stock < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Category == "" {
		in.Category = defaultCategory
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = defaultUnitMeasure
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
		Category:    in.Category,
		UnitMeasure: in.UnitMeasure,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if image != nil {
		product.ImageBlob = image.Data
		product.ImageMIME = image.MIME
	}
	if product.HasImage() {
		product.ImageURL = imageEndpoint(product.ID)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Search lista el catálogo con filtro de texto y categoría opcionales.
// Nunca incluye bytes de imagen en la respuesta.
func (uc *ProductUseCase) Search(ctx context.Context, q, category string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.Search(ctx, q, category)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Update aplica un update parcial tipado; solo los campos presentes cambian.
// La imagen se reemplaza solo si viene en el form.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, image *dto.ImageUpload) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Stock = *in.Stock
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if image != nil {
		product.ImageURL = imageEndpoint(product.ID)
		product.ImageMIME = image.MIME
		if err := uc.repo.UpdateImage(ctx, product.ID, image.Data, image.MIME, product.ImageURL); err != nil {
			return nil, err
		}
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// GetImage devuelve el blob y el MIME de la imagen; ErrNotFound si no hay.
func (uc *ProductUseCase) GetImage(ctx context.Context, id string) ([]byte, string, error) {
	blob, mime, err := uc.repo.GetImage(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(blob) == 0 {
		return nil, "", domain.ErrNotFound
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return blob, mime, nil
}

func imageEndpoint(productID string) string {
	return fmt.Sprintf("/api/products/image/%s", productID)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Category:    p.Category,
		UnitMeasure: p.UnitMeasure,
		ImageURL:    p.ImageURL,
		ImageMIME:   p.ImageMIME,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
