package repository

import (
	"context"

	"github.com/jhoicas/verduleria-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura nunca cargan el blob de imagen; para eso está GetImage.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Search filtra por substring q (name/description/category/unit_measure)
	// y por categoría exacta; ambos filtros son opcionales.
	Search(ctx context.Context, q, category string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateImage(ctx context.Context, id string, blob []byte, mime, imageURL string) error
	Delete(ctx context.Context, id string) error
	// GetImage devuelve el blob y su MIME; (nil, "", nil) si no hay imagen.
	GetImage(ctx context.Context, id string) ([]byte, string, error)

	// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// DecrementStock resta qty unidades; el caller debe haber verificado stock
	// suficiente bajo el lock de GetForUpdate.
	DecrementStock(ctx context.Context, id string, qty int) error
}
