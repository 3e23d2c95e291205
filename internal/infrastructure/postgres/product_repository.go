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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// productColumns excluye image_blob a propósito: los listados y lecturas
// normales nunca arrastran los bytes de la imagen.
const productColumns = `id, name, price, stock, COALESCE(description, ''), category, unit_measure,
	COALESCE(image_url, ''), COALESCE(image_mime_type, ''), created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto, blob incluido si viene cargado.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, price, stock, description, category, unit_measure,
			image_url, image_blob, image_mime_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Price, p.Stock, nullIfEmpty(p.Description), p.Category, p.UnitMeasure,
		nullIfEmpty(p.ImageURL), p.ImageBlob, nullIfEmpty(p.ImageMIME), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (sin blob); nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Search filtra por substring (ILIKE sobre name/description/category/unit_measure)
// y por categoría exacta. Ambos filtros son opcionales y combinables.
func (r *ProductRepo) Search(ctx context.Context, q, category string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	if q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d OR unit_measure ILIKE $%d)`, n, n, n, n)
	}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update reescribe los campos editables del producto (el blob va por UpdateImage).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, stock = $4, description = $5, category = $6,
			unit_measure = $7, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Price, p.Stock, nullIfEmpty(p.Description), p.Category, p.UnitMeasure,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdateImage reemplaza el blob, su MIME y la URL pública del producto.
func (r *ProductRepo) UpdateImage(ctx context.Context, id string, blob []byte, mime, imageURL string) error {
	query := `
		UPDATE products
		SET image_blob = $2, image_mime_type = $3, image_url = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, blob, nullIfEmpty(mime), nullIfEmpty(imageURL))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete elimina el producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetImage devuelve el blob y su MIME; (nil, "", nil) si el producto no existe
// o no tiene imagen cargada.
func (r *ProductRepo) GetImage(ctx context.Context, id string) ([]byte, string, error) {
	var blob []byte
	var mime string
	query := `SELECT image_blob, COALESCE(image_mime_type, '') FROM products WHERE id = $1`
	err := r.q.QueryRow(ctx, query, id).Scan(&blob, &mime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("get product image: %w", err)
	}
	return blob, mime, nil
}

// GetForUpdate bloquea la fila con SELECT ... FOR UPDATE. El lock se sostiene
// hasta el commit/rollback de la transacción que envuelve al Querier.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return p, nil
}

// DecrementStock resta qty unidades. El CHECK (stock >= 0) de la tabla actúa
// como última barrera si el caller se saltó la verificación bajo lock.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	query := `UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.Description, &p.Category, &p.UnitMeasure,
		&p.ImageURL, &p.ImageMIME, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
