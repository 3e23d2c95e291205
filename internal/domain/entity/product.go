package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es un entero no negativo que solo muta dentro de la transacción de pedido
// (o por un update explícito de admin). La imagen se guarda como blob en la fila;
// ImageURL apunta al endpoint de bytes (/api/products/image/:id).
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int
	Description string
	Category    string
	UnitMeasure string // kg, unidad, atado...
	ImageURL    string
	ImageBlob   []byte // no se incluye en listados; solo en el endpoint de imagen
	ImageMIME   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasImage reporta si el producto tiene blob de imagen cargado.
func (p *Product) HasImage() bool {
	return len(p.ImageBlob) > 0
}
