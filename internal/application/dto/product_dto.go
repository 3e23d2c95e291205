package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImageUpload imagen recibida por multipart (buffer en memoria + MIME).
type ImageUpload struct {
	Data []byte
	MIME string
}

// CreateProductRequest entrada para crear un producto (campos del form multipart).
type CreateProductRequest struct {
	Name        string          `json:"name" form:"name" validate:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price" form:"price"`
	Stock       int             `json:"stock" form:"stock" validate:"min=0"`
	Description string          `json:"description" form:"description"`
	Category    string          `json:"category" form:"category"`
	UnitMeasure string          `json:"uom" form:"uom"`
}

// UpdateProductRequest update parcial tipado: solo los campos presentes se
// aplican (nada de armar SQL por concatenación).
type UpdateProductRequest struct {
	Name        *string          `json:"name" form:"name" validate:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price" form:"price"`
	Stock       *int             `json:"stock" form:"stock" validate:"omitempty,min=0"`
	Description *string          `json:"description" form:"description"`
	Category    *string          `json:"category" form:"category"`
	UnitMeasure *string          `json:"uom" form:"uom"`
}

// ProductResponse salida de un producto (nunca incluye el blob de imagen).
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	UnitMeasure string          `json:"uom"`
	ImageURL    string          `json:"image_url,omitempty"`
	ImageMIME   string          `json:"image_mime_type,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
