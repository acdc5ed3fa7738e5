package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OptionalID referencia opcional con tres estados explícitos:
//   - campo omitido        → Set=false (sin cambio)
//   - null o ""            → Set=true, Value="" (limpiar la referencia)
//   - "<id>"               → Set=true, Value="<id>" (nuevo valor)
type OptionalID struct {
	Set   bool
	Value string
}

// UnmarshalJSON solo se invoca si el campo aparece en el cuerpo.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("supplier_id debe ser string o null: %w", err)
	}
	o.Value = strings.TrimSpace(s)
	return nil
}

// MarshalJSON serializa como null si está vacío.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Clear informa si la petición pide quitar la referencia.
func (o OptionalID) Clear() bool {
	return o.Set && o.Value == ""
}

// SetID construye un OptionalID con valor (o limpieza si id es "").
func SetID(id string) OptionalID {
	return OptionalID{Set: true, Value: id}
}

// CreateProductRequest entrada para crear un producto. SupplierID vacío = sin proveedor.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0,max=2147483647"`
	SupplierID  string          `json:"supplier_id"`
}

// UpdateProductRequest campos opcionales; SupplierID es tri-estado.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0,max=2147483647"`
	SupplierID  OptionalID       `json:"supplier_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	SupplierID   *string         `json:"supplier_id"`
	SupplierName *string         `json:"supplier"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
