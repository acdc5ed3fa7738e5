package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. SupplierID vacío = sin proveedor.
type Product struct {
	ID           string
	Name         string // único
	Description  string
	Price        decimal.Decimal // >= 0
	Stock        int             // >= 0
	SupplierID   string
	SupplierName string // solo lectura, resuelto por JOIN
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasSupplier informa si el producto referencia un proveedor.
func (p *Product) HasSupplier() bool {
	return p.SupplierID != ""
}
