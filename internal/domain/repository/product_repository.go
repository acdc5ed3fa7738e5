package repository

import (
	"context"

	"github.com/jhoicas/tienda-admin/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ExistsName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
	// CountBySupplier cuántos productos referencian al proveedor (restrict-on-delete).
	CountBySupplier(ctx context.Context, supplierID string) (int, error)
	Delete(ctx context.Context, id string) error
}
