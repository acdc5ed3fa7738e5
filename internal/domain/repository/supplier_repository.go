package repository

import (
	"context"

	"github.com/jhoicas/tienda-admin/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ExistsName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsEmail(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
