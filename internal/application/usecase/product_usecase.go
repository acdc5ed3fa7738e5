package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	tx   repository.TxRunner
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo}
}

// Create crea un producto. El nombre es único y el proveedor, si viene, debe existir.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	price, err := normalizePrice(in.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		taken, err := r.Products.ExistsName(ctx, product.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrProductNameExists
		}
		if product.HasSupplier() {
			supplier, err := r.Suppliers.GetByID(ctx, product.SupplierID)
			if err != nil {
				return err
			}
			if supplier == nil {
				return domain.ErrSupplierNotFound
			}
			product.SupplierName = supplier.Name
		}
		return r.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update aplica solo los campos presentes. SupplierID: omitido no cambia, vacío/null limpia,
// cualquier otro valor debe resolver a un proveedor existente.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price != nil {
		price, err := normalizePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		in.Price = &price
	}

	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		if in.Name != nil {
			if name := strings.TrimSpace(*in.Name); name != "" && name != product.Name {
				taken, err := r.Products.ExistsName(ctx, name, product.ID)
				if err != nil {
					return err
				}
				if taken {
					return domain.ErrProductNameExists
				}
				product.Name = name
			}
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Stock != nil {
			product.Stock = *in.Stock
		}
		if in.SupplierID.Set {
			if in.SupplierID.Clear() {
				product.SupplierID = ""
				product.SupplierName = ""
			} else {
				supplier, err := r.Suppliers.GetByID(ctx, in.SupplierID.Value)
				if err != nil {
					return err
				}
				if supplier == nil {
					return domain.ErrSupplierNotFound
				}
				product.SupplierID = supplier.ID
				product.SupplierName = supplier.Name
			}
		}

		product.UpdatedAt = time.Now()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un producto por ID. No hay restricción referencial desde este lado.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		return r.Products.Delete(ctx, id)
	})
}

// maxPrice mayor valor que admite la columna price NUMERIC(12,2).
var maxPrice = decimal.RequireFromString("9999999999.99")

// normalizePrice redondea a centavos, como lo guarda la columna, y rechaza valores fuera de rango.
func normalizePrice(p decimal.Decimal) (decimal.Decimal, error) {
	p = p.Round(2)
	if p.IsNegative() || p.GreaterThan(maxPrice) {
		return decimal.Zero, fmt.Errorf("%w: price debe estar entre 0 y %s", domain.ErrInvalidInput, maxPrice.StringFixed(2))
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.HasSupplier() {
		id, name := p.SupplierID, p.SupplierName
		out.SupplierID = &id
		out.SupplierName = &name
	}
	return out
}
