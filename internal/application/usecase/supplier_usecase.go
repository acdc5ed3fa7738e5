package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
// Es el único punto que impide borrar un proveedor con productos asociados.
type SupplierUseCase struct {
	tx   repository.TxRunner
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(tx repository.TxRunner, repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{tx: tx, repo: repo}
}

// Create crea un proveedor con nombre único y email único si viene.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := ensureUniqueSupplier(ctx, r.Suppliers, supplier.Name, supplier.Email, ""); err != nil {
			return err
		}
		return r.Suppliers.Create(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrSupplierNotFound
	}
	return toSupplierResponse(supplier), nil
}

// Update aplica los campos presentes; la unicidad excluye el propio id. Email "" limpia el email.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	check := in
	if check.Email != nil && strings.TrimSpace(*check.Email) == "" {
		check.Email = nil // "" no es un email inválido: pide limpiarlo
	}
	if err := dto.Validate(check); err != nil {
		return nil, err
	}
	var out *entity.Supplier
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		supplier, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrSupplierNotFound
		}

		var newName, newEmail string
		if in.Name != nil {
			if v := strings.TrimSpace(*in.Name); v != "" && v != supplier.Name {
				newName = v
			}
		}
		if in.Email != nil {
			if v := strings.TrimSpace(*in.Email); v != supplier.Email {
				newEmail = v
			}
		}
		if err := ensureUniqueSupplier(ctx, r.Suppliers, newName, newEmail, supplier.ID); err != nil {
			return err
		}
		if newName != "" {
			supplier.Name = newName
		}
		if in.Email != nil {
			supplier.Email = strings.TrimSpace(*in.Email)
		}
		if in.ContactPerson != nil {
			supplier.ContactPerson = *in.ContactPerson
		}
		if in.Phone != nil {
			supplier.Phone = *in.Phone
		}

		supplier.UpdatedAt = time.Now()
		if err := r.Suppliers.Update(ctx, supplier); err != nil {
			return err
		}
		out = supplier
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(out), nil
}

// List lista proveedores con su número de productos.
func (uc *SupplierUseCase) List(ctx context.Context, limit, offset int) (*dto.SupplierListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un proveedor. Falla con ErrHasDependents si algún producto lo referencia.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		supplier, err := r.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrSupplierNotFound
		}
		n, err := r.Products.CountBySupplier(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrHasDependents
		}
		return r.Suppliers.Delete(ctx, id)
	})
}

func ensureUniqueSupplier(ctx context.Context, repo repository.SupplierRepository, name, email, excludeID string) error {
	if name != "" {
		taken, err := repo.ExistsName(ctx, name, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSupplierNameExists
		}
	}
	if email != "" {
		taken, err := repo.ExistsEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSupplierEmailExists
		}
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	out := &dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		ProductCount:  s.ProductCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Email != "" {
		email := s.Email
		out.Email = &email
	}
	return out
}
