package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-admin/internal/application/auth"
	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
// actor es la sesión de quien ejecuta la operación; las reglas de propiedad se validan aquí,
// las de rol de ruta en el middleware.
type UserUseCase struct {
	tx   repository.TxRunner
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(tx repository.TxRunner, repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{tx: tx, repo: repo}
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, limit, offset int) (*dto.UserListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// GetByID obtiene un usuario. Solo el propio usuario o un admin.
func (uc *UserUseCase) GetByID(ctx context.Context, actor *entity.Session, id string) (*dto.UserResponse, error) {
	if !canManage(actor, id) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// Create crea un usuario con rol explícito (solo admin).
func (uc *UserUseCase) Create(ctx context.Context, actor *entity.Session, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := auth.EnsureUniqueUser(ctx, r.Users, user.Username, user.Email, ""); err != nil {
			return err
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Update edita un usuario. Reglas:
//   - editar a otro usuario requiere actor admin;
//   - cambiar el rol requiere actor admin y un rol enumerado;
//   - username/email se revalidan contra todos los demás usuarios.
func (uc *UserUseCase) Update(ctx context.Context, actor *entity.Session, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !canManage(actor, id) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var out *entity.User
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		user, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}

		var newUsername, newEmail string
		if in.Username != nil {
			if v := strings.TrimSpace(*in.Username); v != "" && v != user.Username {
				newUsername = v
			}
		}
		if in.Email != nil {
			if v := strings.TrimSpace(*in.Email); v != "" && v != user.Email {
				newEmail = v
			}
		}
		if err := auth.EnsureUniqueUser(ctx, r.Users, newUsername, newEmail, user.ID); err != nil {
			return err
		}
		if newUsername != "" {
			user.Username = newUsername
		}
		if newEmail != "" {
			user.Email = newEmail
		}

		if in.Password != nil && *in.Password != "" {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if in.Role != nil && *in.Role != "" && *in.Role != user.Role {
			if !actor.IsAdmin() {
				return domain.ErrForbidden
			}
			if !entity.ValidRole(*in.Role) {
				return domain.ErrInvalidRole
			}
			user.Role = *in.Role
		}

		user.UpdatedAt = time.Now()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(out), nil
}

// Delete elimina un usuario (solo admin). Un admin no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor *entity.Session, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if actor.UserID == id {
		return domain.ErrSelfDeletion
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		user, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		return r.Users.Delete(ctx, id)
	})
}

// canManage: el propio usuario o un admin.
func canManage(actor *entity.Session, userID string) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.UserID == userID
}
