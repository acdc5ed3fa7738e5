package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
	"github.com/jhoicas/tienda-admin/pkg/jwt"
)

// SessionConfig configuración para emitir y validar tokens de sesión.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y resolución de sesión.
type AuthUseCase struct {
	tx       repository.TxRunner
	users    repository.UserRepository
	sessions repository.SessionStore
	cfg      SessionConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, users repository.UserRepository, sessions repository.SessionStore, cfg SessionConfig) *AuthUseCase {
	return &AuthUseCase{tx: tx, users: users, sessions: sessions, cfg: cfg, now: time.Now}
}

// RegisterUser crea un usuario con rol "user" y password bcrypt.
// Si tras crearlo es el único usuario del store, se promueve a admin (bootstrap de una sola vez).
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	bootstrapped := false

	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := EnsureUniqueUser(ctx, r.Users, user.Username, user.Email, ""); err != nil {
			return err
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		total, err := r.Users.Count(ctx)
		if err != nil {
			return err
		}
		if total == 1 {
			if err := r.Users.UpdateRole(ctx, user.ID, entity.RoleAdmin); err != nil {
				return err
			}
			user.Role = entity.RoleAdmin
			bootstrapped = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{User: *ToUserResponse(user), Bootstrapped: bootstrapped}, nil
}

// Login verifica username/password, crea la sesión del lado servidor y devuelve su token.
// Usuario inexistente y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.TTL),
	}
	if err := uc.sessions.Save(ctx, session, uc.cfg.TTL); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	token, err := jwt.Generate(uc.cfg.Secret, session.ID, user.ID, user.Username, user.Role, uc.cfg.Issuer, uc.cfg.TTL)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      *ToUserResponse(user),
	}, nil
}

// Logout elimina la sesión del store. Un token inválido o ya cerrado no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return nil
	}
	return uc.sessions.Delete(ctx, claims.ID)
}

// Authenticate resuelve el token a la sesión vigente.
// El rol se relee del usuario en cada request: un cambio de rol o un borrado tiene efecto inmediato.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(uc.now()) {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, domain.ErrUnauthorized
	}
	if user.Role != session.Role || user.Username != session.Username {
		session.Role = user.Role
		session.Username = user.Username
		remaining := session.ExpiresAt.Sub(uc.now())
		if remaining > 0 {
			if err := uc.sessions.Save(ctx, session, remaining); err != nil {
				return nil, fmt.Errorf("refrescar sesión: %w", err)
			}
		}
	}
	return session, nil
}

// HashPassword genera el hash bcrypt. bcrypt no admite más de 72 bytes: ese caso es entrada inválida.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password (máximo 72 bytes)", domain.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// EnsureUniqueUser verifica username y email contra todos los demás usuarios (excludeID = propio id en updates).
func EnsureUniqueUser(ctx context.Context, users repository.UserRepository, username, email, excludeID string) error {
	if username != "" {
		taken, err := users.ExistsUsername(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameAlreadyExists
		}
	}
	if email != "" {
		taken, err := users.ExistsEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailAlreadyExists
		}
	}
	return nil
}

// ToUserResponse convierte la entidad a su salida pública (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

