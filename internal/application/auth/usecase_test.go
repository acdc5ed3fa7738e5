package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/memory"
)

var testSessionCfg = SessionConfig{Secret: "secreto-test", Issuer: "tienda-admin-test", TTL: time.Hour}

func newTestUseCase() (*AuthUseCase, *memory.Store, *memory.SessionStore) {
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	return NewAuthUseCase(store, store.Users(), sessions, testSessionCfg), store, sessions
}

func register(t *testing.T, uc *AuthUseCase, username, email string) *dto.RegisterResponse {
	t.Helper()
	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: username, Email: email, Password: "password123"})
	require.NoError(t, err)
	return out
}

func TestRegister_PrimerUsuarioEsAdmin(t *testing.T) {
	uc, _, _ := newTestUseCase()

	first := register(t, uc, "alice", "alice@x.com")
	assert.True(t, first.Bootstrapped)
	assert.Equal(t, entity.RoleAdmin, first.User.Role)

	second := register(t, uc, "bob", "bob@x.com")
	assert.False(t, second.Bootstrapped)
	assert.Equal(t, entity.RoleUser, second.User.Role)
}

func TestRegister_Duplicados(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newTestUseCase()
	register(t, uc, "alice", "alice@x.com")

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Email: "otra@x.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice2", Email: "alice@x.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	n, err := store.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "un registro rechazado no crea usuario")
}

func TestRegister_EntradaInvalida(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: "al", Email: "no-es-email", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_PasswordMayorA72Bytes(t *testing.T) {
	uc, store, _ := newTestUseCase()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("a", 73)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// 40 runas pasan el tag max=72, pero son 80 bytes
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("ñ", 40)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	n, err := store.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// 72 bytes exactos es el máximo válido
	out, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("a", 72)})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.User.Username)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	_, err = HashPassword(strings.Repeat("ñ", 37))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_YAuthenticate(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase()
	reg := register(t, uc, "alice", "alice@x.com")

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, reg.User.ID, out.User.ID)

	session, err := uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, session.UserID)
	assert.Equal(t, entity.RoleAdmin, session.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	uc, _, sessions := newTestUseCase()
	register(t, uc, "alice", "alice@x.com")

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, 0, sessions.Len(), "un login fallido no crea sesión")
}

func TestLogout_InvalidaSesion(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase()
	register(t, uc, "alice", "alice@x.com")
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, out.Token))
	_, err = uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// idempotente
	assert.NoError(t, uc.Logout(ctx, out.Token))
	assert.NoError(t, uc.Logout(ctx, ""))
	assert.NoError(t, uc.Logout(ctx, "basura"))
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Authenticate(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_RefrescaRolYBorrado(t *testing.T) {
	ctx := context.Background()
	uc, store, _ := newTestUseCase()
	register(t, uc, "alice", "alice@x.com")
	bob := register(t, uc, "bob", "bob@x.com")

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "bob", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, store.Users().UpdateRole(ctx, bob.User.ID, entity.RoleSubadmin))
	session, err := uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSubadmin, session.Role, "el cambio de rol aplica en el siguiente request")

	require.NoError(t, store.Users().Delete(ctx, bob.User.ID))
	_, err = uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_SesionExpirada(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUseCase()
	register(t, uc, "alice", "alice@x.com")
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// sessionStoreMock permite verificar la interacción con el almacén de sesiones.
type sessionStoreMock struct {
	mock.Mock
}

func (m *sessionStoreMock) Save(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	return m.Called(ctx, s, ttl).Error(0)
}

func (m *sessionStoreMock) Get(ctx context.Context, id string) (*entity.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

func (m *sessionStoreMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestLogin_GuardaSesionConTTL(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := new(sessionStoreMock)
	uc := NewAuthUseCase(store, store.Users(), sessions, testSessionCfg)
	register(t, uc, "alice", "alice@x.com")

	sessions.On("Save", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
		return s.Username == "alice" && s.Role == entity.RoleAdmin && s.ID != ""
	}), time.Hour).Return(nil).Once()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestLogin_ErrorDelStorePropaga(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := new(sessionStoreMock)
	uc := NewAuthUseCase(store, store.Users(), sessions, testSessionCfg)
	register(t, uc, "alice", "alice@x.com")

	down := errors.New("redis caído")
	sessions.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(down)

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, down)
}
