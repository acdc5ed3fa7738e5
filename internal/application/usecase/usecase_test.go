package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/application/usecase"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/memory"
)

type fixture struct {
	store     *memory.Store
	users     *usecase.UserUseCase
	products  *usecase.ProductUseCase
	suppliers *usecase.SupplierUseCase
}

func newFixture() fixture {
	store := memory.NewStore()
	return fixture{
		store:     store,
		users:     usecase.NewUserUseCase(store, store.Users()),
		products:  usecase.NewProductUseCase(store, store.Products()),
		suppliers: usecase.NewSupplierUseCase(store, store.Suppliers()),
	}
}

func actor(userID, role string) *entity.Session {
	return &entity.Session{ID: "sess-" + userID, UserID: userID, Username: userID, Role: role}
}

func strPtr(s string) *string { return &s }

// seedUser crea un usuario vía caso de uso con un admin ficticio.
func (f fixture) seedUser(t *testing.T, username, role string) *dto.UserResponse {
	t.Helper()
	out, err := f.users.Create(context.Background(), actor("root", entity.RoleAdmin), dto.CreateUserRequest{
		Username: username, Email: username + "@x.com", Password: "password123", Role: role,
	})
	require.NoError(t, err)
	return out
}
