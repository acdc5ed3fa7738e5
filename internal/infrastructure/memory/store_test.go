package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-admin/internal/domain"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

func TestUserRepo_UnicidadYExclusion(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	ana := &entity.User{ID: "u1", Username: "ana", Email: "ana@x.com", Role: entity.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, ana))

	err := users.Create(ctx, &entity.User{ID: "u2", Username: "ana", Email: "otra@x.com"})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)

	err = users.Create(ctx, &entity.User{ID: "u2", Username: "beto", Email: "ana@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	taken, err := users.ExistsUsername(ctx, "ana", "u1")
	require.NoError(t, err)
	assert.False(t, taken, "el propio usuario no cuenta como duplicado")

	taken, err = users.ExistsUsername(ctx, "ana", "")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestSupplierRepo_DeleteConProductos(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Acme"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", Name: "Widget", Price: decimal.NewFromInt(10), Stock: 3, SupplierID: "s1",
	}))

	s, err := store.Suppliers().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.ProductCount)

	assert.ErrorIs(t, store.Suppliers().Delete(ctx, "s1"), domain.ErrHasDependents)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.SupplierName)
}

func TestSupplierRepo_EmailVacioNoEsUnico(t *testing.T) {
	ctx := context.Background()
	suppliers := NewStore().Suppliers()

	require.NoError(t, suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "A"}))
	require.NoError(t, suppliers.Create(ctx, &entity.Supplier{ID: "s2", Name: "B"}))
	assert.ErrorIs(t, suppliers.Create(ctx, &entity.Supplier{ID: "s3", Name: "A"}), domain.ErrSupplierNameExists)
}

func TestProductRepo_ProveedorInexistente(t *testing.T) {
	err := NewStore().Products().Create(context.Background(), &entity.Product{ID: "p1", Name: "X", SupplierID: "nope"})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)
}

func TestProductRepo_ListPagina(t *testing.T) {
	ctx := context.Background()
	products := NewStore().Products()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, products.Create(ctx, &entity.Product{ID: "id-" + name, Name: name}))
	}

	list, err := products.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)

	list, err = products.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].Name)

	list, err = products.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_RunRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.Run(ctx, func(r repository.Repos) error {
		if err := r.Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Acme"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := store.Suppliers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "la escritura dentro de la tx fallida no debe persistir")

	err = store.Run(ctx, func(r repository.Repos) error {
		return r.Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Acme"})
	})
	require.NoError(t, err)
	n, _ = store.Suppliers().Count(ctx)
	assert.Equal(t, 1, n)
}
