package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-admin/internal/application/analytics"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/memory"
)

func TestGetSummary_Conteos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Acme"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Widget", SupplierID: "s1"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", Name: "Gadget"}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Username: "ana", Email: "ana@x.com"}))

	uc := analytics.NewDashboardUseCase(store.Products(), store.Suppliers(), store.Users())
	out, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalProducts)
	assert.Equal(t, 1, out.TotalSuppliers)
	assert.Equal(t, 1, out.TotalUsers)
	assert.True(t, out.SimulatedSales.Equal(decimal.RequireFromString("12345.67")))
	assert.Contains(t, out.SimulatedSalesLabel, "$")
	assert.Contains(t, out.SimulatedSalesLabel, "67")
}

// failingProducts falla en Count; el resto de métodos no se usan.
type failingProducts struct {
	repository.ProductRepository
}

func (failingProducts) Count(context.Context) (int, error) {
	return 0, errors.New("db caída")
}

func TestGetSummary_ErrorDeConteo(t *testing.T) {
	store := memory.NewStore()
	uc := analytics.NewDashboardUseCase(failingProducts{}, store.Suppliers(), store.Users())

	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "productos")
}
