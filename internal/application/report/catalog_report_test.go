package report_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-admin/internal/application/report"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/memory"
)

type captureGenerator struct {
	got *report.CatalogReport
}

func (g *captureGenerator) GenerateCatalogPDF(_ context.Context, r *report.CatalogReport) ([]byte, error) {
	g.got = r
	return []byte("%PDF-fake"), nil
}

func TestCatalogReport_TotalesYPaginacion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", Name: "Acme"}))

	// más de una página del recorrido interno
	for i := 0; i < 130; i++ {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{
			ID: fmt.Sprintf("p%03d", i), Name: fmt.Sprintf("Producto %03d", i),
			Price: decimal.RequireFromString("2.50"), Stock: 2,
		}))
	}

	gen := &captureGenerator{}
	uc := report.NewCatalogReportUseCase(store.Products(), store.Suppliers(), gen)
	pdf, filename, err := uc.Generate(ctx)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.True(t, strings.HasPrefix(filename, "catalogo_"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))

	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Products, 130)
	assert.Equal(t, 260, gen.got.TotalUnits)
	assert.Equal(t, 1, gen.got.TotalSuppliers)
	assert.True(t, gen.got.InventoryValue.Equal(decimal.NewFromInt(650)), "130 × 2.50 × 2")
}
