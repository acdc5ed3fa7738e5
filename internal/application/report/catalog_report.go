// Package report genera el reporte imprimible del catálogo de productos.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-admin/internal/domain/entity"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

const reportPageSize = 100

// CatalogReport datos ya agregados que recibe el generador de PDF.
type CatalogReport struct {
	GeneratedAt    time.Time
	Products       []*entity.Product
	TotalSuppliers int
	TotalUnits     int
	InventoryValue decimal.Decimal // Σ price × stock
}

// CatalogPDFGenerator puerto del generador; lo implementa infrastructure/pdf.
type CatalogPDFGenerator interface {
	GenerateCatalogPDF(ctx context.Context, report *CatalogReport) ([]byte, error)
}

// CatalogReportUseCase recorre el catálogo completo y produce el PDF.
type CatalogReportUseCase struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	generator CatalogPDFGenerator
}

// NewCatalogReportUseCase construye el caso de uso.
func NewCatalogReportUseCase(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	generator CatalogPDFGenerator,
) *CatalogReportUseCase {
	return &CatalogReportUseCase{products: products, suppliers: suppliers, generator: generator}
}

// Build agrega el catálogo sin generar el PDF.
func (uc *CatalogReportUseCase) Build(ctx context.Context) (*CatalogReport, error) {
	rep := &CatalogReport{GeneratedAt: time.Now(), InventoryValue: decimal.Zero}
	for offset := 0; ; offset += reportPageSize {
		page, err := uc.products.List(ctx, reportPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("reporte: listar productos: %w", err)
		}
		for _, p := range page {
			rep.Products = append(rep.Products, p)
			rep.TotalUnits += p.Stock
			rep.InventoryValue = rep.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
		if len(page) < reportPageSize {
			break
		}
	}
	n, err := uc.suppliers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: contar proveedores: %w", err)
	}
	rep.TotalSuppliers = n
	return rep, nil
}

// Generate devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *CatalogReportUseCase) Generate(ctx context.Context) ([]byte, string, error) {
	rep, err := uc.Build(ctx)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateCatalogPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("catalogo_%s.pdf", rep.GeneratedAt.Format("20060102"))
	return pdf, filename, nil
}
