// Package analytics contiene los casos de uso del panel de administración.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

// simulatedSales cifra agregada de marcador del panel; no existe flujo de ventas que la calcule.
var simulatedSales = decimal.RequireFromString("12345.67")

// DashboardUseCase genera el resumen de conteos del panel /admin.
type DashboardUseCase struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	users     repository.UserRepository
	printer   *message.Printer
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	users repository.UserRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		products:  products,
		suppliers: suppliers,
		users:     users,
		printer:   message.NewPrinter(language.MustParse("es-CO")),
	}
}

// GetSummary cuenta productos, proveedores y usuarios (tres consultas en paralelo).
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	productsCh := make(chan countResult, 1)
	suppliersCh := make(chan countResult, 1)
	usersCh := make(chan countResult, 1)

	go func() {
		n, err := uc.products.Count(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.suppliers.Count(ctx)
		suppliersCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.users.Count(ctx)
		usersCh <- countResult{n, err}
	}()

	products := <-productsCh
	suppliers := <-suppliersCh
	users := <-usersCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de productos: %w", products.err)
	}
	if suppliers.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de proveedores: %w", suppliers.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de usuarios: %w", users.err)
	}

	sales, _ := simulatedSales.Float64()
	return &dto.DashboardSummaryDTO{
		TotalProducts:       products.n,
		TotalSuppliers:      suppliers.n,
		TotalUsers:          users.n,
		SimulatedSales:      simulatedSales,
		SimulatedSalesLabel: uc.printer.Sprintf("$ %.2f", sales),
	}, nil
}
