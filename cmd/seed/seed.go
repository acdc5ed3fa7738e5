package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-admin/internal/application/dto"
	"github.com/jhoicas/tienda-admin/internal/application/usecase"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
)

var demoSuppliers = []dto.CreateSupplierRequest{
	{Name: "ZEN", ContactPerson: "Mateo Sch", Phone: "099504587"},
	{Name: "Death Row", ContactPerson: "María López", Phone: "0998765432", Email: "dentis@colem.med"},
	{Name: "Solaris Colombia", ContactPerson: "Carlos Ruiz", Phone: "0997654321", Email: "solarosc@geb.co"},
}

// demoProduct producto de ejemplo; supplier es el nombre del proveedor ("" = sin proveedor).
type demoProduct struct {
	name, description, price string
	stock                    int
	supplier                 string
}

var demoProducts = []demoProduct{
	{"Laptop HP", "Laptop de alto rendimiento", "899.99", 15, "ZEN"},
	{"Mouse Logitech", "Mouse inalámbrico", "29.99", 50, "ZEN"},
	{"Teclado Mecánico", "Teclado RGB", "79.99", 30, "Death Row"},
	{"Monitor Samsung 24\"", "Monitor Full HD", "199.99", 20, "Death Row"},
	{"Auriculares Sony", "Auriculares con cancelación de ruido", "149.99", 25, ""},
}

// seedResult cuántos registros se crearon en cada tabla.
type seedResult struct {
	Suppliers int
	Products  int
}

// seed crea proveedores y productos de demostración. Cada tabla se siembra solo si está vacía,
// así que se puede ejecutar varias veces.
func seed(ctx context.Context, supplierRepo repository.SupplierRepository, productRepo repository.ProductRepository,
	suppliers *usecase.SupplierUseCase, products *usecase.ProductUseCase) (seedResult, error) {
	var res seedResult

	n, err := supplierRepo.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("contar proveedores: %w", err)
	}
	if n == 0 {
		for _, in := range demoSuppliers {
			if _, err := suppliers.Create(ctx, in); err != nil {
				return res, fmt.Errorf("crear proveedor %s: %w", in.Name, err)
			}
			res.Suppliers++
		}
	}

	n, err = productRepo.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("contar productos: %w", err)
	}
	if n > 0 {
		return res, nil
	}

	ids, err := supplierIDsByName(ctx, suppliers)
	if err != nil {
		return res, err
	}
	for _, p := range demoProducts {
		in := dto.CreateProductRequest{
			Name:        p.name,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			Stock:       p.stock,
			SupplierID:  ids[p.supplier], // proveedor ausente = producto sin proveedor
		}
		if _, err := products.Create(ctx, in); err != nil {
			return res, fmt.Errorf("crear producto %s: %w", p.name, err)
		}
		res.Products++
	}
	return res, nil
}

func supplierIDsByName(ctx context.Context, suppliers *usecase.SupplierUseCase) (map[string]string, error) {
	ids := make(map[string]string)
	for offset := 0; ; offset += 100 {
		page, err := suppliers.List(ctx, 100, offset)
		if err != nil {
			return nil, fmt.Errorf("listar proveedores: %w", err)
		}
		for _, s := range page.Items {
			ids[s.Name] = s.ID
		}
		if len(page.Items) < 100 {
			return ids, nil
		}
	}
}
