package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /admin.
type DashboardSummaryDTO struct {
	TotalProducts  int `json:"total_products"`
	TotalSuppliers int `json:"total_suppliers"`
	TotalUsers     int `json:"total_users"`

	// Cifra de ventas de marcador: no hay flujo de checkout que la alimente.
	SimulatedSales      decimal.Decimal `json:"simulated_sales"`
	SimulatedSalesLabel string          `json:"simulated_sales_label"` // ej: "$ 12.345,67"
}

// SystemInfoDTO respuesta de GET /admin/system_info (solo admin).
type SystemInfoDTO struct {
	DashboardSummaryDTO
	AppName string `json:"app_name"`
	Env     string `json:"env"`
}
