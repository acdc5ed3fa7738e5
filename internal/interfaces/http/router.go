package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/tienda-admin/internal/application/analytics"
	"github.com/jhoicas/tienda-admin/internal/application/auth"
	"github.com/jhoicas/tienda-admin/internal/application/report"
	"github.com/jhoicas/tienda-admin/internal/application/usecase"
	"github.com/jhoicas/tienda-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReportUC    *report.CatalogReportUseCase
	Cookie      CookieConfig
	AppName     string
	Env         string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	requireSession := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)
	adminOnly := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleAdmin, entity.RoleSubadmin)

	// Públicas
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	app.Get("/me", requireSession, authHandler.Me)

	// Usuarios: listar/crear/eliminar solo admin; ver/editar self o admin (lo decide el caso de uso)
	users := app.Group("/users", requireSession)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", adminOnly, userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Panel
	admin := app.Group("/admin", requireSession)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.AppName, deps.Env)
	admin.Get("/", staff, dashboardHandler.GetSummary)
	admin.Get("/system_info", adminOnly, dashboardHandler.SystemInfo)

	products := admin.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.ReportUC)
	products.Get("/", staff, productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/report", adminOnly, productHandler.Report)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	suppliers := admin.Group("/suppliers", adminOnly)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)
}
