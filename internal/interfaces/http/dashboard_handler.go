package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/tienda-admin/internal/application/analytics"
	"github.com/jhoicas/tienda-admin/internal/application/dto"
)

// DashboardHandler maneja el panel /admin.
type DashboardHandler struct {
	uc      *appanalytics.DashboardUseCase
	appName string
	env     string
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, appName, env string) *DashboardHandler {
	return &DashboardHandler{uc: uc, appName: appName, env: env}
}

// GetSummary devuelve los conteos del panel. GET /admin
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// SystemInfo resumen más datos del despliegue. GET /admin/system_info (solo admin)
func (h *DashboardHandler) SystemInfo(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SystemInfoDTO{
		DashboardSummaryDTO: *summary,
		AppName:             h.appName,
		Env:                 h.env,
	})
}
