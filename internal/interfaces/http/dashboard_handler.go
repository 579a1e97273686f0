package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/tiffin-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del panel.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve los indicadores del día.
// GET /api/dashboard/stats
//
// Respuesta: DashboardStats (clientes, platos, extras de hoy y cobros pendientes).
// Sin parámetros; "hoy" se calcula en el servidor con la zona de facturación.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
