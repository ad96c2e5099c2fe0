package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-consola/internal/application/dashboard"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// DashboardHandler sirve el tablero principal.
type DashboardHandler struct {
	reloader *dashboard.Reloader
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(reloader *dashboard.Reloader) *DashboardHandler {
	return &DashboardHandler{reloader: reloader}
}

// Get devuelve el tablero de la época vigente.
// GET /api/dashboard?fresh=true
//
// Sin fresh se reutiliza el último tablero publicado; si una notificación push
// lo invalidó se recalcula con el token del usuario. fresh recorre todos los
// movimientos: solo ADMIN y SUPERVISOR lo pueden pedir, para el resto se
// ignora. Los fallos del backend no son error: se responde con completo=false
// y lo que se pudo reunir.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	fresh := c.QueryBool("fresh") && canRefresh(GetRole(c))
	return c.JSON(h.reloader.Dashboard(c.UserContext(), fresh))
}

func canRefresh(role string) bool {
	return role == entity.RoleAdmin || role == entity.RoleSupervisor
}
