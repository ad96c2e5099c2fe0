package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/usecase"
)

// MovementHandler listados y registro de movimientos.
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Listar movimientos
// @Description  Con all=true recorre todas las páginas del backend; completo=false indica un recorrido cortado.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        q     query  string  false  "Filtro por nombre de producto"
// @Param        page  query  int     false  "Página (base cero)"
// @Param        size  query  int     false  "Tamaño de página"
// @Param        all   query  bool    false  "Acumular todas las páginas"
// @Success      200   {object}  dto.MovementListResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	q := c.Query("q")
	if c.QueryBool("all") {
		return c.JSON(h.uc.All(c.UserContext(), q))
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "page y size deben ser numéricos"})
	}
	if verr := validateStruct(page); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verr)
	}
	out, err := h.uc.List(c.UserContext(), q, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar movimiento
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "tipo, productoId, cantidad"
// @Success      201   {object}  entity.Movement
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if verr := validateStruct(in); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verr)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
