package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/application/usecase"
)

// ExtraHandler registro de extras diarios (protegido).
type ExtraHandler struct {
	uc *usecase.ExtraUseCase
}

// NewExtraHandler construye el handler.
func NewExtraHandler(uc *usecase.ExtraUseCase) *ExtraHandler {
	return &ExtraHandler{uc: uc}
}

// Add godoc
// @Summary      Registrar extra
// @Description  Sin price se copia el precio actual del plato.
// @Tags         extras
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddExtraRequest  true  "Extra"
// @Success      201   {object}  dto.ExtraResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/extras [post]
func (h *ExtraHandler) Add(c *fiber.Ctx) error {
	var in dto.AddExtraRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/extras?date=2026-03-10 o ?customer_id=...&from=...&to=...
func (h *ExtraHandler) List(c *fiber.Ctx) error {
	var q dto.ExtraListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Delete DELETE /api/extras/:id
func (h *ExtraHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteByDetails POST /api/extras/delete-by-details
func (h *ExtraHandler) DeleteByDetails(c *fiber.Ctx) error {
	var in dto.DeleteExtrasByDetailsRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DeleteByDetails(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
