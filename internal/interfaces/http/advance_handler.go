package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/application/usecase"
)

// AdvanceHandler anticipos de clientes (protegido).
type AdvanceHandler struct {
	uc *usecase.AdvanceUseCase
}

// NewAdvanceHandler construye el handler.
func NewAdvanceHandler(uc *usecase.AdvanceUseCase) *AdvanceHandler {
	return &AdvanceHandler{uc: uc}
}

// Add POST /api/advances
func (h *AdvanceHandler) Add(c *fiber.Ctx) error {
	var in dto.AddAdvanceRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/advances?customer_id=...&year=2026
func (h *AdvanceHandler) List(c *fiber.Ctx) error {
	var q dto.AdvanceListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Delete DELETE /api/advances/:id
func (h *AdvanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
