package obra

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ObraController struct {
	Service ObraService
}

func NewObraController(service ObraService) *ObraController {
	return &ObraController{Service: service}
}

// ListObras godoc
// @Summary      List obras
// @Tags         obras
// @Produce      json
// @Success      200 {array} ObraView
// @Router       /api/obras [get]
func (ctrl *ObraController) ListObras(c *fiber.Ctx) error {
	obras, err := ctrl.Service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving obras",
		})
	}
	return c.JSON(obras)
}

// GetObra godoc
// @Summary      Get an obra by ID
// @Tags         obras
// @Produce      json
// @Param        id path string true "Obra ID"
// @Success      200 {object} ObraView
// @Router       /api/obras/{id} [get]
func (ctrl *ObraController) GetObra(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid obra id",
		})
	}

	o, err := ctrl.Service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Obra not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving obra",
		})
	}
	return c.JSON(o)
}

// CreateObra godoc
// @Summary      Create an obra
// @Tags         obras
// @Accept       json
// @Produce      json
// @Success      201 {object} Obra
// @Router       /api/obras [post]
func (ctrl *ObraController) CreateObra(c *fiber.Ctx) error {
	var o Obra
	if err := c.BodyParser(&o); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Create(c.Context(), &o); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

// UpdateObra godoc
// @Summary      Update an obra
// @Tags         obras
// @Accept       json
// @Produce      json
// @Param        id path string true "Obra ID"
// @Success      200 {object} Obra
// @Router       /api/obras/{id} [put]
func (ctrl *ObraController) UpdateObra(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid obra id",
		})
	}

	var o Obra
	if err := c.BodyParser(&o); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	o.ID = id

	if err := ctrl.Service.Update(c.Context(), &o); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(o)
}

// DeleteObra godoc
// @Summary      Delete an obra
// @Tags         obras
// @Param        id path string true "Obra ID"
// @Success      200 {object} map[string]bool
// @Router       /api/obras/{id} [delete]
func (ctrl *ObraController) DeleteObra(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid obra id",
		})
	}

	if err := ctrl.Service.Delete(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error deleting obra",
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}
