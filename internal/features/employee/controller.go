package employee

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeController struct {
	Service EmployeeService
}

func NewEmployeeController(service EmployeeService) *EmployeeController {
	return &EmployeeController{Service: service}
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Success      200 {array} Employee
// @Router       /api/employees [get]
func (ctrl *EmployeeController) ListEmployees(c *fiber.Ctx) error {
	emps, err := ctrl.Service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving employees",
		})
	}
	return c.JSON(emps)
}

// GetEmployee godoc
// @Summary      Get an employee by ID
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} Employee
// @Router       /api/employees/{id} [get]
func (ctrl *EmployeeController) GetEmployee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee id",
		})
	}

	emp, err := ctrl.Service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Employee not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving employee",
		})
	}
	return c.JSON(emp)
}

// CreateEmployee godoc
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Success      201 {object} Employee
// @Router       /api/employees [post]
func (ctrl *EmployeeController) CreateEmployee(c *fiber.Ctx) error {
	var emp Employee
	if err := c.BodyParser(&emp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.Create(c.Context(), &emp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(emp)
}

// UpdateEmployee godoc
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} Employee
// @Router       /api/employees/{id} [put]
func (ctrl *EmployeeController) UpdateEmployee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee id",
		})
	}

	var emp Employee
	if err := c.BodyParser(&emp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	emp.ID = id

	if err := ctrl.Service.Update(c.Context(), &emp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(emp)
}

// DeleteEmployee godoc
// @Summary      Delete an employee
// @Tags         employees
// @Param        id path string true "Employee ID"
// @Success      200 {object} map[string]bool
// @Router       /api/employees/{id} [delete]
func (ctrl *EmployeeController) DeleteEmployee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee id",
		})
	}

	if err := ctrl.Service.Delete(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error deleting employee",
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}
