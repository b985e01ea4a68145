package employee

import (
	"go-obra/internal/config"
	"go-obra/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmployeeApi struct {
	controller *EmployeeController
	config     *config.Config
}

func NewEmployeeApi(controller *EmployeeController, config *config.Config) *EmployeeApi {
	return &EmployeeApi{
		controller: controller,
		config:     config,
	}
}

func (h *EmployeeApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Get("/api/employees", auth, h.controller.ListEmployees)
	app.Post("/api/employees", auth, h.controller.CreateEmployee)
	app.Get("/api/employees/:id", auth, h.controller.GetEmployee)
	app.Put("/api/employees/:id", auth, h.controller.UpdateEmployee)
	app.Delete("/api/employees/:id", auth, h.controller.DeleteEmployee)
}
