package obra

import (
	"go-obra/internal/config"
	"go-obra/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ObraApi struct {
	controller *ObraController
	config     *config.Config
}

func NewObraApi(controller *ObraController, config *config.Config) *ObraApi {
	return &ObraApi{
		controller: controller,
		config:     config,
	}
}

func (h *ObraApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Get("/api/obras", auth, h.controller.ListObras)
	app.Post("/api/obras", auth, h.controller.CreateObra)
	app.Get("/api/obras/:id", auth, h.controller.GetObra)
	app.Put("/api/obras/:id", auth, h.controller.UpdateObra)
	app.Delete("/api/obras/:id", auth, h.controller.DeleteObra)
}
