package employeedoc

import (
	"go-obra/internal/config"
	"go-obra/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller *DocumentController
	config     *config.Config
}

func NewDocumentApi(controller *DocumentController, config *config.Config) *DocumentApi {
	return &DocumentApi{
		controller: controller,
		config:     config,
	}
}

func (h *DocumentApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Post("/api/employee-docs", auth, h.controller.UploadDocument)
	app.Get("/api/employee-docs", auth, h.controller.GetDocuments)
	app.Delete("/api/employee-docs", auth, h.controller.DeleteDocument)
	app.Get("/api/employees/:id/docs/checklist", auth, h.controller.GetChecklist)
	app.Get("/api/employee-photo", auth, h.controller.GetPhotoURL)
}
