package obradoc

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

	app.Post("/api/obras/:id/documents", auth, h.controller.UploadDocument)
	app.Get("/api/obras/:id/documents", auth, h.controller.ListDocuments)
	app.Get("/api/obra-docs/:id/signed-url", auth, h.controller.GetSignedURL)
	app.Delete("/api/obra-docs/:id", auth, h.controller.DeleteDocument)
}
