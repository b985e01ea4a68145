package obradoc

import (
	"errors"
	"strconv"

	"go-obra/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentController struct {
	Service DocumentService
}

func NewDocumentController(service DocumentService) *DocumentController {
	return &DocumentController{Service: service}
}

// UploadDocument godoc
// @Summary      Upload an obra document
// @Description  contract/quote uploads version the slot; other is a plain attachment
// @Tags         obra-docs
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       path     string true  "Obra ID"
// @Param        doc_type formData string true  "contract | quote | other"
// @Param        title    formData string true  "Document title"
// @Param        version  formData int    true  "Version number"
// @Param        file     formData file   true  "File to upload"
// @Success      201 {object} UploadResult
// @Failure      400 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/obras/{id}/documents [post]
func (ctrl *DocumentController) UploadDocument(c *fiber.Ctx) error {
	obraID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid obra id",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	version := 1
	if raw := c.FormValue("version"); raw != "" {
		version, err = strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "version must be a number",
			})
		}
	}

	uploadedBy := ""
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		uploadedBy = claims.UserID
	}

	in := UploadInput{
		ObraID:     obraID,
		DocType:    DocType(c.FormValue("doc_type")),
		Title:      c.FormValue("title"),
		Version:    version,
		UploadedBy: uploadedBy,
		FileName:   fileHeader.Filename,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		Size:       fileHeader.Size,
	}

	if err := ctrl.Service.ValidateUpload(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error reading uploaded file",
		})
	}
	defer f.Close()
	in.Reader = f

	result, err := ctrl.Service.Upload(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Error uploading document",
			"details": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListDocuments godoc
// @Summary      List an obra's documents
// @Description  With ?current=<doc_type>, returns only the live version of that type
// @Tags         obra-docs
// @Produce      json
// @Param        id      path  string true  "Obra ID"
// @Param        current query string false "contract | quote"
// @Success      200 {array} ObraDocument
// @Router       /api/obras/{id}/documents [get]
func (ctrl *DocumentController) ListDocuments(c *fiber.Ctx) error {
	obraID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid obra id",
		})
	}

	if docType := c.Query("current"); docType != "" {
		doc, err := ctrl.Service.Current(c.Context(), obraID, DocType(docType))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"document": doc})
	}

	docs, err := ctrl.Service.List(c.Context(), obraID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error retrieving documents",
		})
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// GetSignedURL godoc
// @Summary      Fresh signed URL for a document
// @Tags         obra-docs
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} SignedURLResult
// @Router       /api/obra-docs/{id}/signed-url [get]
func (ctrl *DocumentController) GetSignedURL(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document id",
		})
	}

	result, err := ctrl.Service.SignedURL(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Could not generate file link",
			"details": err.Error(),
		})
	}
	return c.JSON(result)
}

// DeleteDocument godoc
// @Summary      Delete an obra document (blob then row)
// @Tags         obra-docs
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} map[string]bool
// @Router       /api/obra-docs/{id} [delete]
func (ctrl *DocumentController) DeleteDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document id",
		})
	}

	if err := ctrl.Service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Error deleting document",
			"details": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}
