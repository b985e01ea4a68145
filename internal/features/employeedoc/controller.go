package employeedoc

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DocumentController struct {
	Service DocumentService
}

func NewDocumentController(service DocumentService) *DocumentController {
	return &DocumentController{Service: service}
}

// UploadDocument godoc
// @Summary      Upload an employee document
// @Description  Replaces the slot's previous file when one exists
// @Tags         employee-docs
// @Accept       multipart/form-data
// @Produce      json
// @Param        employeeId formData string true "Employee ID"
// @Param        docType    formData string true "Document type"
// @Param        file       formData file   true "File to upload"
// @Success      200 {object} UploadResult
// @Failure      400 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/employee-docs [post]
func (ctrl *DocumentController) UploadDocument(c *fiber.Ctx) error {
	employeeIDRaw := c.FormValue("employeeId")
	docTypeRaw := c.FormValue("docType")

	fileHeader, err := c.FormFile("file")
	if err != nil || employeeIDRaw == "" || docTypeRaw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields (employeeId, docType, file)",
		})
	}

	employeeID, err := uuid.Parse(employeeIDRaw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employeeId",
		})
	}

	docType := DocType(docTypeRaw)
	mimeType := fileHeader.Header.Get("Content-Type")

	if err := ctrl.Service.ValidateUpload(docType, fileHeader.Filename, mimeType, fileHeader.Size); err != nil {
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

	result, err := ctrl.Service.Upload(c.Context(), UploadInput{
		EmployeeID: employeeID,
		DocType:    docType,
		FileName:   fileHeader.Filename,
		MimeType:   mimeType,
		Size:       fileHeader.Size,
		Reader:     f,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Error uploading document",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"document":   result.Document,
		"signed_url": result.SignedURL,
		"bucket":     result.Bucket,
		"path":       result.Path,
		"fileName":   result.Document.FileName,
		"mimeType":   result.Document.MimeType,
		"fileSize":   result.Document.FileSize,
	})
}

// GetDocuments godoc
// @Summary      Get an employee's documents with signed URLs
// @Tags         employee-docs
// @Produce      json
// @Param        employeeId query string true "Employee ID"
// @Success      200 {object} FetchResult
// @Router       /api/employee-docs [get]
func (ctrl *DocumentController) GetDocuments(c *fiber.Ctx) error {
	employeeIDRaw := c.Query("employeeId")
	if employeeIDRaw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing employeeId query param",
		})
	}
	employeeID, err := uuid.Parse(employeeIDRaw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employeeId",
		})
	}

	result, err := ctrl.Service.Fetch(c.Context(), employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Error querying employee documents",
			"details": err.Error(),
		})
	}
	return c.JSON(result)
}

// DeleteDocument godoc
// @Summary      Delete an employee document slot
// @Tags         employee-docs
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]bool
// @Router       /api/employee-docs [delete]
func (ctrl *DocumentController) DeleteDocument(c *fiber.Ctx) error {
	var body struct {
		EmployeeID string `json:"employeeId"`
		DocType    string `json:"docType"`
	}
	if err := c.BodyParser(&body); err != nil || body.EmployeeID == "" || body.DocType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields (employeeId, docType)",
		})
	}

	employeeID, err := uuid.Parse(body.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employeeId",
		})
	}

	deleted, err := ctrl.Service.Delete(c.Context(), employeeID, DocType(body.DocType))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Error deleting document",
			"details": err.Error(),
		})
	}
	if !deleted {
		return c.JSON(fiber.Map{"ok": true, "message": "Document did not exist"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// GetChecklist godoc
// @Summary      Required-document checklist for an employee
// @Tags         employee-docs
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {array} ChecklistItem
// @Router       /api/employees/{id}/docs/checklist [get]
func (ctrl *DocumentController) GetChecklist(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid employee id",
		})
	}

	items, err := ctrl.Service.Checklist(c.Context(), employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error building checklist",
		})
	}
	return c.JSON(items)
}

// GetPhotoURL godoc
// @Summary      Signed URL for an employee photo path
// @Tags         employee-docs
// @Produce      json
// @Param        path      query string true  "Storage path (employees.photo_url)"
// @Param        expiresIn query int    false "Expiry in seconds (clamped to config)"
// @Success      200 {object} map[string]string
// @Router       /api/employee-photo [get]
func (ctrl *DocumentController) GetPhotoURL(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing path",
		})
	}

	expiry := time.Duration(0)
	if raw := c.Query("expiresIn"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil {
			expiry = time.Duration(secs) * time.Second
		}
	}

	url, err := ctrl.Service.SignPath(c.Context(), path, expiry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Could not create signed url",
			"details": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"signedUrl": url})
}
