package handler

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"findash-api/internal/models"
	"findash-api/internal/parser"
	"findash-api/internal/service"
	"findash-api/internal/utils"
)

type ImportHandler struct {
	importService *service.ImportService
	excelService  *service.ExcelService
}

func NewImportHandler(importService *service.ImportService, excelService *service.ExcelService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		excelService:  excelService,
	}
}

// Upload receives the statement file and creates a PENDING_REVIEW session.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read file", err)
	}

	session, err := h.importService.Upload(companyID, userID, filepath.Base(file.Filename), data)
	if err != nil {
		return h.mapImportError(c, err, "Failed to import file")
	}

	return utils.CreatedResponse(c, "Statement imported for review", session)
}

func (h *ImportHandler) List(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	summaries, err := h.importService.List(companyID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve imports", err)
	}

	return utils.SuccessResponse(c, "Imports retrieved successfully", summaries)
}

func (h *ImportHandler) Get(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	session, err := h.importService.Get(companyID, c.Params("id"))
	if err != nil {
		return h.mapImportError(c, err, "Failed to retrieve import")
	}

	return utils.SuccessResponse(c, "Import retrieved successfully", session)
}

func (h *ImportHandler) UpdateItem(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.UpdateImportItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	item, err := h.importService.UpdateItem(companyID, c.Params("id"), c.Params("itemId"), req)
	if err != nil {
		return h.mapImportError(c, err, "Failed to update item")
	}

	return utils.SuccessResponse(c, "Item updated successfully", item)
}

func (h *ImportHandler) UpdateItemsBatch(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.BatchUpdateImportItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	items, err := h.importService.UpdateItemsBatch(companyID, c.Params("id"), req)
	if err != nil {
		return h.mapImportError(c, err, "Failed to update items")
	}

	return utils.SuccessResponse(c, "Items updated successfully", items)
}

func (h *ImportHandler) Confirm(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	if err := h.importService.Confirm(companyID, c.Params("id")); err != nil {
		return h.mapImportError(c, err, "Failed to confirm import")
	}

	return utils.SuccessResponse(c, "Import confirmed successfully", nil)
}

func (h *ImportHandler) Cancel(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	if err := h.importService.Cancel(companyID, c.Params("id")); err != nil {
		return h.mapImportError(c, err, "Failed to cancel import")
	}

	return utils.SuccessResponse(c, "Import cancelled successfully", nil)
}

// Export streams the session items as a spreadsheet.
func (h *ImportHandler) Export(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	session, err := h.importService.Get(companyID, c.Params("id"))
	if err != nil {
		return h.mapImportError(c, err, "Failed to retrieve import")
	}

	f, err := h.excelService.ExportImport(session)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export data", err)
	}
	defer f.Close()

	fileName := h.excelService.ExportFileName(session)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)

	return f.Write(c.Response().BodyWriter())
}

// DownloadTemplate serves the CSV layout the upload endpoint accepts.
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="import_template.csv"`)
	return c.SendString(parser.Template)
}

func (h *ImportHandler) mapImportError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import not found", err)
	case errors.Is(err, service.ErrSessionNotEditable):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Import is already confirmed or cancelled", err)
	case errors.Is(err, service.ErrIncompleteClassification):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "All items need a counterparty and a category", err)
	case errors.Is(err, service.ErrFileTooLarge):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", err)
	case errors.Is(err, service.ErrInvalidEntryType),
		errors.Is(err, parser.ErrUnsupportedFormat),
		errors.Is(err, parser.ErrUnrecognizedCSV),
		errors.Is(err, parser.ErrEmptyStatement):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, fallback, err)
	}
}
