package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"findash-api/internal/models"
	"findash-api/internal/service"
	"findash-api/internal/utils"
)

type EntryHandler struct {
	entryService     *service.EntryService
	dashboardService *service.DashboardService
}

func NewEntryHandler(entryService *service.EntryService, dashboardService *service.DashboardService) *EntryHandler {
	return &EntryHandler{
		entryService:     entryService,
		dashboardService: dashboardService,
	}
}

func (h *EntryHandler) GetEntries(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	entries, total, err := h.entryService.List(companyID, c.Query("type"), c.Query("status"), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve entries", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Entries retrieved successfully", entries, pagination)
}

func (h *EntryHandler) GetEntry(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	entry, err := h.entryService.Get(companyID, c.Params("id"))
	if errors.Is(err, service.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve entry", err)
	}

	return utils.SuccessResponse(c, "Entry retrieved successfully", entry)
}

func (h *EntryHandler) CreateEntry(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	entry, err := h.entryService.Create(companyID, req)
	if errors.Is(err, service.ErrInvalidEntryType) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Type must be PAYABLE or RECEIVABLE", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to create entry", err)
	}

	h.dashboardService.Invalidate(c.Context(), companyID)
	return utils.CreatedResponse(c, "Entry created successfully", entry)
}

func (h *EntryHandler) MarkPaid(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	entry, err := h.entryService.MarkPaid(companyID, c.Params("id"))
	if errors.Is(err, service.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update entry", err)
	}

	h.dashboardService.Invalidate(c.Context(), companyID)
	return utils.SuccessResponse(c, "Entry marked as paid", entry)
}
