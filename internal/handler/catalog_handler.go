package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"findash-api/internal/models"
	"findash-api/internal/service"
	"findash-api/internal/utils"
)

// CatalogHandler serves the reference data behind the review screen's
// dropdowns: category groups, suppliers and clients.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) GetCategoryGroups(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	groups, err := h.catalogService.CategoryGroups(companyID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve categories", err)
	}

	return utils.SuccessResponse(c, "Categories retrieved successfully", groups)
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" || req.GroupID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name and group are required", nil)
	}

	category, err := h.catalogService.CreateCategory(companyID, req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create category", err)
	}

	return utils.CreatedResponse(c, "Category created successfully", category)
}

func (h *CatalogHandler) GetSuppliers(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	suppliers, total, err := h.catalogService.Suppliers(companyID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve suppliers", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Suppliers retrieved successfully", suppliers, pagination)
}

func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.PartyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name is required", nil)
	}

	supplier, err := h.catalogService.CreateSupplier(companyID, req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create supplier", err)
	}

	return utils.CreatedResponse(c, "Supplier created successfully", supplier)
}

func (h *CatalogHandler) UpdateSupplier(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.PartyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	supplier, err := h.catalogService.UpdateSupplier(companyID, c.Params("id"), req)
	if errors.Is(err, service.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update supplier", err)
	}

	return utils.SuccessResponse(c, "Supplier updated successfully", supplier)
}

func (h *CatalogHandler) DeleteSupplier(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	err := h.catalogService.DeleteSupplier(companyID, c.Params("id"))
	if errors.Is(err, service.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete supplier", err)
	}

	return utils.SuccessResponse(c, "Supplier deleted successfully", nil)
}

func (h *CatalogHandler) GetClients(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	clients, total, err := h.catalogService.Clients(companyID, params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve clients", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Clients retrieved successfully", clients, pagination)
}

func (h *CatalogHandler) CreateClient(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.PartyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name is required", nil)
	}

	client, err := h.catalogService.CreateClient(companyID, req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create client", err)
	}

	return utils.CreatedResponse(c, "Client created successfully", client)
}

func (h *CatalogHandler) UpdateClient(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	var req models.PartyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	client, err := h.catalogService.UpdateClient(companyID, c.Params("id"), req)
	if errors.Is(err, service.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update client", err)
	}

	return utils.SuccessResponse(c, "Client updated successfully", client)
}

func (h *CatalogHandler) DeleteClient(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	err := h.catalogService.DeleteClient(companyID, c.Params("id"))
	if errors.Is(err, service.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete client", err)
	}

	return utils.SuccessResponse(c, "Client deleted successfully", nil)
}
