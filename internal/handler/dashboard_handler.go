package handler

import (
	"github.com/gofiber/fiber/v2"

	"findash-api/internal/service"
	"findash-api/internal/utils"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	companyID := c.Locals("company_id").(string)

	summary, err := h.dashboardService.Summary(c.Context(), companyID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve dashboard", err)
	}

	return utils.SuccessResponse(c, "Dashboard retrieved successfully", summary)
}
