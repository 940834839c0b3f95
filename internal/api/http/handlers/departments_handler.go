package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/incidentia/helpdesk/internal/api/dto"
	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/service"
	apperrors "github.com/incidentia/helpdesk/pkg/util"
)

// DepartmentsHandler manages department endpoints.
type DepartmentsHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentsHandler constructs the handler.
func NewDepartmentsHandler(departments *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// Create POST /departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.departments.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	departments, total, err := h.departments.List(c.UserContext(), c.Query("search"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

// Get GET /departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.departments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// Update PUT /departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.departments.Update(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// Delete DELETE /departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.departments.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		CreatedAt: dept.CreatedAt,
		UpdatedAt: dept.UpdatedAt,
	}
}
