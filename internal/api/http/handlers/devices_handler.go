package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/incidentia/helpdesk/internal/api/dto"
	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/service"
	apperrors "github.com/incidentia/helpdesk/pkg/util"
)

// DevicesHandler manages device and device-type endpoints.
type DevicesHandler struct {
	devices *service.DeviceService
}

// NewDevicesHandler constructs the handler.
func NewDevicesHandler(devices *service.DeviceService) *DevicesHandler {
	return &DevicesHandler{devices: devices}
}

// CreateDevice POST /devices.
func (h *DevicesHandler) CreateDevice(c *fiber.Ctx) error {
	var req dto.DeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	device, err := h.devices.CreateDevice(c.UserContext(), service.DeviceInput{
		Name:         req.Name,
		DeviceTypeID: req.DeviceTypeID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": deviceResponse(device)})
}

// ListDevices GET /devices.
func (h *DevicesHandler) ListDevices(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	devices, total, err := h.devices.ListDevices(c.UserContext(), c.Query("search"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.DeviceResponse, 0, len(devices))
	for i := range devices {
		items = append(items, deviceResponse(&devices[i]))
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

// GetDevice GET /devices/:id.
func (h *DevicesHandler) GetDevice(c *fiber.Ctx) error {
	device, err := h.devices.GetDevice(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceResponse(device)})
}

// UpdateDevice PUT /devices/:id.
func (h *DevicesHandler) UpdateDevice(c *fiber.Ctx) error {
	var req dto.DeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	device, err := h.devices.UpdateDevice(c.UserContext(), c.Params("id"), service.DeviceInput{
		Name:         req.Name,
		DeviceTypeID: req.DeviceTypeID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceResponse(device)})
}

// DeleteDevice DELETE /devices/:id.
func (h *DevicesHandler) DeleteDevice(c *fiber.Ctx) error {
	if err := h.devices.DeleteDevice(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateDeviceType POST /device-types.
func (h *DevicesHandler) CreateDeviceType(c *fiber.Ctx) error {
	var req dto.DeviceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dt, err := h.devices.CreateDeviceType(c.UserContext(), service.DeviceTypeInput{Name: req.Name, Code: req.Code})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": deviceTypeResponse(dt)})
}

// ListDeviceTypes GET /device-types.
func (h *DevicesHandler) ListDeviceTypes(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	types, total, err := h.devices.ListDeviceTypes(c.UserContext(), c.Query("search"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.DeviceTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, deviceTypeResponse(&types[i]))
	}
	return c.JSON(fiber.Map{"data": items, "count": total})
}

// GetDeviceType GET /device-types/:id.
func (h *DevicesHandler) GetDeviceType(c *fiber.Ctx) error {
	dt, err := h.devices.GetDeviceType(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceTypeResponse(dt)})
}

// UpdateDeviceType PUT /device-types/:id.
func (h *DevicesHandler) UpdateDeviceType(c *fiber.Ctx) error {
	var req dto.DeviceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dt, err := h.devices.UpdateDeviceType(c.UserContext(), c.Params("id"), service.DeviceTypeInput{Name: req.Name, Code: req.Code})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": deviceTypeResponse(dt)})
}

// DeleteDeviceType DELETE /device-types/:id.
func (h *DevicesHandler) DeleteDeviceType(c *fiber.Ctx) error {
	if err := h.devices.DeleteDeviceType(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func deviceResponse(device *domain.Device) dto.DeviceResponse {
	return dto.DeviceResponse{
		ID:           device.ID,
		Name:         device.Name,
		DeviceTypeID: device.DeviceTypeID,
		DepartmentID: device.DepartmentID,
		CreatedAt:    device.CreatedAt,
		UpdatedAt:    device.UpdatedAt,
	}
}

func deviceTypeResponse(dt *domain.DeviceType) dto.DeviceTypeResponse {
	return dto.DeviceTypeResponse{
		ID:        dt.ID,
		Name:      dt.Name,
		Code:      dt.Code,
		CreatedAt: dt.CreatedAt,
		UpdatedAt: dt.UpdatedAt,
	}
}
