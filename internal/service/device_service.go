package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

// DeviceService manages devices and device types.
type DeviceService struct {
	devices     repository.DeviceRepository
	deviceTypes repository.DeviceTypeRepository
}

// NewDeviceService constructs the service.
func NewDeviceService(devices repository.DeviceRepository, deviceTypes repository.DeviceTypeRepository) *DeviceService {
	return &DeviceService{devices: devices, deviceTypes: deviceTypes}
}

// DeviceInput describes device create/update payloads.
type DeviceInput struct {
	Name         string
	DeviceTypeID string
	DepartmentID *string
}

// CreateDevice adds a device with a unique name.
func (s *DeviceService) CreateDevice(ctx context.Context, input DeviceInput) (*domain.Device, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.DeviceTypeID == "" {
		return nil, util.NewValidationError("name and device_type_id are required", nil)
	}
	device := &domain.Device{
		Name:         name,
		DeviceTypeID: input.DeviceTypeID,
		DepartmentID: input.DepartmentID,
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, mapDeviceWriteError(err, name)
	}
	return device, nil
}

// GetDevice fetches a device by id.
func (s *DeviceService) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	device, err := s.devices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("device", map[string]any{"id": id})
		}
		return nil, err
	}
	return device, nil
}

// ListDevices returns a page of devices plus the total matching count.
func (s *DeviceService) ListDevices(ctx context.Context, search string, limit, offset int) ([]domain.Device, int64, error) {
	return s.devices.List(ctx, search, limit, offset)
}

// UpdateDevice applies a device update.
func (s *DeviceService) UpdateDevice(ctx context.Context, id string, input DeviceInput) (*domain.Device, error) {
	device, err := s.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.DeviceTypeID == "" {
		return nil, util.NewValidationError("name and device_type_id are required", nil)
	}
	device.Name = name
	device.DeviceTypeID = input.DeviceTypeID
	device.DepartmentID = input.DepartmentID
	if err := s.devices.Update(ctx, device); err != nil {
		return nil, mapDeviceWriteError(err, name)
	}
	return device, nil
}

// DeleteDevice removes a device; devices referenced by tickets surface a
// conflict.
func (s *DeviceService) DeleteDevice(ctx context.Context, id string) error {
	if err := s.devices.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("device", map[string]any{"id": id})
		}
		if _, ok := util.IsForeignKeyViolation(err); ok {
			return util.NewConflict("device is still referenced", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// DeviceTypeInput describes device-type create/update payloads.
type DeviceTypeInput struct {
	Name string
	Code string
}

// CreateDeviceType adds a device type with a unique code.
func (s *DeviceService) CreateDeviceType(ctx context.Context, input DeviceTypeInput) (*domain.DeviceType, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	if name == "" || code == "" {
		return nil, util.NewValidationError("name and code are required", nil)
	}
	dt := &domain.DeviceType{Name: name, Code: code}
	if err := s.deviceTypes.Create(ctx, dt); err != nil {
		if _, ok := util.IsUniqueViolation(err); ok {
			return nil, util.NewConflict("device type code already exists", map[string]any{"code": code})
		}
		return nil, err
	}
	return dt, nil
}

// GetDeviceType fetches a device type by id.
func (s *DeviceService) GetDeviceType(ctx context.Context, id string) (*domain.DeviceType, error) {
	dt, err := s.deviceTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("device type", map[string]any{"id": id})
		}
		return nil, err
	}
	return dt, nil
}

// ListDeviceTypes returns a page of device types plus the total count.
func (s *DeviceService) ListDeviceTypes(ctx context.Context, search string, limit, offset int) ([]domain.DeviceType, int64, error) {
	return s.deviceTypes.List(ctx, search, limit, offset)
}

// UpdateDeviceType applies a device-type update.
func (s *DeviceService) UpdateDeviceType(ctx context.Context, id string, input DeviceTypeInput) (*domain.DeviceType, error) {
	dt, err := s.GetDeviceType(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	if name == "" || code == "" {
		return nil, util.NewValidationError("name and code are required", nil)
	}
	dt.Name = name
	dt.Code = code
	if err := s.deviceTypes.Update(ctx, dt); err != nil {
		if _, ok := util.IsUniqueViolation(err); ok {
			return nil, util.NewConflict("device type code already exists", map[string]any{"code": code})
		}
		return nil, err
	}
	return dt, nil
}

// DeleteDeviceType removes a device type; types still referenced by
// devices surface a conflict.
func (s *DeviceService) DeleteDeviceType(ctx context.Context, id string) error {
	if err := s.deviceTypes.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("device type", map[string]any{"id": id})
		}
		if _, ok := util.IsForeignKeyViolation(err); ok {
			return util.NewConflict("device type is still referenced", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func mapDeviceWriteError(err error, name string) error {
	if _, ok := util.IsUniqueViolation(err); ok {
		return util.NewConflict("device name already exists", map[string]any{"name": name})
	}
	if constraint, ok := util.IsForeignKeyViolation(err); ok {
		return util.NewValidationError("invalid reference", map[string]any{"reference": constraint})
	}
	return err
}
