package dto

import "time"

// DepartmentRequest is the department create/update payload.
type DepartmentRequest struct {
	Name string `json:"name"`
}

// DepartmentResponse is the wire form of a department.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeviceTypeRequest is the device-type create/update payload.
type DeviceTypeRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// DeviceTypeResponse is the wire form of a device type.
type DeviceTypeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeviceRequest is the device create/update payload.
type DeviceRequest struct {
	Name         string  `json:"name"`
	DeviceTypeID string  `json:"device_type_id"`
	DepartmentID *string `json:"department_id"`
}

// DeviceResponse is the wire form of a device.
type DeviceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DeviceTypeID string    `json:"device_type_id"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
