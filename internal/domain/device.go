package domain

import "time"

// DeviceType classifies devices (printer, workstation, ...). Codes are
// unique.
type DeviceType struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Device is a physical asset tickets can reference. Names are unique.
type Device struct {
	ID           string
	Name         string
	DeviceTypeID string
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
