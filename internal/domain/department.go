package domain

import "time"

// Department represents an organizational unit tickets belong to.
// Names are unique.
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
