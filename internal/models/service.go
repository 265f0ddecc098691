package models

import "time"

// Service is a catalogued offering (cleaning, maintenance, ...). Records are
// never physically removed: Deleted marks them out of default queries.
type Service struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
	Deleted     bool      `json:"deleted" yaml:"deleted"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

type ServiceCategory struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}
