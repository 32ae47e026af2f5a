package course

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Section is an ordered grouping of content items within one course.
// Order is unique within the course.
type Section struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSection contains information needed to create a new Section.
type NewSection struct {
	CourseID    string `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
}

func (ns *NewSection) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	ns.Description = core.CleanString(ns.Description)
	return core.Validate.Struct(ns)
}

// UpdateSection defines what information may be provided to modify an existing Section.
type UpdateSection struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Order       *int   `json:"order" validate:"omitempty,gte=0"`
}

func (us *UpdateSection) Validate() error {
	us.Title = core.CleanString(us.Title)
	us.Description = core.CleanString(us.Description)
	return core.Validate.Struct(us)
}
