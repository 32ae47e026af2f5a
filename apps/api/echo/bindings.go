package echoapi

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	NewCourseRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
	}

	// ReorderRequest moves one item of a section's kind sequence from one
	// position to another; both indexes refer to the current arrangement.
	ReorderRequest struct {
		ItemID    string `json:"item_id" validate:"required"`
		FromIndex *int   `json:"from_index" validate:"required,gte=0"`
		ToIndex   *int   `json:"to_index" validate:"required,gte=0"`
	}

	HiddenRequest struct {
		Hidden *bool `json:"hidden" validate:"required"`
	}

	DeadlineOverrideRequest struct {
		UserID   string    `json:"user_id" validate:"required"`
		Deadline time.Time `json:"deadline" validate:"required"`
	}

	EffectiveDeadlineResponse struct {
		ItemID   string     `json:"item_id"`
		UserID   string     `json:"user_id"`
		Deadline *time.Time `json:"deadline"`
	}

	CertificateIssuedResponse struct {
		ID       string    `json:"id"`
		Number   string    `json:"number"`
		CourseID string    `json:"course_id"`
		IssuedAt time.Time `json:"issued_at"`
		Issued   bool      `json:"issued"` // false when it had already been claimed
	}
)

func (r *LoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return core.Validate.Struct(r)
}

func (r *NewCourseRequest) Validate() error {
	r.Title = core.CleanString(r.Title)
	r.Description = core.CleanString(r.Description)
	return core.Validate.Struct(r)
}

func (r *ReorderRequest) Validate() error {
	return core.Validate.Struct(r)
}

func (r *HiddenRequest) Validate() error {
	return core.Validate.Struct(r)
}

func (r *DeadlineOverrideRequest) Validate() error {
	return core.Validate.Struct(r)
}
