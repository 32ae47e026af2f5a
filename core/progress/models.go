package progress

import (
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
)

// Submission statuses
const (
	StatusSubmitted = "submitted"
	StatusGraded    = "graded"
)

type (
	// CompletionRecord marks one item complete for one user. It carries the
	// item foreign key so completion state survives a reload from another
	// session. Append-only.
	CompletionRecord struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		CourseID    string    `json:"course_id"`
		ItemID      string    `json:"item_id"`
		CompletedAt time.Time `json:"completed_at"`
	}

	// Submission is a student's uploaded answer to an assignment.
	// One submission exists per (assignment, user); only the grading fields
	// mutate after creation.
	Submission struct {
		ID            string          `json:"id"`
		AssignmentID  string          `json:"assignment_id"`
		UserID        string          `json:"user_id"`
		File          content.FileRef `json:"file"`
		SubmittedAt   time.Time       `json:"submitted_at"`
		Status        string          `json:"status"`
		MarksObtained *int            `json:"marks_obtained,omitempty"`
		GradedAt      *time.Time      `json:"graded_at,omitempty"`
		Feedback      string          `json:"feedback,omitempty"`
	}

	// Certificate is the completion artifact issued once a user reaches 100%
	// progress in a course.
	Certificate struct {
		ID       string    `json:"id"`
		UserID   string    `json:"user_id"`
		CourseID string    `json:"course_id"`
		Number   string    `json:"number"`
		IssuedAt time.Time `json:"issued_at"`
	}

	SectionProgress struct {
		Completed int `json:"completed"`
		Total     int `json:"total"`
	}

	Progress struct {
		CourseID   string                     `json:"course_id"`
		UserID     string                     `json:"user_id"`
		Completed  int                        `json:"completed"`
		Total      int                        `json:"total"`
		Percent    int                        `json:"percent"`
		PerSection map[string]SectionProgress `json:"per_section"`
	}
)

// NewSubmission contains information needed to submit an assignment.
type NewSubmission struct {
	AssignmentID string          `json:"assignment_id" validate:"required"`
	UserID       string          `json:"user_id" validate:"required"`
	File         content.FileRef `json:"file"`
}

func (ns *NewSubmission) Validate() error {
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	if ns.File.Path == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "an uploaded file is required"})
	}
	return nil
}

// GradeSubmission defines the grading fields an admin may set on a Submission.
type GradeSubmission struct {
	MarksObtained int    `json:"marks_obtained" validate:"gte=0"`
	Feedback      string `json:"feedback"`
}

func (gs *GradeSubmission) Validate(totalMarks int) error {
	gs.Feedback = core.CleanString(gs.Feedback)
	if err := core.Validate.Struct(gs); err != nil {
		return err
	}
	if gs.MarksObtained > totalMarks {
		return core.NewValidationError(nil, core.FieldError{Field: "marks_obtained", Error: "marks exceed the assignment total"})
	}
	return nil
}
