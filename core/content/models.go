package content

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Item kinds. Each kind keeps its own ordering sequence within a section;
// the three kinds are never interleaved.
const (
	KindMaterial   Kind = "material"
	KindAssignment Kind = "assignment"
	KindQuiz       Kind = "quiz"
)

// Material source types
const (
	SourceFile  SourceType = "file"
	SourceText  SourceType = "text"
	SourceEmbed SourceType = "embed"
)

type (
	Kind       string
	SourceType string

	// FileRef points at a stored object (see core.FileStore).
	FileRef struct {
		Path        string `json:"path"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}

	// ItemBase carries the attributes shared by all item kinds.
	// Order is unique within the (section, kind) pair and kept dense by the
	// reorder engine.
	ItemBase struct {
		ID          string    `json:"id"`
		SectionID   string    `json:"section_id"`
		Kind        Kind      `json:"kind"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		Order       int       `json:"order"`
		Hidden      bool      `json:"hidden"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	// Item is the uniform view over the three kinds; the container and the
	// reorder engine treat them polymorphically through it.
	Item interface {
		Base() *ItemBase
	}

	Material struct {
		ItemBase
		SourceType SourceType `json:"source_type"`
		File       *FileRef   `json:"file,omitempty"`
		HTML       string     `json:"html,omitempty"`
		EmbedURL   string     `json:"embed_url,omitempty"`
	}

	Assignment struct {
		ItemBase
		TotalMarks      int        `json:"total_marks"`
		PassingMarks    int        `json:"passing_marks"`
		DueDate         *time.Time `json:"due_date,omitempty"`
		Brief           string     `json:"brief,omitempty"`
		BriefFile       *FileRef   `json:"brief_file,omitempty"`
		AttemptsAllowed *int       `json:"attempts_allowed,omitempty"`
	}

	Quiz struct {
		ItemBase
		QuizURL         string     `json:"quiz_url"`
		DurationMinutes int        `json:"duration_minutes"`
		DueDate         *time.Time `json:"due_date,omitempty"`
	}
)

func (b *ItemBase) Base() *ItemBase { return b }

var (
	_ Item = (*Material)(nil)
	_ Item = (*Assignment)(nil)
	_ Item = (*Quiz)(nil)
)

// DueAt returns the item's own due date, if its kind carries one.
func DueAt(it Item) *time.Time {
	switch v := it.(type) {
	case *Assignment:
		return v.DueDate
	case *Quiz:
		return v.DueDate
	}
	return nil
}

// NewMaterial contains information needed to create a new Material.
// Exactly one of File, HTML or EmbedURL must be set, matching SourceType.
type NewMaterial struct {
	SectionID   string     `json:"section_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Order       int        `json:"order" validate:"gte=0"`
	SourceType  SourceType `json:"source_type" validate:"required,oneof=file text embed"`
	File        *FileRef   `json:"file"`
	HTML        string     `json:"html"`
	EmbedURL    string     `json:"embed_url" validate:"omitempty,url"`
}

func (nm *NewMaterial) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	nm.EmbedURL = core.CleanString(nm.EmbedURL)

	if err := core.Validate.Struct(nm); err != nil {
		return err
	}

	switch nm.SourceType {
	case SourceFile:
		if nm.File == nil || nm.File.Path == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a stored file is required"})
		}
	case SourceText:
		if nm.HTML == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "html", Error: "text content is required"})
		}
	case SourceEmbed:
		if nm.EmbedURL == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "embed_url", Error: "an embed URL is required"})
		}
	}
	return nil
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	SectionID       string     `json:"section_id" validate:"required"`
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description"`
	Order           int        `json:"order" validate:"gte=0"`
	TotalMarks      int        `json:"total_marks" validate:"required,gt=0"`
	PassingMarks    int        `json:"passing_marks" validate:"gte=0,ltefield=TotalMarks"`
	DueDate         *time.Time `json:"due_date"`
	Brief           string     `json:"brief"`
	BriefFile       *FileRef   `json:"brief_file"`
	AttemptsAllowed *int       `json:"attempts_allowed" validate:"omitempty,gt=0"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Brief = core.CleanString(na.Brief)
	return core.Validate.Struct(na)
}

// NewQuiz contains information needed to create a new Quiz.
type NewQuiz struct {
	SectionID       string     `json:"section_id" validate:"required"`
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description"`
	Order           int        `json:"order" validate:"gte=0"`
	QuizURL         string     `json:"quiz_url" validate:"required,url"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,gt=0"`
	DueDate         *time.Time `json:"due_date"`
}

func (nq *NewQuiz) Validate() error {
	nq.Title = core.CleanString(nq.Title)
	nq.Description = core.CleanString(nq.Description)
	nq.QuizURL = core.CleanString(nq.QuizURL)
	return core.Validate.Struct(nq)
}

// UpdateItem defines the shared fields that may be modified on any item kind.
type UpdateItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (ui *UpdateItem) Validate() error {
	ui.Title = core.CleanString(ui.Title)
	ui.Description = core.CleanString(ui.Description)
	return core.Validate.Struct(ui)
}
