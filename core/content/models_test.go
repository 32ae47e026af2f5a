package content

import (
	"testing"
)

func TestNewMaterialValidate(t *testing.T) {
	tests := []struct {
		name    string
		nm      NewMaterial
		wantErr bool
	}{
		{
			name: "valid text lesson",
			nm:   NewMaterial{SectionID: "s1", Title: "Intro", SourceType: SourceText, HTML: "<p>hello</p>"},
		},
		{
			name: "valid stored file",
			nm: NewMaterial{
				SectionID: "s1", Title: "Slides", SourceType: SourceFile,
				File: &FileRef{Path: "courses/c1/slides.pdf", ContentType: "application/pdf", Size: 1024},
			},
		},
		{
			name: "valid embed",
			nm:   NewMaterial{SectionID: "s1", Title: "Video", SourceType: SourceEmbed, EmbedURL: "https://drive.google.com/file/d/abc/preview"},
		},
		{name: "missing title", nm: NewMaterial{SectionID: "s1", SourceType: SourceText, HTML: "x"}, wantErr: true},
		{name: "unknown source type", nm: NewMaterial{SectionID: "s1", Title: "t", SourceType: "blob"}, wantErr: true},
		{name: "file source without file", nm: NewMaterial{SectionID: "s1", Title: "t", SourceType: SourceFile}, wantErr: true},
		{name: "text source without html", nm: NewMaterial{SectionID: "s1", Title: "t", SourceType: SourceText}, wantErr: true},
		{name: "embed source without url", nm: NewMaterial{SectionID: "s1", Title: "t", SourceType: SourceEmbed}, wantErr: true},
		{name: "malformed embed url", nm: NewMaterial{SectionID: "s1", Title: "t", SourceType: SourceEmbed, EmbedURL: "not a url"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.nm.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewAssignmentValidate(t *testing.T) {
	attempts := 3
	badAttempts := 0
	tests := []struct {
		name    string
		na      NewAssignment
		wantErr bool
	}{
		{name: "valid", na: NewAssignment{SectionID: "s1", Title: "HW1", TotalMarks: 100, PassingMarks: 40}},
		{name: "valid with attempts", na: NewAssignment{SectionID: "s1", Title: "HW1", TotalMarks: 100, PassingMarks: 40, AttemptsAllowed: &attempts}},
		{name: "zero total marks", na: NewAssignment{SectionID: "s1", Title: "HW1", TotalMarks: 0}, wantErr: true},
		{name: "negative passing marks", na: NewAssignment{SectionID: "s1", Title: "HW1", TotalMarks: 10, PassingMarks: -1}, wantErr: true},
		{name: "passing above total", na: NewAssignment{SectionID: "s1", Title: "HW1", TotalMarks: 10, PassingMarks: 11}, wantErr: true},
		{name: "zero attempts", na: NewAssignment{SectionID: "s1", Title: "HW1", TotalMarks: 10, AttemptsAllowed: &badAttempts}, wantErr: true},
		{name: "missing section", na: NewAssignment{Title: "HW1", TotalMarks: 10}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.na.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewQuizValidate(t *testing.T) {
	tests := []struct {
		name    string
		nq      NewQuiz
		wantErr bool
	}{
		{name: "valid", nq: NewQuiz{SectionID: "s1", Title: "Quiz 1", QuizURL: "https://quiz.test/q1", DurationMinutes: 30}},
		{name: "missing url", nq: NewQuiz{SectionID: "s1", Title: "Quiz 1", DurationMinutes: 30}, wantErr: true},
		{name: "malformed url", nq: NewQuiz{SectionID: "s1", Title: "Quiz 1", QuizURL: "nope", DurationMinutes: 30}, wantErr: true},
		{name: "zero duration", nq: NewQuiz{SectionID: "s1", Title: "Quiz 1", QuizURL: "https://quiz.test/q1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.nq.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
