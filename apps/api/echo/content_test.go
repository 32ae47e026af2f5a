package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
)

func (fix *fixture) makeSection(t *testing.T) course.Section {
	t.Helper()
	crs, err := fix.courseSvc.CreateCourse("Go 101", "", fix.admin.Actor())
	if err != nil {
		t.Fatalf("makeSection() failed: %v", err)
	}
	sec, err := fix.courseSvc.CreateSection(course.NewSection{CourseID: crs.ID, Title: "Basics"}, fix.admin.Actor())
	if err != nil {
		t.Fatalf("makeSection() failed: %v", err)
	}
	return sec
}

func (fix *fixture) makeMaterial(t *testing.T, sectionID, title string, order int) *content.Material {
	t.Helper()
	mat, err := fix.contentSvc.CreateMaterial(content.NewMaterial{
		SectionID:  sectionID,
		Title:      title,
		Order:      order,
		SourceType: content.SourceText,
		HTML:       "<p>hello</p>",
	}, fix.admin.Actor())
	if err != nil {
		t.Fatalf("makeMaterial() failed: %v", err)
	}
	return mat
}

func TestItemCreate(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)

	data := content.NewMaterial{
		Title:      "Welcome",
		SourceType: content.SourceText,
		HTML:       "<p>hi</p>",
	}
	rec := fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/material", fix.studentTok, data)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/material", fix.adminTok, data)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var mat content.Material
	decode(t, rec, &mat)
	assert.Equal(t, "Welcome", mat.Title)
	assert.Equal(t, sec.ID, mat.SectionID)
	assert.Equal(t, content.KindMaterial, mat.Kind)

	// unknown kinds 404
	rec = fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/podcast", fix.adminTok, data)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemCreateRejectsInvalidPayloads(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)

	// text material without its text content
	rec := fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/material", fix.adminTok, content.NewMaterial{
		Title:      "Empty",
		SourceType: content.SourceText,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// assignment without marks
	rec = fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/assignment", fix.adminTok, content.NewAssignment{
		Title: "Homework",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// quiz without a URL
	rec = fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/quiz", fix.adminTok, content.NewQuiz{
		Title:           "Pop quiz",
		DurationMinutes: 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing was stored
	for _, kind := range []string{"material", "assignment", "quiz"} {
		var items []content.ItemBase
		rec = fix.do(t, http.MethodGet, "/v1/sections/"+sec.ID+"/items/"+kind, fix.adminTok, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &items)
		assert.Empty(t, items)
	}
}

func TestItemUpdateRequiresTitle(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)
	mat := fix.makeMaterial(t, sec.ID, "Welcome", 0)

	rec := fix.do(t, http.MethodPut, "/v1/items/material/"+mat.ID, fix.adminTok, content.UpdateItem{Title: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fix.do(t, http.MethodPut, "/v1/items/material/"+mat.ID, fix.adminTok, content.UpdateItem{Title: "Welcome!"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var got content.Material
	decode(t, rec, &got)
	assert.Equal(t, "Welcome!", got.Title)
}

func TestItemQueryHidesHiddenFromStudents(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)

	fix.makeMaterial(t, sec.ID, "Visible", 0)
	hidden := fix.makeMaterial(t, sec.ID, "Hidden", 1)
	_, err := fix.contentSvc.SetHidden(hidden.ID, content.KindMaterial, true, fix.admin.Actor())
	assert.NoError(t, err)

	var items []content.Material

	rec := fix.do(t, http.MethodGet, "/v1/sections/"+sec.ID+"/items/material", fix.studentTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &items)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "Visible", items[0].Title)
	}

	rec = fix.do(t, http.MethodGet, "/v1/sections/"+sec.ID+"/items/material", fix.adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &items)
	assert.Len(t, items, 2)

	// a hidden item's detail is a 404 for students
	rec = fix.do(t, http.MethodGet, "/v1/items/material/"+hidden.ID, fix.studentTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = fix.do(t, http.MethodGet, "/v1/items/material/"+hidden.ID, fix.adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestItemReorder(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)

	first := fix.makeMaterial(t, sec.ID, "first", 0)
	fix.makeMaterial(t, sec.ID, "second", 1)
	fix.makeMaterial(t, sec.ID, "third", 2)

	from, to := 0, 2
	data := echoapi.ReorderRequest{ItemID: first.ID, FromIndex: &from, ToIndex: &to}

	rec := fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/material/reorder", fix.studentTok, data)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/material/reorder", fix.adminTok, data)
	assert.Equal(t, http.StatusOK, rec.Code)
	var items []content.Material
	decode(t, rec, &items)
	if assert.Len(t, items, 3) {
		assert.Equal(t, []string{"second", "third", "first"}, []string{items[0].Title, items[1].Title, items[2].Title})
		for i, it := range items {
			assert.Equal(t, i, it.Order)
		}
	}

	// out-of-range target
	badTo := 7
	data.ToIndex = &badTo
	rec = fix.do(t, http.MethodPost, "/v1/sections/"+sec.ID+"/items/material/reorder", fix.adminTok, data)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemSetHidden(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)
	mat := fix.makeMaterial(t, sec.ID, "Welcome", 0)

	hidden := true
	rec := fix.do(t, http.MethodPatch, "/v1/items/material/"+mat.ID+"/hidden", fix.adminTok, echoapi.HiddenRequest{Hidden: &hidden})
	assert.Equal(t, http.StatusOK, rec.Code)
	var updated content.Material
	decode(t, rec, &updated)
	assert.True(t, updated.Hidden)

	rec = fix.do(t, http.MethodPatch, "/v1/items/material/"+mat.ID+"/hidden", fix.studentTok, echoapi.HiddenRequest{Hidden: &hidden})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestItemDeadlineOverride(t *testing.T) {
	fix := setup(t)
	sec := fix.makeSection(t)

	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	asg, err := fix.contentSvc.CreateAssignment(content.NewAssignment{
		SectionID:  sec.ID,
		Title:      "Essay",
		TotalMarks: 100,
		DueDate:    &due,
	}, fix.admin.Actor())
	assert.NoError(t, err)

	override := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	rec := fix.do(t, http.MethodPut, "/v1/items/assignment/"+asg.ID+"/deadline", fix.adminTok,
		echoapi.DeadlineOverrideRequest{UserID: fix.student.ID, Deadline: override})
	assert.Equal(t, http.StatusOK, rec.Code)

	// the student sees their override
	rec = fix.do(t, http.MethodGet, "/v1/items/assignment/"+asg.ID+"/deadline", fix.studentTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.EffectiveDeadlineResponse
	decode(t, rec, &resp)
	if assert.NotNil(t, resp.Deadline) {
		assert.True(t, override.Equal(*resp.Deadline))
	}

	// everyone else sees the assignment's own due date
	rec = fix.do(t, http.MethodGet, "/v1/items/assignment/"+asg.ID+"/deadline", fix.adminTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	if assert.NotNil(t, resp.Deadline) {
		assert.True(t, due.Equal(*resp.Deadline))
	}

	// students cannot set overrides
	rec = fix.do(t, http.MethodPut, "/v1/items/assignment/"+asg.ID+"/deadline", fix.studentTok,
		echoapi.DeadlineOverrideRequest{UserID: fix.student.ID, Deadline: override})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpload(t *testing.T) {
	fix := setup(t)

	rec := fix.doUpload(t, "/v1/uploads", fix.adminTok, "notes.pdf", []byte("pdf bytes"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	var ref content.FileRef
	decode(t, rec, &ref)
	assert.NotEmpty(t, ref.Path)
	assert.Equal(t, int64(len("pdf bytes")), ref.Size)

	_, ok := fix.store.Object(ref.Path)
	assert.True(t, ok)

	rec = fix.doUpload(t, "/v1/uploads", fix.studentTok, "notes.pdf", []byte("pdf bytes"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
