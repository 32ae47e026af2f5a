package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/course"
)

func TestCourseCreateAdminOnly(t *testing.T) {
	fix := setup(t)

	data := echoapi.NewCourseRequest{Title: "Go 101", Description: "An introduction"}

	rec := fix.do(t, http.MethodPost, "/v1/courses", fix.studentTok, data)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = fix.do(t, http.MethodPost, "/v1/courses", fix.adminTok, data)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var crs course.Course
	decode(t, rec, &crs)
	assert.Equal(t, "Go 101", crs.Title)
	assert.NotEmpty(t, crs.ID)
}

func TestCourseSections(t *testing.T) {
	fix := setup(t)

	crs, err := fix.courseSvc.CreateCourse("Go 101", "", fix.admin.Actor())
	assert.NoError(t, err)

	// an unknown course lists no sections
	rec := fix.do(t, http.MethodGet, "/v1/courses/nope/sections", fix.studentTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var sections []course.Section
	decode(t, rec, &sections)
	assert.Empty(t, sections)

	rec = fix.do(t, http.MethodPost, "/v1/sections", fix.adminTok, course.NewSection{CourseID: crs.ID, Title: "Basics", Order: 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = fix.do(t, http.MethodPost, "/v1/sections", fix.adminTok, course.NewSection{CourseID: crs.ID, Title: "Setup", Order: 0})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// listed in position order
	rec = fix.do(t, http.MethodGet, "/v1/courses/"+crs.ID+"/sections", fix.studentTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sections)
	if assert.Len(t, sections, 2) {
		assert.Equal(t, "Setup", sections[0].Title)
		assert.Equal(t, "Basics", sections[1].Title)
	}

	// students cannot create sections
	rec = fix.do(t, http.MethodPost, "/v1/sections", fix.studentTok, course.NewSection{CourseID: crs.ID, Title: "Sneaky"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSectionCreateRejectsInvalidPayloads(t *testing.T) {
	fix := setup(t)

	crs, err := fix.courseSvc.CreateCourse("Go 101", "", fix.admin.Actor())
	assert.NoError(t, err)

	// no title
	rec := fix.do(t, http.MethodPost, "/v1/sections", fix.adminTok, course.NewSection{CourseID: crs.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no course
	rec = fix.do(t, http.MethodPost, "/v1/sections", fix.adminTok, course.NewSection{Title: "Basics"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	sections, err := fix.courseSvc.AllSections(crs.ID)
	assert.NoError(t, err)
	assert.Empty(t, sections)
}

func TestSectionUpdate(t *testing.T) {
	fix := setup(t)

	crs, err := fix.courseSvc.CreateCourse("Go 101", "", fix.admin.Actor())
	assert.NoError(t, err)
	sec, err := fix.courseSvc.CreateSection(course.NewSection{CourseID: crs.ID, Title: "Basics"}, fix.admin.Actor())
	assert.NoError(t, err)

	rec := fix.do(t, http.MethodPut, "/v1/sections/"+sec.ID, fix.adminTok, course.UpdateSection{Title: "Fundamentals"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var updated course.Section
	decode(t, rec, &updated)
	assert.Equal(t, "Fundamentals", updated.Title)

	rec = fix.do(t, http.MethodPut, "/v1/sections/nope", fix.adminTok, course.UpdateSection{Title: "Fundamentals"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
