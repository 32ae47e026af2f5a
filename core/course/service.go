package course

import (
	"errors"
	"sort"
	"time"

	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrAdminOnly       = errors.New("operation requires an admin")
)

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		UpdateCourse(crs Course) (Course, error)
		DeleteCoursesByID(ids ...string) error

		CreateSection(sec Section) (Section, error)
		QuerySectionsByCourseID(courseID string) ([]Section, error)
		GetSectionByID(id string) (Section, error)
		UpdateSection(sec Section) (Section, error)
		// DeleteSectionsByID cascades each section's items.
		DeleteSectionsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AllSections returns the course's sections sorted by their order position.
// An unknown course yields an empty slice; partially-loaded views tolerate that.
func (svc *Service) AllSections(courseID string) ([]Section, error) {
	secs, err := svc.repo.QuerySectionsByCourseID(courseID)
	if err != nil {
		if err == ErrNotFound {
			return []Section{}, nil
		}
		return nil, err
	}
	sort.SliceStable(secs, func(i, j int) bool {
		if secs[i].Order != secs[j].Order {
			return secs[i].Order < secs[j].Order
		}
		return secs[i].ID < secs[j].ID
	})
	return secs, nil
}

func (svc *Service) GetCourse(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *Service) QueryAllCourses() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) CreateCourse(title, description string, actor user.Actor) (Course, error) {
	if !actor.IsAdmin() {
		return Course{}, ErrAdminOnly
	}
	now := time.Now().UTC()
	return svc.repo.CreateCourse(Course{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) CreateSection(ns NewSection, actor user.Actor) (Section, error) {
	if !actor.IsAdmin() {
		return Section{}, ErrAdminOnly
	}
	now := time.Now().UTC()
	return svc.repo.CreateSection(Section{
		CourseID:    ns.CourseID,
		Title:       ns.Title,
		Description: ns.Description,
		Order:       ns.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetSection(id string) (Section, error) {
	return svc.repo.GetSectionByID(id)
}

func (svc *Service) UpdateSection(id string, us UpdateSection, actor user.Actor) (Section, error) {
	if !actor.IsAdmin() {
		return Section{}, ErrAdminOnly
	}
	sec, err := svc.repo.GetSectionByID(id)
	if err != nil {
		return Section{}, err
	}
	sec.Title = us.Title
	sec.Description = us.Description
	if us.Order != nil {
		sec.Order = *us.Order
	}
	sec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSection(sec)
}

func (svc *Service) DeleteSections(actor user.Actor, ids ...string) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	return svc.repo.DeleteSectionsByID(ids...)
}
