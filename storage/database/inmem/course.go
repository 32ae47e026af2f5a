package inmemdb

import (
	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db      *courseTable
	content *contentTable
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course, content: db.content}
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.courses, id)
		for secID, sec := range repo.db.sections {
			if sec.CourseID == id {
				repo.deleteSectionItems(secID)
				delete(repo.db.sections, secID)
			}
		}
	}
	return nil
}

func (repo *courseRepository) CreateSection(sec course.Section) (course.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sec.ID = uuid.New().String()
	repo.db.sections[sec.ID] = &sec
	return sec, nil
}

func (repo *courseRepository) QuerySectionsByCourseID(courseID string) ([]course.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	secs := make([]course.Section, 0)
	for _, sec := range repo.db.sections {
		if sec.CourseID == courseID {
			secs = append(secs, *sec)
		}
	}
	return secs, nil
}

func (repo *courseRepository) GetSectionByID(id string) (course.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sec, ok := repo.db.sections[id]; ok {
		return *sec, nil
	}
	return course.Section{}, course.ErrSectionNotFound
}

func (repo *courseRepository) UpdateSection(sec course.Section) (course.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.sections[sec.ID]; !ok {
		return course.Section{}, course.ErrSectionNotFound
	}
	repo.db.sections[sec.ID] = &sec
	return sec, nil
}

func (repo *courseRepository) DeleteSectionsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		repo.deleteSectionItems(id)
		delete(repo.db.sections, id)
	}
	return nil
}

// deleteSectionItems cascades a section delete to its items.
func (repo *courseRepository) deleteSectionItems(sectionID string) {
	repo.content.mutex.Lock()
	defer repo.content.mutex.Unlock()

	for itemID, it := range repo.content.items {
		if it.Base().SectionID == sectionID {
			delete(repo.content.items, itemID)
		}
	}
}
