package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO course (id, title, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		crs.ID, crs.Title, crs.Description, crs.CreatedAt, crs.UpdatedAt,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.db.Select(&courses, `SELECT id, title, description, created_at "createdat", updated_at "updatedat" FROM course`)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	var crs course.Course
	err := repo.db.Get(&crs, `SELECT id, title, description, created_at "createdat", updated_at "updatedat" FROM course WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return crs, nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	res, err := repo.db.Exec(
		`UPDATE course SET title = $1, description = $2, updated_at = $3 WHERE id = $4`,
		crs.Title, crs.Description, crs.UpdatedAt, crs.ID,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM course WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

func (repo *courseRepository) CreateSection(sec course.Section) (course.Section, error) {
	sec.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO section (id, course_id, title, description, "order", created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sec.ID, sec.CourseID, sec.Title, sec.Description, sec.Order, sec.CreatedAt, sec.UpdatedAt,
	)
	if err != nil {
		return course.Section{}, errors.Wrap(err, "creating section")
	}
	return sec, nil
}

const sectionColumns = `id, course_id "courseid", title, description, "order", created_at "createdat", updated_at "updatedat"`

func (repo *courseRepository) QuerySectionsByCourseID(courseID string) ([]course.Section, error) {
	secs := make([]course.Section, 0)
	err := repo.db.Select(&secs, `SELECT `+sectionColumns+` FROM section WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying sections")
	}
	return secs, nil
}

func (repo *courseRepository) GetSectionByID(id string) (course.Section, error) {
	var sec course.Section
	err := repo.db.Get(&sec, `SELECT `+sectionColumns+` FROM section WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Section{}, course.ErrSectionNotFound
		}
		return course.Section{}, errors.Wrap(err, "getting section")
	}
	return sec, nil
}

func (repo *courseRepository) UpdateSection(sec course.Section) (course.Section, error) {
	res, err := repo.db.Exec(
		`UPDATE section SET title = $1, description = $2, "order" = $3, updated_at = $4 WHERE id = $5`,
		sec.Title, sec.Description, sec.Order, sec.UpdatedAt, sec.ID,
	)
	if err != nil {
		return course.Section{}, errors.Wrap(err, "updating section")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Section{}, course.ErrSectionNotFound
	}
	return sec, nil
}

func (repo *courseRepository) DeleteSectionsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	// items cascade via FK
	if _, err := repo.db.Exec(`DELETE FROM section WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting sections")
	}
	return nil
}
