package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/progress"
)

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *sqlx.DB) progress.Repository {
	return &progressRepository{db: db}
}

type completionRecordRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	CourseID    string    `db:"course_id"`
	ItemID      string    `db:"item_id"`
	CompletedAt time.Time `db:"completed_at"`
}

func (r completionRecordRow) toRecord() progress.CompletionRecord {
	return progress.CompletionRecord{
		ID:          r.ID,
		UserID:      r.UserID,
		CourseID:    r.CourseID,
		ItemID:      r.ItemID,
		CompletedAt: r.CompletedAt,
	}
}

func (repo *progressRepository) CreateCompletionRecord(rec progress.CompletionRecord) (progress.CompletionRecord, error) {
	rec.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO completion_record (id, user_id, course_id, item_id, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.UserID, rec.CourseID, rec.ItemID, rec.CompletedAt,
	)
	if err != nil {
		return progress.CompletionRecord{}, errors.Wrap(err, "creating completion record")
	}
	return rec, nil
}

func (repo *progressRepository) GetCompletionRecord(userID, itemID string) (progress.CompletionRecord, error) {
	var r completionRecordRow
	err := repo.db.Get(&r, `SELECT * FROM completion_record WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return progress.CompletionRecord{}, progress.ErrRecordNotFound
		}
		return progress.CompletionRecord{}, errors.Wrap(err, "getting completion record")
	}
	return r.toRecord(), nil
}

func (repo *progressRepository) QueryCompletionRecords(userID, courseID string) ([]progress.CompletionRecord, error) {
	var rows []completionRecordRow
	err := repo.db.Select(&rows, `SELECT * FROM completion_record WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying completion records")
	}
	recs := make([]progress.CompletionRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.toRecord())
	}
	return recs, nil
}

type submissionRow struct {
	ID              string        `db:"id"`
	AssignmentID    string        `db:"assignment_id"`
	UserID          string        `db:"user_id"`
	FilePath        string        `db:"file_path"`
	FileContentType string        `db:"file_content_type"`
	FileSize        int64         `db:"file_size"`
	SubmittedAt     time.Time     `db:"submitted_at"`
	Status          string        `db:"status"`
	MarksObtained   sql.NullInt64 `db:"marks_obtained"`
	GradedAt        sql.NullTime  `db:"graded_at"`
	Feedback        string        `db:"feedback"`
}

func (r submissionRow) toSubmission() progress.Submission {
	sub := progress.Submission{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		UserID:       r.UserID,
		File: content.FileRef{
			Path:        r.FilePath,
			ContentType: r.FileContentType,
			Size:        r.FileSize,
		},
		SubmittedAt: r.SubmittedAt,
		Status:      r.Status,
		Feedback:    r.Feedback,
	}
	if r.MarksObtained.Valid {
		n := int(r.MarksObtained.Int64)
		sub.MarksObtained = &n
	}
	if r.GradedAt.Valid {
		t := r.GradedAt.Time
		sub.GradedAt = &t
	}
	return sub
}

func (repo *progressRepository) CreateSubmission(sub progress.Submission) (progress.Submission, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO submission (id, assignment_id, user_id, file_path, file_content_type, file_size,
		                         submitted_at, status, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.AssignmentID, sub.UserID, sub.File.Path, sub.File.ContentType, sub.File.Size,
		sub.SubmittedAt, sub.Status, sub.Feedback,
	)
	if err != nil {
		return progress.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo *progressRepository) GetSubmissionByID(id string) (progress.Submission, error) {
	var r submissionRow
	err := repo.db.Get(&r, `SELECT * FROM submission WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return progress.Submission{}, progress.ErrSubmissionNotFound
		}
		return progress.Submission{}, errors.Wrap(err, "getting submission")
	}
	return r.toSubmission(), nil
}

func (repo *progressRepository) GetSubmission(assignmentID, userID string) (progress.Submission, error) {
	var r submissionRow
	err := repo.db.Get(&r, `SELECT * FROM submission WHERE assignment_id = $1 AND user_id = $2`, assignmentID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return progress.Submission{}, progress.ErrSubmissionNotFound
		}
		return progress.Submission{}, errors.Wrap(err, "getting submission")
	}
	return r.toSubmission(), nil
}

func (repo *progressRepository) QuerySubmissionsByUserID(userID string, assignmentIDs ...string) ([]progress.Submission, error) {
	if len(assignmentIDs) == 0 {
		return []progress.Submission{}, nil
	}
	var rows []submissionRow
	err := repo.db.Select(&rows, `SELECT * FROM submission WHERE user_id = $1 AND assignment_id = ANY($2)`, userID, pq.Array(assignmentIDs))
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]progress.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs, nil
}

func (repo *progressRepository) UpdateSubmission(sub progress.Submission) (progress.Submission, error) {
	var marks sql.NullInt64
	if sub.MarksObtained != nil {
		marks = sql.NullInt64{Int64: int64(*sub.MarksObtained), Valid: true}
	}
	var gradedAt sql.NullTime
	if sub.GradedAt != nil {
		gradedAt = sql.NullTime{Time: *sub.GradedAt, Valid: true}
	}
	res, err := repo.db.Exec(
		`UPDATE submission SET status = $1, marks_obtained = $2, graded_at = $3, feedback = $4 WHERE id = $5`,
		sub.Status, marks, gradedAt, sub.Feedback, sub.ID,
	)
	if err != nil {
		return progress.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return progress.Submission{}, progress.ErrSubmissionNotFound
	}
	return sub, nil
}

func (repo *progressRepository) CreateCertificate(cert progress.Certificate) (progress.Certificate, error) {
	cert.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO certificate (id, user_id, course_id, number, issued_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		cert.ID, cert.UserID, cert.CourseID, cert.Number, cert.IssuedAt,
	)
	if err != nil {
		return progress.Certificate{}, errors.Wrap(err, "creating certificate")
	}
	return cert, nil
}

func (repo *progressRepository) GetCertificate(userID, courseID string) (progress.Certificate, error) {
	var r struct {
		ID       string    `db:"id"`
		UserID   string    `db:"user_id"`
		CourseID string    `db:"course_id"`
		Number   string    `db:"number"`
		IssuedAt time.Time `db:"issued_at"`
	}
	err := repo.db.Get(&r, `SELECT * FROM certificate WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return progress.Certificate{}, progress.ErrCertificateNotFound
		}
		return progress.Certificate{}, errors.Wrap(err, "getting certificate")
	}
	return progress.Certificate{
		ID:       r.ID,
		UserID:   r.UserID,
		CourseID: r.CourseID,
		Number:   r.Number,
		IssuedAt: r.IssuedAt,
	}, nil
}
