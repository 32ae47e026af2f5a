package inmemdb

import (
	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/progress"
)

type progressRepository struct {
	db *progressTable
}

var _ progress.Repository = (*progressRepository)(nil)

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress}
}

func certKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (repo *progressRepository) CreateCompletionRecord(rec progress.CompletionRecord) (progress.CompletionRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec.ID = uuid.New().String()
	repo.db.records[rec.ID] = &rec
	return rec, nil
}

func (repo *progressRepository) GetCompletionRecord(userID, itemID string) (progress.CompletionRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, rec := range repo.db.records {
		if rec.UserID == userID && rec.ItemID == itemID {
			return *rec, nil
		}
	}
	return progress.CompletionRecord{}, progress.ErrRecordNotFound
}

func (repo *progressRepository) QueryCompletionRecords(userID, courseID string) ([]progress.CompletionRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]progress.CompletionRecord, 0)
	for _, rec := range repo.db.records {
		if rec.UserID == userID && rec.CourseID == courseID {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (repo *progressRepository) CreateSubmission(sub progress.Submission) (progress.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = uuid.New().String()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *progressRepository) GetSubmissionByID(id string) (progress.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.submissions[id]; ok {
		return *sub, nil
	}
	return progress.Submission{}, progress.ErrSubmissionNotFound
}

func (repo *progressRepository) GetSubmission(assignmentID, userID string) (progress.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.UserID == userID {
			return *sub, nil
		}
	}
	return progress.Submission{}, progress.ErrSubmissionNotFound
}

func (repo *progressRepository) QuerySubmissionsByUserID(userID string, assignmentIDs ...string) ([]progress.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = true
	}
	subs := make([]progress.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.UserID == userID && (len(assignmentIDs) == 0 || wanted[sub.AssignmentID]) {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (repo *progressRepository) UpdateSubmission(sub progress.Submission) (progress.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.submissions[sub.ID]; !ok {
		return progress.Submission{}, progress.ErrSubmissionNotFound
	}
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *progressRepository) CreateCertificate(cert progress.Certificate) (progress.Certificate, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cert.ID = uuid.New().String()
	repo.db.certificates[certKey(cert.UserID, cert.CourseID)] = &cert
	return cert, nil
}

func (repo *progressRepository) GetCertificate(userID, courseID string) (progress.Certificate, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cert, ok := repo.db.certificates[certKey(userID, courseID)]; ok {
		return *cert, nil
	}
	return progress.Certificate{}, progress.ErrCertificateNotFound
}
