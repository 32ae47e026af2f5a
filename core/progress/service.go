package progress

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrRecordNotFound      = errors.New("completion record not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrAlreadySubmitted    = errors.New("assignment already submitted")
	ErrCourseIncomplete    = errors.New("course is not complete")
	ErrAdminOnly           = errors.New("operation requires an admin")
	ErrNotCompletable      = errors.New("assignments complete through submission")
)

type (
	Repository interface {
		CreateCompletionRecord(rec CompletionRecord) (CompletionRecord, error)
		GetCompletionRecord(userID, itemID string) (CompletionRecord, error)
		QueryCompletionRecords(userID, courseID string) ([]CompletionRecord, error)

		CreateSubmission(sub Submission) (Submission, error)
		GetSubmissionByID(id string) (Submission, error)
		GetSubmission(assignmentID, userID string) (Submission, error)
		QuerySubmissionsByUserID(userID string, assignmentIDs ...string) ([]Submission, error)
		UpdateSubmission(sub Submission) (Submission, error)

		CreateCertificate(cert Certificate) (Certificate, error)
		GetCertificate(userID, courseID string) (Certificate, error)
	}

	Service struct {
		repo       Repository
		courseSvc  *course.Service
		contentSvc *content.Service
		mailSvc    core.EmailService
	}
)

func NewService(repo Repository, courseSvc *course.Service, contentSvc *content.Service, mailSvc core.EmailService) *Service {
	return &Service{
		repo:       repo,
		courseSvc:  courseSvc,
		contentSvc: contentSvc,
		mailSvc:    mailSvc,
	}
}

// Compute cross-references the supplied collections by identity and returns
// per-section and whole-course completion counts. Visibility filtering is the
// caller's job: only the items passed in are counted.
//
// A material or quiz counts completed iff a completion record exists for it;
// an assignment counts completed iff any submission exists for it, graded or
// not. Percent is 0 when there is nothing to count.
func Compute(sections []course.Section, itemsBySection map[string][]content.Item, records []CompletionRecord, subs []Submission, userID string) Progress {
	completedIDs := make(map[string]bool, len(records)+len(subs))
	for _, rec := range records {
		if rec.UserID == userID {
			completedIDs[rec.ItemID] = true
		}
	}
	for _, sub := range subs {
		if sub.UserID == userID {
			completedIDs[sub.AssignmentID] = true
		}
	}

	prog := Progress{
		UserID:     userID,
		PerSection: make(map[string]SectionProgress, len(sections)),
	}
	for _, sec := range sections {
		var sp SectionProgress
		for _, it := range itemsBySection[sec.ID] {
			sp.Total++
			if completedIDs[it.Base().ID] {
				sp.Completed++
			}
		}
		prog.PerSection[sec.ID] = sp
		prog.Total += sp.Total
		prog.Completed += sp.Completed
	}

	if prog.Total > 0 {
		prog.Percent = int(math.Round(100 * float64(prog.Completed) / float64(prog.Total)))
	}
	return prog
}

// CourseProgress assembles the actor-visible items of every section and
// aggregates the user's completion state over them.
func (svc *Service) CourseProgress(courseID string, actor user.Actor) (Progress, error) {
	sections, err := svc.courseSvc.AllSections(courseID)
	if err != nil {
		return Progress{}, err
	}

	itemsBySection := make(map[string][]content.Item, len(sections))
	var assignmentIDs []string
	for _, sec := range sections {
		for _, kind := range []content.Kind{content.KindMaterial, content.KindAssignment, content.KindQuiz} {
			items, err := svc.contentSvc.VisibleItemsOf(sec.ID, kind, actor)
			if err != nil {
				return Progress{}, err
			}
			itemsBySection[sec.ID] = append(itemsBySection[sec.ID], items...)
			if kind == content.KindAssignment {
				for _, it := range items {
					assignmentIDs = append(assignmentIDs, it.Base().ID)
				}
			}
		}
	}

	records, err := svc.repo.QueryCompletionRecords(actor.UserID, courseID)
	if err != nil {
		return Progress{}, err
	}
	subs, err := svc.repo.QuerySubmissionsByUserID(actor.UserID, assignmentIDs...)
	if err != nil {
		return Progress{}, err
	}

	prog := Compute(sections, itemsBySection, records, subs, actor.UserID)
	prog.CourseID = courseID
	return prog, nil
}

// MarkComplete records one material or quiz as complete for the user.
// Marking the same item twice is a no-op; assignments complete through
// submission instead. The record's course is derived from the item itself;
// an item that does not belong to courseID is treated as not found.
func (svc *Service) MarkComplete(courseID, itemID string, kind content.Kind, actor user.Actor) (CompletionRecord, error) {
	if kind == content.KindAssignment {
		return CompletionRecord{}, ErrNotCompletable
	}
	it, err := svc.contentSvc.GetItem(itemID, kind)
	if err != nil {
		return CompletionRecord{}, err
	}
	sec, err := svc.courseSvc.GetSection(it.Base().SectionID)
	if err != nil {
		return CompletionRecord{}, err
	}
	if sec.CourseID != courseID {
		return CompletionRecord{}, content.ErrNotFound
	}
	if rec, err := svc.repo.GetCompletionRecord(actor.UserID, itemID); err == nil {
		return rec, nil
	} else if err != ErrRecordNotFound {
		return CompletionRecord{}, err
	}
	return svc.repo.CreateCompletionRecord(CompletionRecord{
		UserID:      actor.UserID,
		CourseID:    sec.CourseID,
		ItemID:      itemID,
		CompletedAt: time.Now().UTC(),
	})
}

// Submit records a student's answer to an assignment. A second submission for
// the same (assignment, user) is rejected.
func (svc *Service) Submit(ns NewSubmission) (Submission, error) {
	if _, err := svc.contentSvc.GetItem(ns.AssignmentID, content.KindAssignment); err != nil {
		return Submission{}, err
	}
	if _, err := svc.repo.GetSubmission(ns.AssignmentID, ns.UserID); err == nil {
		return Submission{}, ErrAlreadySubmitted
	} else if err != ErrSubmissionNotFound {
		return Submission{}, err
	}
	return svc.repo.CreateSubmission(Submission{
		AssignmentID: ns.AssignmentID,
		UserID:       ns.UserID,
		File:         ns.File,
		SubmittedAt:  time.Now().UTC(),
		Status:       StatusSubmitted,
	})
}

func (svc *Service) GetSubmission(assignmentID, userID string) (Submission, error) {
	return svc.repo.GetSubmission(assignmentID, userID)
}

// Grade sets the grading fields on a submission. Only marks, feedback, status
// and the grading timestamp mutate.
func (svc *Service) Grade(submissionID string, gs GradeSubmission, actor user.Actor) (Submission, error) {
	if !actor.IsAdmin() {
		return Submission{}, ErrAdminOnly
	}
	sub, err := svc.repo.GetSubmissionByID(submissionID)
	if err != nil {
		return Submission{}, err
	}
	it, err := svc.contentSvc.GetItem(sub.AssignmentID, content.KindAssignment)
	if err != nil {
		return Submission{}, err
	}
	if err := gs.Validate(it.(*content.Assignment).TotalMarks); err != nil {
		return Submission{}, err
	}

	now := time.Now().UTC()
	marks := gs.MarksObtained
	sub.MarksObtained = &marks
	sub.Feedback = gs.Feedback
	sub.Status = StatusGraded
	sub.GradedAt = &now
	return svc.repo.UpdateSubmission(sub)
}

// IssueCertificate issues the completion artifact for (user, course) once the
// user's progress reaches 100%. Level-triggered and idempotent: if the
// certificate already exists it is returned as-is and nothing re-fires.
func (svc *Service) IssueCertificate(courseID string, usr user.User) (Certificate, bool, error) {
	if cert, err := svc.repo.GetCertificate(usr.ID, courseID); err == nil {
		return cert, false, nil
	} else if err != ErrCertificateNotFound {
		return Certificate{}, false, err
	}

	prog, err := svc.CourseProgress(courseID, usr.Actor())
	if err != nil {
		return Certificate{}, false, err
	}
	if prog.Total == 0 || prog.Percent < 100 {
		return Certificate{}, false, ErrCourseIncomplete
	}

	cert, err := svc.repo.CreateCertificate(Certificate{
		UserID:   usr.ID,
		CourseID: courseID,
		Number:   certNumber(),
		IssuedAt: time.Now().UTC(),
	})
	if err != nil {
		return Certificate{}, false, err
	}

	svc.notifyCertificate(cert, usr, courseID)
	return cert, true, nil
}

func (svc *Service) notifyCertificate(cert Certificate, usr user.User, courseID string) {
	if svc.mailSvc == nil || usr.Email == "" {
		return
	}
	crs, err := svc.courseSvc.GetCourse(courseID)
	if err != nil {
		crs.Title = courseID
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Certificate of completion: %s", crs.Title),
		TemplateName: "certificate",
		TemplateData: struct {
			Name        string
			CourseTitle string
			Number      string
		}{usr.Name, crs.Title, cert.Number},
	})
}

func certNumber() string {
	return "DRS-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
