package echoapi

import (
	"fmt"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
)

type progressApi struct {
	svc     *progress.Service
	userSvc *user.Service
	store   core.FileStore
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *progress.Service, userSvc *user.Service, store core.FileStore) {
	api := progressApi{svc: svc, userSvc: userSvc, store: store}

	cg := g.Group("/courses/:id", jwt)
	cg.GET("/progress", api.courseProgress)
	cg.POST("/items/:kind/:itemID/complete", api.markComplete)
	cg.POST("/certificate", api.claimCertificate)

	ag := g.Group("/assignments/:id", jwt)
	ag.POST("/submissions", api.submit)
	ag.GET("/submission", api.retrieveSubmission)

	g.PUT("/submissions/:id/grade", api.grade, jwt, adminMiddleware())
}

func (api *progressApi) courseProgress(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	prog, err := api.svc.CourseProgress(ctx.Param("id"), actor)
	if err != nil {
		return errors.Wrap(err, "computing course progress")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *progressApi) markComplete(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	rec, err := api.svc.MarkComplete(ctx.Param("id"), ctx.Param("itemID"), kind, actor)
	if err != nil {
		return errors.Wrap(err, "marking item complete")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// submit uploads the answer file to the object store, then records the
// submission. One submission is allowed per (assignment, user).
func (api *progressApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "an uploaded file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	assignmentID := ctx.Param("id")
	key := fmt.Sprintf("submissions/%s/%s%s", assignmentID, claims.Subject, path.Ext(fh.Filename))
	stored, err := api.store.Upload(ctx.Request().Context(), key, src)
	if err != nil {
		return errors.Wrap(err, "storing uploaded file")
	}

	sub, err := api.svc.Submit(progress.NewSubmission{
		AssignmentID: assignmentID,
		UserID:       claims.Subject,
		File: content.FileRef{
			Path:        stored,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		},
	})
	if err != nil {
		return errors.Wrap(err, "recording submission")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *progressApi) retrieveSubmission(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// admins may inspect any user's submission
	userID := claims.Subject
	if qID := ctx.QueryParam("user_id"); qID != "" && claims.IsAdmin {
		userID = qID
	}

	sub, err := api.svc.GetSubmission(ctx.Param("id"), userID)
	if err != nil {
		return errors.Wrap(err, "getting submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *progressApi) grade(ctx echo.Context) error {
	var data progress.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	sub, err := api.svc.Grade(ctx.Param("id"), data, actor)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

// claimCertificate issues the course certificate once the user reaches 100%.
// Claiming again returns the already-issued certificate.
func (api *progressApi) claimCertificate(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cert, issued, err := api.svc.IssueCertificate(ctx.Param("id"), usr)
	if err != nil {
		return errors.Wrap(err, "issuing certificate")
	}

	status := http.StatusOK
	if issued {
		status = http.StatusCreated
	}
	return ctx.JSON(status, CertificateIssuedResponse{
		ID:       cert.ID,
		Number:   cert.Number,
		CourseID: cert.CourseID,
		IssuedAt: cert.IssuedAt,
		Issued:   issued,
	})
}
