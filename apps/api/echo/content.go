package echoapi

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
)

type contentApi struct {
	svc   *content.Service
	store core.FileStore
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *content.Service, store core.FileStore) {
	api := contentApi{svc: svc, store: store}

	sg := g.Group("/sections/:id/items/:kind", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, adminMiddleware())
	sg.POST("/reorder", api.reorder, adminMiddleware())

	ig := g.Group("/items/:kind", jwt)
	ig.DELETE("", api.destroyMultiple, adminMiddleware())
	ig.GET("/:id", api.retrieve)
	ig.PUT("/:id", api.update, adminMiddleware())
	ig.PATCH("/:id/hidden", api.setHidden, adminMiddleware())
	ig.PUT("/:id/deadline", api.setDeadlineOverride, adminMiddleware())
	ig.GET("/:id/deadline", api.effectiveDeadline)

	g.POST("/uploads", api.upload, jwt, adminMiddleware())
}

func parseKind(raw string) (content.Kind, error) {
	switch kind := content.Kind(raw); kind {
	case content.KindMaterial, content.KindAssignment, content.KindQuiz:
		return kind, nil
	}
	return "", errHttpNotFound
}

// query lists a section's items of one kind, position order. Hidden items are
// only included for admins.
func (api *contentApi) query(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	items, err := api.svc.VisibleItemsOf(ctx.Param("id"), kind, actor)
	if err != nil {
		return errors.Wrap(err, "querying items")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentApi) create(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	sectionID := ctx.Param("id")

	var it content.Item
	switch kind {
	case content.KindMaterial:
		var data content.NewMaterial
		if err = ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewMaterial")
		}
		data.SectionID = sectionID
		if err = data.Validate(); err != nil {
			return err
		}
		it, err = api.svc.CreateMaterial(data, actor)
	case content.KindAssignment:
		var data content.NewAssignment
		if err = ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewAssignment")
		}
		data.SectionID = sectionID
		if err = data.Validate(); err != nil {
			return err
		}
		it, err = api.svc.CreateAssignment(data, actor)
	case content.KindQuiz:
		var data content.NewQuiz
		if err = ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewQuiz")
		}
		data.SectionID = sectionID
		if err = data.Validate(); err != nil {
			return err
		}
		it, err = api.svc.CreateQuiz(data, actor)
	}
	if err != nil {
		return errors.Wrap(err, "creating item")
	}
	return ctx.JSON(http.StatusCreated, it)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	it, err := api.svc.GetItem(ctx.Param("id"), kind)
	if err != nil {
		return errors.Wrap(err, "getting item")
	}
	if it.Base().Hidden {
		claims, err := getContextClaims(ctx)
		if err != nil || !claims.IsAdmin {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *contentApi) update(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	var data content.UpdateItem
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err = data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	it, err := api.svc.UpdateItem(ctx.Param("id"), kind, data, actor)
	if err != nil {
		return errors.Wrap(err, "updating item")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *contentApi) reorder(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	var data ReorderRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}
	if err = data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	items, err := api.svc.ReorderItems(ctx.Param("id"), kind, data.ItemID, *data.FromIndex, *data.ToIndex, actor)
	if err != nil {
		return errors.Wrap(err, "reordering items")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentApi) setHidden(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	var data HiddenRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to HiddenRequest")
	}
	if err = data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	it, err := api.svc.SetHidden(ctx.Param("id"), kind, *data.Hidden, actor)
	if err != nil {
		return errors.Wrap(err, "setting hidden flag")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *contentApi) setDeadlineOverride(ctx echo.Context) error {
	if _, err := parseKind(ctx.Param("kind")); err != nil {
		return err
	}
	var data DeadlineOverrideRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeadlineOverrideRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ov, err := api.svc.SetDeadlineOverride(content.NewDeadlineOverride{
		ItemID:   ctx.Param("id"),
		UserID:   data.UserID,
		Deadline: data.Deadline,
	}, actor)
	if err != nil {
		return errors.Wrap(err, "setting deadline override")
	}
	return ctx.JSON(http.StatusOK, ov)
}

// effectiveDeadline resolves the deadline the requesting user sees: their
// override if one exists, the item's own due date otherwise, null failing both.
func (api *contentApi) effectiveDeadline(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	deadline, err := api.svc.EffectiveDeadlineFor(ctx.Param("id"), kind, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "resolving effective deadline")
	}
	return ctx.JSON(http.StatusOK, EffectiveDeadlineResponse{
		ItemID:   ctx.Param("id"),
		UserID:   claims.Subject,
		Deadline: deadline,
	})
}

func (api *contentApi) destroyMultiple(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return err
	}
	rawIDs := ctx.QueryParam("ids")
	if rawIDs == "" {
		return ctx.NoContent(http.StatusNoContent)
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	if err := api.svc.DeleteItems(kind, actor, strings.Split(rawIDs, ",")...); err != nil {
		return errors.Wrap(err, "deleting items")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// upload stores a file and returns the FileRef to embed in an item payload.
func (api *contentApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "an uploaded file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	key := fmt.Sprintf("content/%s%s", uuid.New().String(), path.Ext(fh.Filename))
	stored, err := api.store.Upload(ctx.Request().Context(), key, src)
	if err != nil {
		return errors.Wrap(err, "storing uploaded file")
	}

	return ctx.JSON(http.StatusCreated, content.FileRef{
		Path:        stored,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
}
