package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/sections", api.querySections)

	sg := g.Group("/sections", jwt)
	sg.POST("", api.createSection, adminMiddleware())
	sg.DELETE("", api.destroySections, adminMiddleware())
	sg.GET("/:id", api.retrieveSection)
	sg.PUT("/:id", api.updateSection, adminMiddleware())
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAllCourses()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data NewCourseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourseRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	crs, err := api.svc.CreateCourse(data.Title, data.Description, actor)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetCourse(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

// querySections lists a course's sections sorted by their position. An unknown
// course yields an empty list, not a 404.
func (api *courseApi) querySections(ctx echo.Context) error {
	sections, err := api.svc.AllSections(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	return ctx.JSON(http.StatusOK, sections)
}

func (api *courseApi) createSection(ctx echo.Context) error {
	var data course.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	sec, err := api.svc.CreateSection(data, actor)
	if err != nil {
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, sec)
}

func (api *courseApi) retrieveSection(ctx echo.Context) error {
	sec, err := api.svc.GetSection(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting section")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *courseApi) updateSection(ctx echo.Context) error {
	var data course.UpdateSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSection")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	sec, err := api.svc.UpdateSection(ctx.Param("id"), data, actor)
	if err != nil {
		return errors.Wrap(err, "updating section")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *courseApi) destroySections(ctx echo.Context) error {
	rawIDs := ctx.QueryParam("ids")
	if rawIDs == "" {
		return ctx.NoContent(http.StatusNoContent)
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	if err := api.svc.DeleteSections(actor, strings.Split(rawIDs, ",")...); err != nil {
		return errors.Wrap(err, "deleting sections")
	}
	return ctx.NoContent(http.StatusNoContent)
}
