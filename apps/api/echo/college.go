package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/college"
)

type collegeApi struct {
	svc      college.ServiceInterface
	validate *validator.Validate
}

func registerCollegeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := collegeApi{
		svc:      deps.CollegeSvc,
		validate: deps.Validate,
	}

	// reference lists feed the public registration forms; no auth
	g.GET("/colleges", api.queryColleges)
	g.GET("/courses", api.queryCourses)

	cg := g.Group("/courses", jwt)
	cg.POST("", api.addCourse, adminMiddleware())
	cg.DELETE("/:code", api.deleteCourse, adminMiddleware())

	ug := g.Group("/units", jwt)
	ug.GET("", api.queryUnits)
	ug.GET("/:id", api.unitProfile)
}

// Handlers

func (api *collegeApi) queryColleges(ctx echo.Context) error {
	colleges, err := api.svc.Colleges(ctx.Request().Context(), ctx.QueryParam("district"))
	if err != nil {
		return errors.Wrap(err, "querying colleges")
	}
	if colleges == nil {
		colleges = []college.College{}
	}
	return ctx.JSON(http.StatusOK, colleges)
}

func (api *collegeApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.Courses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []college.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *collegeApi) addCourse(ctx echo.Context) error {
	var data college.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.AddCourse(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *collegeApi) deleteCourse(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("code")); err != nil {
		if errors.Cause(err) == college.ErrCourseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *collegeApi) queryUnits(ctx echo.Context) error {
	units, err := api.svc.Units(ctx.Request().Context(), ctx.QueryParam("college_id"))
	if err != nil {
		return errors.Wrap(err, "querying units")
	}
	if units == nil {
		units = []college.Unit{}
	}
	return ctx.JSON(http.StatusOK, units)
}

func (api *collegeApi) unitProfile(ctx echo.Context) error {
	profile, err := api.svc.UnitProfile(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == college.ErrUnitNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting unit profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}
