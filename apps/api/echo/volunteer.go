package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/report"
	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
)

type volunteerApi struct {
	svc      volunteer.ServiceInterface
	userSvc  user.ServiceInterface
	validate *validator.Validate
}

func registerVolunteerAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := volunteerApi{
		svc:      deps.VolunteerSvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	vg := g.Group("/volunteers", jwt)

	vg.POST("", api.register)
	vg.GET("", api.query, unitOrAdminMiddleware())
	vg.GET("/dashboard", api.dashboard, unitOrAdminMiddleware())
	vg.GET("/export", api.exportCSV, unitOrAdminMiddleware())
	vg.GET("/export/report", api.exportReport, unitOrAdminMiddleware())
	vg.PUT("/status", api.bulkUpdateStatus, unitOrAdminMiddleware())
	vg.GET("/student/:student_id", api.retrieveByStudent)
	vg.GET("/:id", api.retrieve, unitOrAdminMiddleware())
	vg.PUT("/:id/status", api.updateStatus, unitOrAdminMiddleware())
}

// Handlers

// register accepts the volunteer enrollment form as multipart/form-data;
// photo and signature come in as file parts.
func (api *volunteerApi) register(ctx echo.Context) error {
	data, err := bindNewVolunteer(ctx)
	if err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	vol, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering volunteer")
	}
	return ctx.JSON(http.StatusCreated, vol)
}

func bindNewVolunteer(ctx echo.Context) (volunteer.NewVolunteer, error) {
	var data volunteer.NewVolunteer
	var err error

	data.StudentID = ctx.FormValue("student_id")
	data.KTUID = ctx.FormValue("ktu_id")
	data.Name = ctx.FormValue("name")
	data.Email = ctx.FormValue("email")
	data.Mobile = ctx.FormValue("mobile")
	data.Gender = ctx.FormValue("gender")
	data.BloodGroup = ctx.FormValue("blood_group")
	data.Religion = ctx.FormValue("religion")
	data.Category = ctx.FormValue("category")
	data.Course = ctx.FormValue("course")
	data.Department = ctx.FormValue("department")
	data.College = ctx.FormValue("college")
	data.Address = ctx.FormValue("address")
	data.District = ctx.FormValue("district")
	data.Pincode = ctx.FormValue("pincode")
	data.GuardianName = ctx.FormValue("guardian_name")
	data.GuardianPhone = ctx.FormValue("guardian_phone")

	if data.DateOfBirth, err = formDate(ctx, "date_of_birth"); err != nil {
		return data, err
	}
	if data.Semester, err = formInt(ctx, "semester"); err != nil {
		return data, err
	}
	if data.YearOfJoining, err = formInt(ctx, "year_of_joining"); err != nil {
		return data, err
	}
	if data.HeightCM, err = formNullInt(ctx, "height_cm"); err != nil {
		return data, err
	}
	if data.WeightKG, err = formNullInt(ctx, "weight_kg"); err != nil {
		return data, err
	}
	if data.Photo, err = formFile(ctx, "photo"); err != nil {
		return data, err
	}
	if data.Signature, err = formFile(ctx, "signature"); err != nil {
		return data, err
	}
	return data, nil
}

func (api *volunteerApi) query(ctx echo.Context) error {
	filter := new(volunteer.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []volunteer.Volunteer{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	vols, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying volunteers")
	}
	if vols == nil {
		vols = []volunteer.Volunteer{}
	}
	return ctx.JSON(http.StatusOK, vols)
}

func (api *volunteerApi) dashboard(ctx echo.Context) error {
	var filter volunteer.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	dash, err := api.svc.GetDashboard(ctx.Request().Context(), ctx.QueryParam("unit_id"), filter)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *volunteerApi) retrieve(ctx echo.Context) error {
	vol, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == volunteer.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding volunteer by ID")
	}
	return ctx.JSON(http.StatusOK, vol)
}

func (api *volunteerApi) retrieveByStudent(ctx echo.Context) error {
	vol, err := api.svc.GetByStudent(ctx.Request().Context(), ctx.Param("student_id"))
	if err != nil {
		if errors.Cause(err) == volunteer.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding volunteer by student ID")
	}
	return ctx.JSON(http.StatusOK, vol)
}

func (api *volunteerApi) updateStatus(ctx echo.Context) error {
	var data volunteer.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	vol, err := api.svc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data.Status, actor)
	if err != nil {
		switch errors.Cause(err) {
		case volunteer.ErrNotFound:
			return errHttpNotFound
		case volunteer.ErrPermissionDenied:
			return errHttpForbidden
		}
		return errors.Wrap(err, "updating volunteer status")
	}
	return ctx.JSON(http.StatusOK, vol)
}

func (api *volunteerApi) bulkUpdateStatus(ctx echo.Context) error {
	var data volunteer.BulkStatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkStatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	n, err := api.svc.BulkUpdateStatus(ctx.Request().Context(), data.IDs, data.Status, actor)
	if err != nil {
		if errors.Cause(err) == volunteer.ErrPermissionDenied {
			return errHttpForbidden
		}
		return errors.Wrap(err, "bulk updating volunteer status")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: fmt.Sprintf("%d volunteers marked %s", n, data.Status),
	})
}

func (api *volunteerApi) exportCSV(ctx echo.Context) error {
	filter := new(volunteer.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	vols, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying volunteers")
	}

	var buf bytes.Buffer
	if err := report.WriteVolunteersCSV(&buf, vols); err != nil {
		return errors.Wrap(err, "writing volunteers CSV")
	}
	return sendAttachment(ctx, report.CSVFilename("volunteers", time.Now()), "text/csv", buf.Bytes())
}

func (api *volunteerApi) exportReport(ctx echo.Context) error {
	var filter volunteer.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	dash, err := api.svc.GetDashboard(ctx.Request().Context(), ctx.QueryParam("unit_id"), filter)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := report.WriteVolunteersWithStats(&buf, dash.Volunteers, dash.Stats, now); err != nil {
		return errors.Wrap(err, "writing volunteers report")
	}
	return sendAttachment(ctx, report.CSVFilename("volunteer-report", now), "text/csv", buf.Bytes())
}

func sendAttachment(ctx echo.Context, filename, contentType string, body []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, contentType, body)
}
