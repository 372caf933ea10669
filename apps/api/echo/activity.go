package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/activity"
	"github.com/nsscell/portal/core/user"
)

type activityApi struct {
	svc      activity.ServiceInterface
	userSvc  user.ServiceInterface
	validate *validator.Validate
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := activityApi{
		svc:      deps.ActivitySvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/activities", jwt)

	bg := ag.Group("/blood-donations")
	bg.POST("", api.submitBloodDonation)
	bg.GET("", api.queryBloodDonations)
	bg.PUT("/:id/status", api.updateBloodDonationStatus, unitOrAdminMiddleware())

	tg := ag.Group("/tree-taggings")
	tg.POST("", api.submitTreeTagging)
	tg.GET("", api.queryTreeTaggings)
	tg.PUT("/:id/status", api.updateTreeTaggingStatus, unitOrAdminMiddleware())
}

// Handlers

// submitBloodDonation accepts multipart/form-data; the certificate file part
// is optional.
func (api *activityApi) submitBloodDonation(ctx echo.Context) error {
	var data activity.NewBloodDonation
	var err error

	data.StudentID = ctx.FormValue("student_id")
	data.HospitalName = ctx.FormValue("hospital_name")
	if data.DonationDate, err = formDate(ctx, "donation_date"); err != nil {
		return err
	}
	if data.Units, err = formInt(ctx, "units"); err != nil {
		return err
	}
	if data.Certificate, err = formFile(ctx, "certificate"); err != nil {
		return err
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	don, err := api.svc.SubmitBloodDonation(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting blood donation")
	}
	return ctx.JSON(http.StatusCreated, don)
}

func (api *activityApi) submitTreeTagging(ctx echo.Context) error {
	var data activity.NewTreeTagging
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTreeTagging")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tag, err := api.svc.SubmitTreeTagging(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting tree tagging")
	}
	return ctx.JSON(http.StatusCreated, tag)
}

func (api *activityApi) queryBloodDonations(ctx echo.Context) error {
	filter := new(activity.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []activity.BloodDonation{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	dons, err := api.svc.QueryBloodDonations(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying blood donations")
	}
	if dons == nil {
		dons = []activity.BloodDonation{}
	}
	return ctx.JSON(http.StatusOK, dons)
}

func (api *activityApi) queryTreeTaggings(ctx echo.Context) error {
	filter := new(activity.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []activity.TreeTagging{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	tags, err := api.svc.QueryTreeTaggings(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying tree taggings")
	}
	if tags == nil {
		tags = []activity.TreeTagging{}
	}
	return ctx.JSON(http.StatusOK, tags)
}

func (api *activityApi) updateBloodDonationStatus(ctx echo.Context) error {
	status, actor, err := api.bindStatusUpdate(ctx)
	if err != nil {
		return err
	}

	don, err := api.svc.UpdateBloodDonationStatus(ctx.Request().Context(), ctx.Param("id"), status, actor)
	if err != nil {
		return activityStatusErr(err, "updating blood donation status")
	}
	return ctx.JSON(http.StatusOK, don)
}

func (api *activityApi) updateTreeTaggingStatus(ctx echo.Context) error {
	status, actor, err := api.bindStatusUpdate(ctx)
	if err != nil {
		return err
	}

	tag, err := api.svc.UpdateTreeTaggingStatus(ctx.Request().Context(), ctx.Param("id"), status, actor)
	if err != nil {
		return activityStatusErr(err, "updating tree tagging status")
	}
	return ctx.JSON(http.StatusOK, tag)
}

func (api *activityApi) bindStatusUpdate(ctx echo.Context) (string, user.User, error) {
	var data struct {
		Status string `json:"status" validate:"required"`
	}
	if err := ctx.Bind(&data); err != nil {
		return "", user.User{}, errors.Wrap(err, "binding status update")
	}
	if err := api.validate.Struct(&data); err != nil {
		return "", user.User{}, err
	}

	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return "", user.User{}, errors.Wrap(err, "getting context user")
	}
	return data.Status, actor, nil
}

func activityStatusErr(err error, msg string) error {
	switch errors.Cause(err) {
	case activity.ErrNotFound:
		return errHttpNotFound
	case activity.ErrPermissionDenied:
		return errHttpForbidden
	}
	return errors.Wrap(err, msg)
}
