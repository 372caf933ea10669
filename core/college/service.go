package college

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nsscell/portal/core"
)

var (
	// errors
	ErrCollegeNotFound = errors.New("college not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseExists    = errors.New("a course with this code already exists")
	ErrUnitNotFound    = errors.New("unit not found")
)

type (
	Repository interface {
		QueryColleges(ctx context.Context, district string) ([]College, error)
		GetCollege(ctx context.Context, id string) (College, error)

		QueryCourses(ctx context.Context) ([]Course, error)
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, code string) error

		QueryUnits(ctx context.Context, collegeID string) ([]Unit, error)
		// GetUnitProfile joins the unit with its college in one query.
		GetUnitProfile(ctx context.Context, unitID string) (UnitProfile, error)
	}

	ServiceInterface interface {
		Colleges(ctx context.Context, district string) ([]College, error)
		Courses(ctx context.Context) ([]Course, error)
		AddCourse(ctx context.Context, nc NewCourse) (Course, error)
		DeleteCourse(ctx context.Context, code string) error
		Units(ctx context.Context, collegeID string) ([]Unit, error)
		UnitProfile(ctx context.Context, unitID string) (UnitProfile, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Colleges(ctx context.Context, district string) ([]College, error) {
	return svc.repo.QueryColleges(ctx, core.CleanString(district))
}

func (svc *service) Courses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *service) AddCourse(ctx context.Context, nc NewCourse) (Course, error) {
	crs, err := svc.repo.CreateCourse(ctx, Course{Code: nc.Code, Name: nc.Name})
	if err != nil {
		if errors.Cause(err) == ErrCourseExists {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "code", Error: ErrCourseExists.Error()})
		}
		return Course{}, err
	}
	return crs, nil
}

func (svc *service) DeleteCourse(ctx context.Context, code string) error {
	return svc.repo.DeleteCourse(ctx, core.CleanString(code, true /* lower */))
}

func (svc *service) Units(ctx context.Context, collegeID string) ([]Unit, error) {
	return svc.repo.QueryUnits(ctx, collegeID)
}

func (svc *service) UnitProfile(ctx context.Context, unitID string) (UnitProfile, error) {
	return svc.repo.GetUnitProfile(ctx, unitID)
}
