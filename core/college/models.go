package college

import (
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/nsscell/portal/core"
)

type (
	College struct {
		ID       string `db:"id" json:"id"`
		Name     string `db:"name" json:"name"`
		District string `db:"district" json:"district"`
	}

	Course struct {
		Code string `db:"code" json:"code"`
		Name string `db:"name" json:"name"`
	}

	// Unit is an NSS unit attached to a college. Legacy data calls these
	// "faculties"; only the name changed.
	Unit struct {
		ID        string    `db:"id" json:"id"`
		Name      string    `db:"name" json:"name"`
		CollegeID string    `db:"college_id" json:"college_id"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}

	// UnitProfile is a unit joined with its college's display fields.
	UnitProfile struct {
		Unit
		CollegeName     string `db:"college_name" json:"college_name"`
		CollegeDistrict string `db:"college_district" json:"college_district"`
	}

	NewCourse struct {
		Code string `json:"code" validate:"required,alphanum_"`
		Name string `json:"name" validate:"required"`
	}
)

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}
