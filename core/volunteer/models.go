package volunteer

import (
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/nsscell/portal/core"
)

// volunteer statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCertified = "certified"
)

// Statuses lists the valid values for Volunteer.Status, eg. for dropdowns.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCertified}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type (
	Volunteer struct {
		ID            string      `db:"id" json:"id"`
		StudentID     string      `db:"student_id" json:"student_id"`
		KTUID         string      `db:"ktu_id" json:"ktu_id"`
		Name          string      `db:"name" json:"name"`
		Email         string      `db:"email" json:"email"`
		Mobile        string      `db:"mobile" json:"mobile"`
		DateOfBirth   time.Time   `db:"date_of_birth" json:"date_of_birth"`
		Gender        string      `db:"gender" json:"gender"`
		BloodGroup    string      `db:"blood_group" json:"blood_group"`
		Religion      string      `db:"religion" json:"religion"`
		Category      string      `db:"category" json:"category"`
		Course        string      `db:"course" json:"course"`
		Department    string      `db:"department" json:"department"`
		Semester      int         `db:"semester" json:"semester"`
		YearOfJoining int         `db:"year_of_joining" json:"year_of_joining"`
		College       string      `db:"college" json:"college"`
		Address       string      `db:"address" json:"address"`
		District      string      `db:"district" json:"district"`
		Pincode       string      `db:"pincode" json:"pincode"`
		GuardianName  string      `db:"guardian_name" json:"guardian_name"`
		GuardianPhone string      `db:"guardian_phone" json:"guardian_phone"`
		HeightCM      null.Int    `db:"height_cm" json:"height_cm"`
		WeightKG      null.Int    `db:"weight_kg" json:"weight_kg"`
		PhotoURL      string      `db:"photo_url" json:"photo_url"`
		SignatureURL  string      `db:"signature_url" json:"signature_url"`
		UnitID        null.String `db:"unit_id" json:"unit_id"`
		Status        string      `db:"status" json:"status"`
		CreatedAt     time.Time   `db:"created_at" json:"created_at"`
		UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
	}

	// NewVolunteer is the registration form payload. Photo and signature come
	// in as raw uploads and are stored before the row insert.
	NewVolunteer struct {
		StudentID     string      `json:"student_id" validate:"required"`
		KTUID         string      `json:"ktu_id" validate:"required,alphanum_"`
		Name          string      `json:"name" validate:"required"`
		Email         string      `json:"email" validate:"required,email"`
		Mobile        string      `json:"mobile" validate:"required,mobile"`
		DateOfBirth   time.Time   `json:"date_of_birth" validate:"required"`
		Gender        string      `json:"gender" validate:"required"`
		BloodGroup    string      `json:"blood_group" validate:"required"`
		Religion      string      `json:"religion"`
		Category      string      `json:"category"`
		Course        string      `json:"course" validate:"required"`
		Department    string      `json:"department"`
		Semester      int         `json:"semester" validate:"required,min=1,max=10"`
		YearOfJoining int         `json:"year_of_joining" validate:"required"`
		College       string      `json:"college" validate:"required"`
		Address       string      `json:"address" validate:"required"`
		District      string      `json:"district" validate:"required"`
		Pincode       string      `json:"pincode" validate:"required,numeric,len=6"`
		GuardianName  string      `json:"guardian_name" validate:"required"`
		GuardianPhone string      `json:"guardian_phone" validate:"required,mobile"`
		HeightCM      null.Int    `json:"height_cm"`
		WeightKG      null.Int    `json:"weight_kg"`
		Photo         core.Upload `json:"-"`
		Signature     core.Upload `json:"-"`
	}

	StatusUpdate struct {
		Status string `json:"status" validate:"required,volstatus"`
	}

	BulkStatusUpdate struct {
		IDs    []string `json:"ids" validate:"required,min=1"`
		Status string   `json:"status" validate:"required,volstatus"`
	}

	// QueryFilter is merged shallowly field by field: a set field on the
	// incoming filter replaces the previous value, everything else is kept.
	QueryFilter struct {
		Search   string `json:"search" query:"search"`
		Status   string `json:"status" query:"status"`
		Course   string `json:"course" query:"course"`
		District string `json:"district" query:"district"`
		UnitID   string `json:"unit_id" query:"unit_id"`

		CreatedFrom time.Time `json:"created_from" query:"-"`
		CreatedTo   time.Time `json:"created_to" query:"-"`
	}
)

func (nv *NewVolunteer) Validate(validate *validator.Validate) error {
	nv.StudentID = core.CleanString(nv.StudentID)
	nv.KTUID = core.CleanString(nv.KTUID, true)
	nv.Name = core.CleanString(nv.Name)
	nv.Email = core.CleanString(nv.Email, true)
	nv.Mobile = core.CleanString(nv.Mobile)
	nv.Gender = core.CleanString(nv.Gender, true)
	nv.District = core.CleanString(nv.District)
	if err := validate.Struct(nv); err != nil {
		return err
	}
	return nil
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true)
	return validate.Struct(su)
}

func (bu *BulkStatusUpdate) Validate(validate *validator.Validate) error {
	bu.Status = core.CleanString(bu.Status, true)
	return validate.Struct(bu)
}

func (f *QueryFilter) IsEmpty() bool {
	return f == nil || (f.Search == "" && f.Status == "" && f.Course == "" &&
		f.District == "" && f.UnitID == "" && f.CreatedFrom.IsZero() && f.CreatedTo.IsZero())
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search, true)
	f.Status = core.CleanString(f.Status, true)
	f.Course = core.CleanString(f.Course)
	f.District = core.CleanString(f.District)
}

// Merge overlays other onto f, field by field. Zero-valued fields on other
// leave f untouched.
func (f QueryFilter) Merge(other QueryFilter) QueryFilter {
	if other.Search != "" {
		f.Search = other.Search
	}
	if other.Status != "" {
		f.Status = other.Status
	}
	if other.Course != "" {
		f.Course = other.Course
	}
	if other.District != "" {
		f.District = other.District
	}
	if other.UnitID != "" {
		f.UnitID = other.UnitID
	}
	if !other.CreatedFrom.IsZero() {
		f.CreatedFrom = other.CreatedFrom
	}
	if !other.CreatedTo.IsZero() {
		f.CreatedTo = other.CreatedTo
	}
	return f
}

type GetFilter struct {
	ID        string
	StudentID string
	KTUID     string
}
