package activity

import (
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/nsscell/portal/core"
)

// submission statuses; independent of the volunteer lifecycle
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type (
	BloodDonation struct {
		ID             string    `db:"id" json:"id"`
		StudentID      string    `db:"student_id" json:"student_id"`
		HospitalName   string    `db:"hospital_name" json:"hospital_name"`
		DonationDate   time.Time `db:"donation_date" json:"donation_date"`
		Units          int       `db:"units" json:"units"`
		CertificateURL string    `db:"certificate_url" json:"certificate_url"`
		Status         string    `db:"status" json:"status"`
		CreatedAt      time.Time `db:"created_at" json:"created_at"`
		UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
	}

	TreeTagging struct {
		ID         string    `db:"id" json:"id"`
		StudentID  string    `db:"student_id" json:"student_id"`
		Species    string    `db:"species" json:"species"`
		Count      int       `db:"count" json:"count"`
		TaggedDate time.Time `db:"tagged_date" json:"tagged_date"`
		Location   string    `db:"location" json:"location"`
		Status     string    `db:"status" json:"status"`
		CreatedAt  time.Time `db:"created_at" json:"created_at"`
		UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	}

	NewBloodDonation struct {
		StudentID    string      `json:"student_id" validate:"required"`
		HospitalName string      `json:"hospital_name" validate:"required"`
		DonationDate time.Time   `json:"donation_date" validate:"required"`
		Units        int         `json:"units" validate:"required,min=1"`
		Certificate  core.Upload `json:"-"`
	}

	NewTreeTagging struct {
		StudentID  string    `json:"student_id" validate:"required"`
		Species    string    `json:"species" validate:"required"`
		Count      int       `json:"count" validate:"required,min=1"`
		TaggedDate time.Time `json:"tagged_date" validate:"required"`
		Location   string    `json:"location" validate:"required"`
	}

	QueryFilter struct {
		StudentID string `json:"student_id" query:"student_id"`
		Status    string `json:"status" query:"status"`

		SubmittedFrom time.Time `json:"submitted_from" query:"-"`
		SubmittedTo   time.Time `json:"submitted_to" query:"-"`
	}
)

func (nb *NewBloodDonation) Validate(validate *validator.Validate) error {
	nb.StudentID = core.CleanString(nb.StudentID)
	nb.HospitalName = core.CleanString(nb.HospitalName)
	return validate.Struct(nb)
}

func (nt *NewTreeTagging) Validate(validate *validator.Validate) error {
	nt.StudentID = core.CleanString(nt.StudentID)
	nt.Species = core.CleanString(nt.Species)
	nt.Location = core.CleanString(nt.Location)
	return validate.Struct(nt)
}

func (f *QueryFilter) IsEmpty() bool {
	return f == nil || (f.StudentID == "" && f.Status == "" &&
		f.SubmittedFrom.IsZero() && f.SubmittedTo.IsZero())
}

func (f *QueryFilter) Clean() {
	f.StudentID = core.CleanString(f.StudentID)
	f.Status = core.CleanString(f.Status, true)
}
