package volunteer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("volunteer not found")
	ErrStudentExists    = errors.New("a volunteer record already exists for this student")
	ErrKTUIDExists      = errors.New("a volunteer record already exists with this KTU ID")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidStatus    = errors.New("invalid status")
)

type (
	// Stats aggregates volunteer counts per status, optionally scoped to a unit.
	Stats struct {
		Total     int `db:"total" json:"total"`
		Pending   int `db:"pending" json:"pending"`
		Approved  int `db:"approved" json:"approved"`
		Rejected  int `db:"rejected" json:"rejected"`
		Certified int `db:"certified" json:"certified"`
	}

	Dashboard struct {
		Volunteers []Volunteer `json:"volunteers"`
		Stats      Stats       `json:"stats"`
	}

	Repository interface {
		CreateVolunteer(ctx context.Context, vol Volunteer) (Volunteer, error)
		GetVolunteer(ctx context.Context, filter GetFilter) (Volunteer, error)
		// QueryVolunteers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name, KTUID or Email.
		QueryVolunteers(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Volunteer, error)
		UpdateVolunteer(ctx context.Context, vol Volunteer) (Volunteer, error)
		// UpdateStatusByID sets status on the given ids in one statement,
		// leaving rows whose current status is in skip untouched, and
		// reports how many rows changed.
		UpdateStatusByID(ctx context.Context, status string, skip []string, ids ...string) (int, error)
		// CountByStatus aggregates per-status counts, scoped to unitID when set.
		CountByStatus(ctx context.Context, unitID string) (Stats, error)
	}

	ServiceInterface interface {
		Register(ctx context.Context, nv NewVolunteer) (Volunteer, error)
		GetByID(ctx context.Context, id string) (Volunteer, error)
		GetByStudent(ctx context.Context, studentID string) (Volunteer, error)
		Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Volunteer, error)
		UpdateStatus(ctx context.Context, id, status string, actor user.User) (Volunteer, error)
		BulkUpdateStatus(ctx context.Context, ids []string, status string, actor user.User) (int, error)
		GetDashboard(ctx context.Context, unitID string, filter QueryFilter) (Dashboard, error)
	}

	service struct {
		repo     Repository
		uploader core.FileStorage
		conf     *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, uploader core.FileStorage, conf *core.Config) *service {
	return &service{
		repo:     repo,
		uploader: uploader,
		conf:     conf,
	}
}

// Register stores a new volunteer application. Duplicate checks run before
// any file upload; the unique constraints on student_id and ktu_id remain the
// authoritative guard. Photo and signature are optional; an absent part
// leaves its URL empty. Uploaded files are not removed if the insert fails.
func (svc *service) Register(ctx context.Context, nv NewVolunteer) (Volunteer, error) {
	if err := svc.checkDuplicates(ctx, nv.StudentID, nv.KTUID); err != nil {
		return Volunteer{}, err
	}

	var photoURL, signatureURL string
	if !nv.Photo.IsEmpty() {
		url, err := svc.uploader.Upload(
			ctx, core.BucketVolunteerPhotos, core.UploadName(nv.Photo.Filename, nv.StudentID), nv.Photo.Content)
		if err != nil {
			return Volunteer{}, errors.Wrap(err, "uploading photo")
		}
		photoURL = url
	}
	if !nv.Signature.IsEmpty() {
		url, err := svc.uploader.Upload(
			ctx, core.BucketVolunteerSignatures, core.UploadName(nv.Signature.Filename, nv.StudentID), nv.Signature.Content)
		if err != nil {
			return Volunteer{}, errors.Wrap(err, "uploading signature")
		}
		signatureURL = url
	}

	now := time.Now().UTC()
	vol := Volunteer{
		ID:            uuid.New().String(),
		StudentID:     nv.StudentID,
		KTUID:         nv.KTUID,
		Name:          nv.Name,
		Email:         nv.Email,
		Mobile:        nv.Mobile,
		DateOfBirth:   nv.DateOfBirth,
		Gender:        core.CleanString(nv.Gender, true /* lower */),
		BloodGroup:    nv.BloodGroup,
		Religion:      nv.Religion,
		Category:      nv.Category,
		Course:        nv.Course,
		Department:    nv.Department,
		Semester:      nv.Semester,
		YearOfJoining: nv.YearOfJoining,
		College:       nv.College,
		Address:       nv.Address,
		District:      nv.District,
		Pincode:       nv.Pincode,
		GuardianName:  nv.GuardianName,
		GuardianPhone: nv.GuardianPhone,
		HeightCM:      nv.HeightCM,
		WeightKG:      nv.WeightKG,
		PhotoURL:      photoURL,
		SignatureURL:  signatureURL,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	vol, err := svc.repo.CreateVolunteer(ctx, vol)
	if err != nil {
		return Volunteer{}, svc.wrapDuplicate(err)
	}
	return vol, nil
}

// checkDuplicates is the fast-path UX check: one query per field, in order,
// so the first conflict reports before anything is uploaded.
func (svc *service) checkDuplicates(ctx context.Context, studentID, ktuID string) error {
	if _, err := svc.repo.GetVolunteer(ctx, GetFilter{StudentID: studentID}); err == nil {
		return core.NewValidationError(ErrStudentExists, core.FieldError{Field: "student_id", Error: ErrStudentExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return err
	}
	if _, err := svc.repo.GetVolunteer(ctx, GetFilter{KTUID: ktuID}); err == nil {
		return core.NewValidationError(ErrKTUIDExists, core.FieldError{Field: "ktu_id", Error: ErrKTUIDExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return err
	}
	return nil
}

func (svc *service) wrapDuplicate(err error) error {
	switch errors.Cause(err) {
	case ErrStudentExists:
		return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: ErrStudentExists.Error()})
	case ErrKTUIDExists:
		return core.NewValidationError(err, core.FieldError{Field: "ktu_id", Error: ErrKTUIDExists.Error()})
	default:
		return err
	}
}

func (svc *service) GetByID(ctx context.Context, id string) (Volunteer, error) {
	return svc.repo.GetVolunteer(ctx, GetFilter{ID: id})
}

func (svc *service) GetByStudent(ctx context.Context, studentID string) (Volunteer, error) {
	return svc.repo.GetVolunteer(ctx, GetFilter{StudentID: studentID})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Volunteer, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryVolunteers(ctx, filter, ordering...)
}

// UpdateStatus moves a volunteer between statuses. Transitions are loose:
// any authorized caller can move in either direction, but entering or leaving
// "certified" takes an admin.
func (svc *service) UpdateStatus(ctx context.Context, id, status string, actor user.User) (Volunteer, error) {
	if !IsValidStatus(status) {
		return Volunteer{}, core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	vol, err := svc.repo.GetVolunteer(ctx, GetFilter{ID: id})
	if err != nil {
		return Volunteer{}, err
	}
	if err := checkTransition(vol.Status, status, actor); err != nil {
		return Volunteer{}, err
	}
	vol.Status = status
	vol.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateVolunteer(ctx, vol)
}

// BulkUpdateStatus applies one status to all ids in a single mutation and
// returns the number of affected rows. Certified rows only move under an
// admin; for unit officers the statement skips them, so a bulk approve or
// reject can never uncertify.
func (svc *service) BulkUpdateStatus(ctx context.Context, ids []string, status string, actor user.User) (int, error) {
	if !IsValidStatus(status) {
		return 0, core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	if status == StatusCertified && !actor.IsAdmin() {
		return 0, ErrPermissionDenied
	}
	if !actor.IsAdmin() && !actor.IsUnit() {
		return 0, ErrPermissionDenied
	}
	var skip []string
	if !actor.IsAdmin() {
		skip = []string{StatusCertified}
	}
	return svc.repo.UpdateStatusByID(ctx, status, skip, ids...)
}

// GetDashboard fetches the unit's volunteers (one query, unit scope forced
// onto the merged filter) alongside the unit's per-status aggregate.
func (svc *service) GetDashboard(ctx context.Context, unitID string, filter QueryFilter) (Dashboard, error) {
	merged := filter.Merge(QueryFilter{UnitID: unitID})
	merged.Clean()
	vols, err := svc.repo.QueryVolunteers(ctx, &merged)
	if err != nil {
		return Dashboard{}, err
	}
	stats, err := svc.repo.CountByStatus(ctx, unitID)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Volunteers: vols, Stats: stats}, nil
}

func checkTransition(from, to string, actor user.User) error {
	if from == StatusCertified || to == StatusCertified {
		if !actor.IsAdmin() {
			return ErrPermissionDenied
		}
		return nil
	}
	if !actor.IsAdmin() && !actor.IsUnit() {
		return ErrPermissionDenied
	}
	return nil
}
