package activity

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
	ErrNotFound         = errors.New("submission not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidStatus    = errors.New("invalid status")
)

type (
	Repository interface {
		CreateBloodDonation(ctx context.Context, bd BloodDonation) (BloodDonation, error)
		GetBloodDonation(ctx context.Context, id string) (BloodDonation, error)
		QueryBloodDonations(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]BloodDonation, error)
		UpdateBloodDonationStatus(ctx context.Context, id, status string) (BloodDonation, error)

		CreateTreeTagging(ctx context.Context, tt TreeTagging) (TreeTagging, error)
		GetTreeTagging(ctx context.Context, id string) (TreeTagging, error)
		QueryTreeTaggings(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]TreeTagging, error)
		UpdateTreeTaggingStatus(ctx context.Context, id, status string) (TreeTagging, error)
	}

	ServiceInterface interface {
		SubmitBloodDonation(ctx context.Context, nb NewBloodDonation) (BloodDonation, error)
		QueryBloodDonations(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]BloodDonation, error)
		UpdateBloodDonationStatus(ctx context.Context, id, status string, actor user.User) (BloodDonation, error)

		SubmitTreeTagging(ctx context.Context, nt NewTreeTagging) (TreeTagging, error)
		QueryTreeTaggings(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]TreeTagging, error)
		UpdateTreeTaggingStatus(ctx context.Context, id, status string, actor user.User) (TreeTagging, error)
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

// SubmitBloodDonation stores a donation record with its certificate, when one
// was attached. New submissions start out pending.
func (svc *service) SubmitBloodDonation(ctx context.Context, nb NewBloodDonation) (BloodDonation, error) {
	var certURL string
	if !nb.Certificate.IsEmpty() {
		var err error
		certURL, err = svc.uploader.Upload(
			ctx, core.BucketBloodCertificates, core.UploadName(nb.Certificate.Filename, nb.StudentID), nb.Certificate.Content)
		if err != nil {
			return BloodDonation{}, errors.Wrap(err, "uploading certificate")
		}
	}

	now := time.Now().UTC()
	bd := BloodDonation{
		ID:             uuid.New().String(),
		StudentID:      nb.StudentID,
		HospitalName:   nb.HospitalName,
		DonationDate:   nb.DonationDate,
		Units:          nb.Units,
		CertificateURL: certURL,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateBloodDonation(ctx, bd)
}

func (svc *service) QueryBloodDonations(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]BloodDonation, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryBloodDonations(ctx, filter, ordering...)
}

func (svc *service) UpdateBloodDonationStatus(ctx context.Context, id, status string, actor user.User) (BloodDonation, error) {
	if err := checkStatusUpdate(status, actor); err != nil {
		return BloodDonation{}, err
	}
	return svc.repo.UpdateBloodDonationStatus(ctx, id, status)
}

func (svc *service) SubmitTreeTagging(ctx context.Context, nt NewTreeTagging) (TreeTagging, error) {
	now := time.Now().UTC()
	tt := TreeTagging{
		ID:         uuid.New().String(),
		StudentID:  nt.StudentID,
		Species:    nt.Species,
		Count:      nt.Count,
		TaggedDate: nt.TaggedDate,
		Location:   nt.Location,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateTreeTagging(ctx, tt)
}

func (svc *service) QueryTreeTaggings(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]TreeTagging, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryTreeTaggings(ctx, filter, ordering...)
}

func (svc *service) UpdateTreeTaggingStatus(ctx context.Context, id, status string, actor user.User) (TreeTagging, error) {
	if err := checkStatusUpdate(status, actor); err != nil {
		return TreeTagging{}, err
	}
	return svc.repo.UpdateTreeTaggingStatus(ctx, id, status)
}

func checkStatusUpdate(status string, actor user.User) error {
	if !IsValidStatus(status) {
		return core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	if !actor.IsAdmin() && !actor.IsUnit() {
		return ErrPermissionDenied
	}
	return nil
}
