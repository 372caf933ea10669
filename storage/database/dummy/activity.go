package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/activity"
)

type activityRepository struct {
	donations *donationTable
	taggings  *taggingTable
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{donations: db.donation, taggings: db.tagging}
}

func (repo *activityRepository) CreateBloodDonation(_ context.Context, bd activity.BloodDonation) (activity.BloodDonation, error) {
	repo.donations.Lock()
	defer repo.donations.Unlock()

	if bd.ID == "" {
		bd.ID = uuid.New().String()
	}
	repo.donations.table[bd.ID] = &bd
	return bd, nil
}

func (repo *activityRepository) GetBloodDonation(_ context.Context, id string) (activity.BloodDonation, error) {
	repo.donations.RLock()
	defer repo.donations.RUnlock()

	if bd, ok := repo.donations.table[id]; ok {
		return *bd, nil
	}
	return activity.BloodDonation{}, activity.ErrNotFound
}

func (repo *activityRepository) QueryBloodDonations(_ context.Context, filter *activity.QueryFilter, _ ...core.DBOrdering) ([]activity.BloodDonation, error) {
	repo.donations.RLock()
	defer repo.donations.RUnlock()

	var res []activity.BloodDonation
	for _, bd := range repo.donations.table {
		if !donationMatches(*bd, filter) {
			continue
		}
		res = append(res, *bd)
	}
	return res, nil
}

func (repo *activityRepository) UpdateBloodDonationStatus(_ context.Context, id, status string) (activity.BloodDonation, error) {
	repo.donations.Lock()
	defer repo.donations.Unlock()

	bd, ok := repo.donations.table[id]
	if !ok {
		return activity.BloodDonation{}, activity.ErrNotFound
	}
	bd.Status = status
	return *bd, nil
}

func (repo *activityRepository) CreateTreeTagging(_ context.Context, tt activity.TreeTagging) (activity.TreeTagging, error) {
	repo.taggings.Lock()
	defer repo.taggings.Unlock()

	if tt.ID == "" {
		tt.ID = uuid.New().String()
	}
	repo.taggings.table[tt.ID] = &tt
	return tt, nil
}

func (repo *activityRepository) GetTreeTagging(_ context.Context, id string) (activity.TreeTagging, error) {
	repo.taggings.RLock()
	defer repo.taggings.RUnlock()

	if tt, ok := repo.taggings.table[id]; ok {
		return *tt, nil
	}
	return activity.TreeTagging{}, activity.ErrNotFound
}

func (repo *activityRepository) QueryTreeTaggings(_ context.Context, filter *activity.QueryFilter, _ ...core.DBOrdering) ([]activity.TreeTagging, error) {
	repo.taggings.RLock()
	defer repo.taggings.RUnlock()

	var res []activity.TreeTagging
	for _, tt := range repo.taggings.table {
		if !taggingMatches(*tt, filter) {
			continue
		}
		res = append(res, *tt)
	}
	return res, nil
}

func (repo *activityRepository) UpdateTreeTaggingStatus(_ context.Context, id, status string) (activity.TreeTagging, error) {
	repo.taggings.Lock()
	defer repo.taggings.Unlock()

	tt, ok := repo.taggings.table[id]
	if !ok {
		return activity.TreeTagging{}, activity.ErrNotFound
	}
	tt.Status = status
	return *tt, nil
}

func donationMatches(bd activity.BloodDonation, filter *activity.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.StudentID != "" && bd.StudentID != filter.StudentID {
		return false
	}
	if filter.Status != "" && bd.Status != filter.Status {
		return false
	}
	if !filter.SubmittedFrom.IsZero() && bd.CreatedAt.Before(filter.SubmittedFrom.UTC()) {
		return false
	}
	if !filter.SubmittedTo.IsZero() && bd.CreatedAt.After(filter.SubmittedTo.UTC()) {
		return false
	}
	return true
}

func taggingMatches(tt activity.TreeTagging, filter *activity.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.StudentID != "" && tt.StudentID != filter.StudentID {
		return false
	}
	if filter.Status != "" && tt.Status != filter.Status {
		return false
	}
	if !filter.SubmittedFrom.IsZero() && tt.CreatedAt.Before(filter.SubmittedFrom.UTC()) {
		return false
	}
	if !filter.SubmittedTo.IsZero() && tt.CreatedAt.After(filter.SubmittedTo.UTC()) {
		return false
	}
	return true
}
