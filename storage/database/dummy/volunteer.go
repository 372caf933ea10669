package dummydb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/volunteer"
)

type volunteerRepository struct {
	db *volunteerTable
}

var _ volunteer.Repository = (*volunteerRepository)(nil) // interface compliance check

func NewVolunteerRepository(db *DB) *volunteerRepository {
	return &volunteerRepository{db: db.volunteer}
}

func (repo *volunteerRepository) query() []volunteer.Volunteer {
	vols := make([]volunteer.Volunteer, 0, len(repo.db.table))
	for _, v := range repo.db.table {
		vols = append(vols, *v)
	}
	return vols
}

func (repo *volunteerRepository) CreateVolunteer(_ context.Context, vol volunteer.Volunteer) (volunteer.Volunteer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, v := range repo.db.table {
		if v.StudentID == vol.StudentID {
			return volunteer.Volunteer{}, volunteer.ErrStudentExists
		}
		if v.KTUID == vol.KTUID {
			return volunteer.Volunteer{}, volunteer.ErrKTUIDExists
		}
	}
	if vol.ID == "" {
		vol.ID = uuid.New().String()
	}
	repo.db.table[vol.ID] = &vol
	return vol, nil
}

func (repo *volunteerRepository) GetVolunteer(_ context.Context, filter volunteer.GetFilter) (volunteer.Volunteer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, vol := range repo.query() {
		switch {
		case filter.ID != "" && vol.ID == filter.ID:
			return vol, nil
		case filter.StudentID != "" && vol.StudentID == filter.StudentID:
			return vol, nil
		case filter.KTUID != "" && vol.KTUID == filter.KTUID:
			return vol, nil
		}
	}
	return volunteer.Volunteer{}, volunteer.ErrNotFound
}

func (repo *volunteerRepository) QueryVolunteers(_ context.Context, filter *volunteer.QueryFilter, _ ...core.DBOrdering) ([]volunteer.Volunteer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	vols := repo.query()
	if filter == nil {
		return vols, nil
	}

	var filtered []volunteer.Volunteer
	for _, v := range vols {
		if filter.Search != "" && !volMatchesSearch(v, filter.Search) {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Course != "" && v.Course != filter.Course {
			continue
		}
		if filter.District != "" && v.District != filter.District {
			continue
		}
		if filter.UnitID != "" && v.UnitID.String != filter.UnitID {
			continue
		}
		if !filter.CreatedFrom.IsZero() && v.CreatedAt.Before(filter.CreatedFrom.UTC()) {
			continue
		}
		if !filter.CreatedTo.IsZero() && v.CreatedAt.After(filter.CreatedTo.UTC()) {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered, nil
}

func (repo *volunteerRepository) UpdateVolunteer(_ context.Context, vol volunteer.Volunteer) (volunteer.Volunteer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[vol.ID]; !ok {
		return volunteer.Volunteer{}, volunteer.ErrNotFound
	}
	repo.db.table[vol.ID] = &vol
	return vol, nil
}

func (repo *volunteerRepository) UpdateStatusByID(_ context.Context, status string, skip []string, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	var n int
	for _, id := range ids {
		if vol, ok := repo.db.table[id]; ok && !skipped[vol.Status] {
			vol.Status = status
			n++
		}
	}
	return n, nil
}

func (repo *volunteerRepository) CountByStatus(_ context.Context, unitID string) (volunteer.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats volunteer.Stats
	for _, v := range repo.query() {
		if unitID != "" && v.UnitID.String != unitID {
			continue
		}
		stats.Total++
		switch v.Status {
		case volunteer.StatusPending:
			stats.Pending++
		case volunteer.StatusApproved:
			stats.Approved++
		case volunteer.StatusRejected:
			stats.Rejected++
		case volunteer.StatusCertified:
			stats.Certified++
		}
	}
	return stats, nil
}

func volMatchesSearch(v volunteer.Volunteer, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(v.Name), search) ||
		strings.Contains(strings.ToLower(v.KTUID), search) ||
		strings.Contains(strings.ToLower(v.Email), search)
}
