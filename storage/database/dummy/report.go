package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/nsscell/portal/core/report"
	"github.com/nsscell/portal/core/volunteer"
)

type reportRepository struct {
	db *DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) OverallStats(_ context.Context) (report.OverallStats, error) {
	var stats report.OverallStats

	repo.db.volunteer.RLock()
	for _, v := range repo.db.volunteer.table {
		stats.TotalVolunteers++
		switch v.Status {
		case volunteer.StatusPending:
			stats.PendingVolunteers++
		case volunteer.StatusApproved:
			stats.ApprovedVolunteers++
		case volunteer.StatusRejected:
			stats.RejectedVolunteers++
		case volunteer.StatusCertified:
			stats.CertifiedVolunteers++
		}
	}
	repo.db.volunteer.RUnlock()

	repo.db.donation.RLock()
	for _, bd := range repo.db.donation.table {
		stats.BloodDonations++
		if bd.Status == "approved" {
			stats.ApprovedBloodDonations++
		}
	}
	repo.db.donation.RUnlock()

	repo.db.tagging.RLock()
	for _, tt := range repo.db.tagging.table {
		stats.TreeTaggings++
		if tt.Status == "approved" {
			stats.ApprovedTreeTaggings++
		}
	}
	repo.db.tagging.RUnlock()

	return stats, nil
}

func (repo *reportRepository) UnitReports(_ context.Context) ([]report.UnitReport, error) {
	byUnit := make(map[string]*report.UnitReport)

	repo.db.unit.RLock()
	for _, u := range repo.db.unit.table {
		byUnit[u.ID] = &report.UnitReport{UnitID: u.ID, UnitName: u.Name}
	}
	repo.db.unit.RUnlock()

	studentUnit := make(map[string]string)

	repo.db.volunteer.RLock()
	for _, v := range repo.db.volunteer.table {
		if !v.UnitID.Valid {
			continue
		}
		rep, ok := byUnit[v.UnitID.String]
		if !ok {
			continue
		}
		studentUnit[v.StudentID] = v.UnitID.String
		rep.Total++
		switch v.Status {
		case volunteer.StatusPending:
			rep.Pending++
		case volunteer.StatusApproved:
			rep.Approved++
		case volunteer.StatusRejected:
			rep.Rejected++
		case volunteer.StatusCertified:
			rep.Certified++
		}
	}
	repo.db.volunteer.RUnlock()

	repo.db.donation.RLock()
	for _, bd := range repo.db.donation.table {
		if bd.Status != "approved" {
			continue
		}
		if unitID, ok := studentUnit[bd.StudentID]; ok {
			byUnit[unitID].BloodUnits += bd.Units
		}
	}
	repo.db.donation.RUnlock()

	repo.db.tagging.RLock()
	for _, tt := range repo.db.tagging.table {
		if tt.Status != "approved" {
			continue
		}
		if unitID, ok := studentUnit[tt.StudentID]; ok {
			byUnit[unitID].TreesTagged += tt.Count
		}
	}
	repo.db.tagging.RUnlock()

	reports := make([]report.UnitReport, 0, len(byUnit))
	for _, rep := range byUnit {
		reports = append(reports, *rep)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].UnitName < reports[j].UnitName })
	return reports, nil
}

func (repo *reportRepository) MonthlyTrends(_ context.Context, months int) ([]report.MonthlyTrend, error) {
	since := monthStart(time.Now().UTC()).AddDate(0, -months, 0)
	byMonth := make(map[time.Time]*report.MonthlyTrend)

	repo.db.volunteer.RLock()
	for _, v := range repo.db.volunteer.table {
		month := monthStart(v.CreatedAt.UTC())
		if month.Before(since) {
			continue
		}
		trend, ok := byMonth[month]
		if !ok {
			trend = &report.MonthlyTrend{Month: month}
			byMonth[month] = trend
		}
		trend.Registrations++
		if v.Status == volunteer.StatusApproved || v.Status == volunteer.StatusCertified {
			trend.Approvals++
		}
	}
	repo.db.volunteer.RUnlock()

	trends := make([]report.MonthlyTrend, 0, len(byMonth))
	for _, trend := range byMonth {
		trends = append(trends, *trend)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Month.Before(trends[j].Month) })
	return trends, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
