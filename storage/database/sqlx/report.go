package sqlxrepos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/report"
)

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

const overallStatsSQL = `
SELECT (SELECT COUNT(*) FROM volunteer)                                         AS total_volunteers,
       (SELECT COUNT(*) FROM volunteer WHERE status = 'pending')                AS pending_volunteers,
       (SELECT COUNT(*) FROM volunteer WHERE status = 'approved')               AS approved_volunteers,
       (SELECT COUNT(*) FROM volunteer WHERE status = 'rejected')               AS rejected_volunteers,
       (SELECT COUNT(*) FROM volunteer WHERE status = 'certified')              AS certified_volunteers,
       (SELECT COUNT(*) FROM blood_donation)                                    AS blood_donations,
       (SELECT COUNT(*) FROM blood_donation WHERE status = 'approved')          AS approved_blood_donations,
       (SELECT COUNT(*) FROM tree_tagging)                                      AS tree_taggings,
       (SELECT COUNT(*) FROM tree_tagging WHERE status = 'approved')            AS approved_tree_taggings`

func (repo reportRepository) OverallStats(ctx context.Context) (report.OverallStats, error) {
	var stats report.OverallStats
	if err := repo.db.GetContext(ctx, &stats, overallStatsSQL); err != nil {
		return report.OverallStats{}, errors.Wrap(err, "querying overall stats")
	}
	return stats, nil
}

// unitReportsSQL replaces the old multi-pass in-memory aggregation: volunteers
// grouped per unit with their approved activity contributions joined in.
const unitReportsSQL = `
SELECT u.id                                                     AS unit_id,
       u.name                                                   AS unit_name,
       COUNT(v.id)                                              AS total,
       COUNT(v.id) FILTER (WHERE v.status = 'pending')          AS pending,
       COUNT(v.id) FILTER (WHERE v.status = 'approved')         AS approved,
       COUNT(v.id) FILTER (WHERE v.status = 'rejected')         AS rejected,
       COUNT(v.id) FILTER (WHERE v.status = 'certified')        AS certified,
       COALESCE((SELECT SUM(bd.units)
                 FROM blood_donation bd
                 JOIN volunteer bv ON bv.student_id = bd.student_id
                 WHERE bv.unit_id = u.id AND bd.status = 'approved'), 0) AS blood_units,
       COALESCE((SELECT SUM(tt.count)
                 FROM tree_tagging tt
                 JOIN volunteer tv ON tv.student_id = tt.student_id
                 WHERE tv.unit_id = u.id AND tt.status = 'approved'), 0) AS trees_tagged
FROM nss_unit u
LEFT JOIN volunteer v ON v.unit_id = u.id
GROUP BY u.id, u.name
ORDER BY u.name`

func (repo reportRepository) UnitReports(ctx context.Context) ([]report.UnitReport, error) {
	var reports []report.UnitReport
	if err := repo.db.SelectContext(ctx, &reports, unitReportsSQL); err != nil {
		return nil, errors.Wrap(err, "querying unit reports")
	}
	return reports, nil
}

const monthlyTrendsSQL = `
SELECT date_trunc('month', created_at)                    AS month,
       COUNT(*)                                           AS registrations,
       COUNT(*) FILTER (WHERE status IN ('approved', 'certified')) AS approvals
FROM volunteer
WHERE created_at >= date_trunc('month', now()) - interval '%d months'
GROUP BY 1
ORDER BY 1`

func (repo reportRepository) MonthlyTrends(ctx context.Context, months int) ([]report.MonthlyTrend, error) {
	var trends []report.MonthlyTrend
	if err := repo.db.SelectContext(ctx, &trends, fmt.Sprintf(monthlyTrendsSQL, months)); err != nil {
		return nil, errors.Wrap(err, "querying monthly trends")
	}
	return trends, nil
}
