package report

import (
	"context"
)

type (
	Repository interface {
		// OverallStats runs the portal-wide aggregate in a single query.
		OverallStats(ctx context.Context) (OverallStats, error)
		// UnitReports groups volunteers and approved activity contributions
		// by unit on the database side.
		UnitReports(ctx context.Context) ([]UnitReport, error)
		// MonthlyTrends buckets registrations and approvals per month for the
		// trailing number of months.
		MonthlyTrends(ctx context.Context, months int) ([]MonthlyTrend, error)
	}

	ServiceInterface interface {
		OverallStats(ctx context.Context) (OverallStats, error)
		UnitReports(ctx context.Context) ([]UnitReport, error)
		MonthlyTrends(ctx context.Context, months int) ([]MonthlyTrend, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

const defaultTrendMonths = 12

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) OverallStats(ctx context.Context) (OverallStats, error) {
	return svc.repo.OverallStats(ctx)
}

func (svc *service) UnitReports(ctx context.Context) ([]UnitReport, error) {
	return svc.repo.UnitReports(ctx)
}

func (svc *service) MonthlyTrends(ctx context.Context, months int) ([]MonthlyTrend, error) {
	if months <= 0 {
		months = defaultTrendMonths
	}
	return svc.repo.MonthlyTrends(ctx, months)
}
