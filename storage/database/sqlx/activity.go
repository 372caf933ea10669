package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo activityRepository) filterSQL(filter *activity.QueryFilter, args *[]interface{}) string {
	var conds []string

	arg := func(v interface{}) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}

	if filter != nil {
		if filter.StudentID != "" {
			conds = append(conds, fmt.Sprintf("student_id = %s", arg(filter.StudentID)))
		}
		if filter.Status != "" {
			conds = append(conds, fmt.Sprintf("status = %s", arg(filter.Status)))
		}
		if !filter.SubmittedFrom.IsZero() {
			conds = append(conds, fmt.Sprintf("created_at >= %s", arg(filter.SubmittedFrom.UTC())))
		}
		if !filter.SubmittedTo.IsZero() {
			conds = append(conds, fmt.Sprintf("created_at <= %s", arg(filter.SubmittedTo.UTC())))
		}
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

const insertBloodDonationSQL = `
INSERT INTO blood_donation (id, student_id, hospital_name, donation_date, units, certificate_url, status, created_at, updated_at)
VALUES (:id, :student_id, :hospital_name, :donation_date, :units, :certificate_url, :status, :created_at, :updated_at)`

func (repo activityRepository) CreateBloodDonation(ctx context.Context, bd activity.BloodDonation) (activity.BloodDonation, error) {
	if _, err := repo.db.NamedExecContext(ctx, insertBloodDonationSQL, bd); err != nil {
		return activity.BloodDonation{}, errors.Wrap(err, "inserting blood donation")
	}
	return bd, nil
}

func (repo activityRepository) GetBloodDonation(ctx context.Context, id string) (activity.BloodDonation, error) {
	var bd activity.BloodDonation
	if err := repo.db.GetContext(ctx, &bd, `SELECT * FROM blood_donation WHERE id = $1`, id); err != nil {
		return activity.BloodDonation{}, trapNoRowsErr(err, activity.ErrNotFound, "finding blood donation")
	}
	return bd, nil
}

func (repo activityRepository) QueryBloodDonations(ctx context.Context, filter *activity.QueryFilter, ordering ...core.DBOrdering) ([]activity.BloodDonation, error) {
	var args []interface{}
	q := `SELECT * FROM blood_donation` + repo.filterSQL(filter, &args) + orderBy(ordering)

	var res []activity.BloodDonation
	if err := repo.db.SelectContext(ctx, &res, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying blood donations")
	}
	return res, nil
}

func (repo activityRepository) UpdateBloodDonationStatus(ctx context.Context, id, status string) (activity.BloodDonation, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE blood_donation SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return activity.BloodDonation{}, errors.Wrap(err, "updating blood donation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return activity.BloodDonation{}, activity.ErrNotFound
	}
	return repo.GetBloodDonation(ctx, id)
}

const insertTreeTaggingSQL = `
INSERT INTO tree_tagging (id, student_id, species, count, tagged_date, location, status, created_at, updated_at)
VALUES (:id, :student_id, :species, :count, :tagged_date, :location, :status, :created_at, :updated_at)`

func (repo activityRepository) CreateTreeTagging(ctx context.Context, tt activity.TreeTagging) (activity.TreeTagging, error) {
	if _, err := repo.db.NamedExecContext(ctx, insertTreeTaggingSQL, tt); err != nil {
		return activity.TreeTagging{}, errors.Wrap(err, "inserting tree tagging")
	}
	return tt, nil
}

func (repo activityRepository) GetTreeTagging(ctx context.Context, id string) (activity.TreeTagging, error) {
	var tt activity.TreeTagging
	if err := repo.db.GetContext(ctx, &tt, `SELECT * FROM tree_tagging WHERE id = $1`, id); err != nil {
		return activity.TreeTagging{}, trapNoRowsErr(err, activity.ErrNotFound, "finding tree tagging")
	}
	return tt, nil
}

func (repo activityRepository) QueryTreeTaggings(ctx context.Context, filter *activity.QueryFilter, ordering ...core.DBOrdering) ([]activity.TreeTagging, error) {
	var args []interface{}
	q := `SELECT * FROM tree_tagging` + repo.filterSQL(filter, &args) + orderBy(ordering)

	var res []activity.TreeTagging
	if err := repo.db.SelectContext(ctx, &res, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying tree taggings")
	}
	return res, nil
}

func (repo activityRepository) UpdateTreeTaggingStatus(ctx context.Context, id, status string) (activity.TreeTagging, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE tree_tagging SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return activity.TreeTagging{}, errors.Wrap(err, "updating tree tagging")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return activity.TreeTagging{}, activity.ErrNotFound
	}
	return repo.GetTreeTagging(ctx, id)
}
