package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/volunteer"
)

type volunteerRepository struct {
	db *sqlx.DB
}

var _ volunteer.Repository = (*volunteerRepository)(nil) // interface compliance check

func NewVolunteerRepository(db *sqlx.DB) *volunteerRepository {
	return &volunteerRepository{db: db}
}

const insertVolunteerSQL = `
INSERT INTO volunteer (id, student_id, ktu_id, name, email, mobile, date_of_birth, gender, blood_group,
                       religion, category, course, department, semester, year_of_joining, college, address,
                       district, pincode, guardian_name, guardian_phone, height_cm, weight_kg, photo_url,
                       signature_url, unit_id, status, created_at, updated_at)
VALUES (:id, :student_id, :ktu_id, :name, :email, :mobile, :date_of_birth, :gender, :blood_group,
        :religion, :category, :course, :department, :semester, :year_of_joining, :college, :address,
        :district, :pincode, :guardian_name, :guardian_phone, :height_cm, :weight_kg, :photo_url,
        :signature_url, :unit_id, :status, :created_at, :updated_at)`

// CreateVolunteer inserts the row; the unique constraints on student_id and
// ktu_id are the authoritative duplicate guard and map to the domain errors.
func (repo volunteerRepository) CreateVolunteer(ctx context.Context, vol volunteer.Volunteer) (volunteer.Volunteer, error) {
	if _, err := repo.db.NamedExecContext(ctx, insertVolunteerSQL, vol); err != nil {
		switch {
		case uniqueViolation(err, "volunteer_student_id_key"):
			return volunteer.Volunteer{}, volunteer.ErrStudentExists
		case uniqueViolation(err, "volunteer_ktu_id_key"):
			return volunteer.Volunteer{}, volunteer.ErrKTUIDExists
		}
		return volunteer.Volunteer{}, errors.Wrap(err, "inserting volunteer")
	}
	return vol, nil
}

func (repo volunteerRepository) GetVolunteer(ctx context.Context, filter volunteer.GetFilter) (volunteer.Volunteer, error) {
	var q string
	var arg interface{}

	switch {
	case filter.ID != "":
		q = `SELECT * FROM volunteer WHERE id = $1`
		arg = filter.ID
	case filter.StudentID != "":
		q = `SELECT * FROM volunteer WHERE student_id = $1`
		arg = filter.StudentID
	case filter.KTUID != "":
		q = `SELECT * FROM volunteer WHERE ktu_id = $1`
		arg = filter.KTUID
	default:
		return volunteer.Volunteer{}, volunteer.ErrNotFound
	}

	var vol volunteer.Volunteer
	if err := repo.db.GetContext(ctx, &vol, q, arg); err != nil {
		return volunteer.Volunteer{}, trapNoRowsErr(err, volunteer.ErrNotFound, "finding volunteer")
	}
	return vol, nil
}

func (repo volunteerRepository) QueryVolunteers(ctx context.Context, filter *volunteer.QueryFilter, ordering ...core.DBOrdering) ([]volunteer.Volunteer, error) {
	q := `SELECT * FROM volunteer`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR ktu_id ILIKE %[1]s OR email ILIKE %[1]s)", p))
		}
		if filter.Status != "" {
			conds = append(conds, fmt.Sprintf("status = %s", arg(filter.Status)))
		}
		if filter.Course != "" {
			conds = append(conds, fmt.Sprintf("course = %s", arg(filter.Course)))
		}
		if filter.District != "" {
			conds = append(conds, fmt.Sprintf("district = %s", arg(filter.District)))
		}
		if filter.UnitID != "" {
			conds = append(conds, fmt.Sprintf("unit_id = %s", arg(filter.UnitID)))
		}
		if !filter.CreatedFrom.IsZero() {
			conds = append(conds, fmt.Sprintf("created_at >= %s", arg(filter.CreatedFrom.UTC())))
		}
		if !filter.CreatedTo.IsZero() {
			conds = append(conds, fmt.Sprintf("created_at <= %s", arg(filter.CreatedTo.UTC())))
		}
	}

	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderBy(ordering)

	var vols []volunteer.Volunteer
	if err := repo.db.SelectContext(ctx, &vols, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying volunteers")
	}
	return vols, nil
}

const updateVolunteerSQL = `
UPDATE volunteer
SET name = :name, email = :email, mobile = :mobile, gender = :gender, blood_group = :blood_group,
    religion = :religion, category = :category, course = :course, department = :department,
    semester = :semester, year_of_joining = :year_of_joining, college = :college, address = :address,
    district = :district, pincode = :pincode, guardian_name = :guardian_name, guardian_phone = :guardian_phone,
    height_cm = :height_cm, weight_kg = :weight_kg, photo_url = :photo_url, signature_url = :signature_url,
    unit_id = :unit_id, status = :status, updated_at = :updated_at
WHERE id = :id`

func (repo volunteerRepository) UpdateVolunteer(ctx context.Context, vol volunteer.Volunteer) (volunteer.Volunteer, error) {
	res, err := repo.db.NamedExecContext(ctx, updateVolunteerSQL, vol)
	if err != nil {
		return volunteer.Volunteer{}, errors.Wrap(err, "updating volunteer")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return volunteer.Volunteer{}, volunteer.ErrNotFound
	}
	return vol, nil
}

func (repo volunteerRepository) UpdateStatusByID(ctx context.Context, status string, skip []string, ids ...string) (int, error) {
	if skip == nil {
		skip = []string{} // a nil array would NULL out the predicate
	}
	res, err := repo.db.ExecContext(ctx,
		`UPDATE volunteer SET status = $1, updated_at = now() WHERE id = ANY($2) AND NOT (status = ANY($3))`,
		status, pq.Array(ids), pq.Array(skip))
	if err != nil {
		return 0, errors.Wrap(err, "updating volunteer statuses")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "updating volunteer statuses")
	}
	return int(n), nil
}

const countByStatusSQL = `
SELECT COUNT(*)                                        AS total,
       COUNT(*) FILTER (WHERE status = 'pending')      AS pending,
       COUNT(*) FILTER (WHERE status = 'approved')     AS approved,
       COUNT(*) FILTER (WHERE status = 'rejected')     AS rejected,
       COUNT(*) FILTER (WHERE status = 'certified')    AS certified
FROM volunteer`

func (repo volunteerRepository) CountByStatus(ctx context.Context, unitID string) (volunteer.Stats, error) {
	q := countByStatusSQL
	var args []interface{}
	if unitID != "" {
		q += ` WHERE unit_id = $1`
		args = append(args, unitID)
	}

	var stats volunteer.Stats
	if err := repo.db.GetContext(ctx, &stats, q, args...); err != nil {
		return volunteer.Stats{}, errors.Wrap(err, "counting volunteers")
	}
	return stats, nil
}
