package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/college"
)

type collegeRepository struct {
	db *sqlx.DB
}

var _ college.Repository = (*collegeRepository)(nil) // interface compliance check

func NewCollegeRepository(db *sqlx.DB) *collegeRepository {
	return &collegeRepository{db: db}
}

func (repo collegeRepository) QueryColleges(ctx context.Context, district string) ([]college.College, error) {
	q := `SELECT * FROM college`
	var args []interface{}
	if district != "" {
		q += ` WHERE district = $1`
		args = append(args, district)
	}
	q += ` ORDER BY name`

	var res []college.College
	if err := repo.db.SelectContext(ctx, &res, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying colleges")
	}
	return res, nil
}

func (repo collegeRepository) GetCollege(ctx context.Context, id string) (college.College, error) {
	var col college.College
	if err := repo.db.GetContext(ctx, &col, `SELECT * FROM college WHERE id = $1`, id); err != nil {
		return college.College{}, trapNoRowsErr(err, college.ErrCollegeNotFound, "finding college")
	}
	return col, nil
}

func (repo collegeRepository) QueryCourses(ctx context.Context) ([]college.Course, error) {
	var res []college.Course
	if err := repo.db.SelectContext(ctx, &res, `SELECT * FROM course ORDER BY code`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return res, nil
}

func (repo collegeRepository) CreateCourse(ctx context.Context, crs college.Course) (college.Course, error) {
	_, err := repo.db.ExecContext(ctx, `INSERT INTO course (code, name) VALUES ($1, $2)`, crs.Code, crs.Name)
	if err != nil {
		if uniqueViolation(err, "course_pkey") {
			return college.Course{}, college.ErrCourseExists
		}
		return college.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo collegeRepository) DeleteCourse(ctx context.Context, code string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE code = $1`, code)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return college.ErrCourseNotFound
	}
	return nil
}

func (repo collegeRepository) QueryUnits(ctx context.Context, collegeID string) ([]college.Unit, error) {
	q := `SELECT * FROM nss_unit`
	var args []interface{}
	if collegeID != "" {
		q += ` WHERE college_id = $1`
		args = append(args, collegeID)
	}
	q += ` ORDER BY name`

	var res []college.Unit
	if err := repo.db.SelectContext(ctx, &res, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying units")
	}
	return res, nil
}

const unitProfileSQL = `
SELECT u.id, u.name, u.college_id, u.created_at,
       c.name     AS college_name,
       c.district AS college_district
FROM nss_unit u
JOIN college c ON c.id = u.college_id
WHERE u.id = $1`

func (repo collegeRepository) GetUnitProfile(ctx context.Context, unitID string) (college.UnitProfile, error) {
	var profile college.UnitProfile
	if err := repo.db.GetContext(ctx, &profile, unitProfileSQL, unitID); err != nil {
		return college.UnitProfile{}, trapNoRowsErr(err, college.ErrUnitNotFound, "finding unit profile")
	}
	return profile, nil
}
