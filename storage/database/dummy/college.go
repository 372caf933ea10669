package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/nsscell/portal/core/college"
)

type collegeRepository struct {
	colleges *collegeTable
	courses  *courseTable
	units    *unitTable
}

var _ college.Repository = (*collegeRepository)(nil) // interface compliance check

func NewCollegeRepository(db *DB) *collegeRepository {
	return &collegeRepository{colleges: db.college, courses: db.course, units: db.unit}
}

// Seed loads reference rows, eg. for tests and dev fixtures.
func (repo *collegeRepository) Seed(colleges []college.College, units []college.Unit) {
	repo.colleges.Lock()
	for i := range colleges {
		if colleges[i].ID == "" {
			colleges[i].ID = uuid.New().String()
		}
		repo.colleges.table[colleges[i].ID] = &colleges[i]
	}
	repo.colleges.Unlock()

	repo.units.Lock()
	for i := range units {
		if units[i].ID == "" {
			units[i].ID = uuid.New().String()
		}
		repo.units.table[units[i].ID] = &units[i]
	}
	repo.units.Unlock()
}

func (repo *collegeRepository) QueryColleges(_ context.Context, district string) ([]college.College, error) {
	repo.colleges.RLock()
	defer repo.colleges.RUnlock()

	var res []college.College
	for _, c := range repo.colleges.table {
		if district != "" && c.District != district {
			continue
		}
		res = append(res, *c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (repo *collegeRepository) GetCollege(_ context.Context, id string) (college.College, error) {
	repo.colleges.RLock()
	defer repo.colleges.RUnlock()

	if c, ok := repo.colleges.table[id]; ok {
		return *c, nil
	}
	return college.College{}, college.ErrCollegeNotFound
}

func (repo *collegeRepository) QueryCourses(_ context.Context) ([]college.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	var res []college.Course
	for _, crs := range repo.courses.table {
		res = append(res, *crs)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })
	return res, nil
}

func (repo *collegeRepository) CreateCourse(_ context.Context, crs college.Course) (college.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	if _, ok := repo.courses.table[crs.Code]; ok {
		return college.Course{}, college.ErrCourseExists
	}
	repo.courses.table[crs.Code] = &crs
	return crs, nil
}

func (repo *collegeRepository) DeleteCourse(_ context.Context, code string) error {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	if _, ok := repo.courses.table[code]; !ok {
		return college.ErrCourseNotFound
	}
	delete(repo.courses.table, code)
	return nil
}

func (repo *collegeRepository) QueryUnits(_ context.Context, collegeID string) ([]college.Unit, error) {
	repo.units.RLock()
	defer repo.units.RUnlock()

	var res []college.Unit
	for _, u := range repo.units.table {
		if collegeID != "" && u.CollegeID != collegeID {
			continue
		}
		res = append(res, *u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (repo *collegeRepository) GetUnitProfile(ctx context.Context, unitID string) (college.UnitProfile, error) {
	repo.units.RLock()
	u, ok := repo.units.table[unitID]
	repo.units.RUnlock()
	if !ok {
		return college.UnitProfile{}, college.ErrUnitNotFound
	}

	c, err := repo.GetCollege(ctx, u.CollegeID)
	if err != nil {
		return college.UnitProfile{}, err
	}
	return college.UnitProfile{Unit: *u, CollegeName: c.Name, CollegeDistrict: c.District}, nil
}
