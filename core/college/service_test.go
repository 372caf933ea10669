package college

import (
	"context"
	"testing"

	"github.com/nsscell/portal/core"
)

type fakeRepo struct {
	colleges map[string]College
	courses  map[string]Course
	units    map[string]Unit
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		colleges: make(map[string]College),
		courses:  make(map[string]Course),
		units:    make(map[string]Unit),
	}
}

func (r *fakeRepo) QueryColleges(_ context.Context, district string) ([]College, error) {
	var res []College
	for _, c := range r.colleges {
		if district != "" && c.District != district {
			continue
		}
		res = append(res, c)
	}
	return res, nil
}

func (r *fakeRepo) GetCollege(_ context.Context, id string) (College, error) {
	if c, ok := r.colleges[id]; ok {
		return c, nil
	}
	return College{}, ErrCollegeNotFound
}

func (r *fakeRepo) QueryCourses(_ context.Context) ([]Course, error) {
	var res []Course
	for _, crs := range r.courses {
		res = append(res, crs)
	}
	return res, nil
}

func (r *fakeRepo) CreateCourse(_ context.Context, crs Course) (Course, error) {
	if _, ok := r.courses[crs.Code]; ok {
		return Course{}, ErrCourseExists
	}
	r.courses[crs.Code] = crs
	return crs, nil
}

func (r *fakeRepo) DeleteCourse(_ context.Context, code string) error {
	if _, ok := r.courses[code]; !ok {
		return ErrCourseNotFound
	}
	delete(r.courses, code)
	return nil
}

func (r *fakeRepo) QueryUnits(_ context.Context, collegeID string) ([]Unit, error) {
	var res []Unit
	for _, u := range r.units {
		if collegeID != "" && u.CollegeID != collegeID {
			continue
		}
		res = append(res, u)
	}
	return res, nil
}

func (r *fakeRepo) GetUnitProfile(_ context.Context, unitID string) (UnitProfile, error) {
	u, ok := r.units[unitID]
	if !ok {
		return UnitProfile{}, ErrUnitNotFound
	}
	c, ok := r.colleges[u.CollegeID]
	if !ok {
		return UnitProfile{}, ErrCollegeNotFound
	}
	return UnitProfile{Unit: u, CollegeName: c.Name, CollegeDistrict: c.District}, nil
}

func TestCourseManagement(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	crs, err := svc.AddCourse(ctx, NewCourse{Code: "btechcse", Name: "B.Tech Computer Science"})
	if err != nil {
		t.Fatalf("AddCourse() error = %v", err)
	}
	if crs.Code != "btechcse" {
		t.Errorf("Code = %q, want %q", crs.Code, "btechcse")
	}

	if _, err := svc.AddCourse(ctx, NewCourse{Code: "btechcse", Name: "Duplicate"}); err == nil {
		t.Fatal("AddCourse() succeeded on duplicate code, want error")
	} else if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("duplicate error = %T, want *core.ValidationError", err)
	}

	if err := svc.DeleteCourse(ctx, "BTECHCSE"); err != nil {
		t.Fatalf("DeleteCourse() error = %v", err)
	}
	courses, err := svc.Courses(ctx)
	if err != nil {
		t.Fatalf("Courses() error = %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("courses left = %d, want 0", len(courses))
	}
}

func TestUnitProfileJoinsCollege(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.colleges["c1"] = College{ID: "c1", Name: "Govt. Engineering College", District: "Ernakulam"}
	repo.units["u1"] = Unit{ID: "u1", Name: "NSS Unit 42", CollegeID: "c1"}
	svc := NewService(repo)

	profile, err := svc.UnitProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("UnitProfile() error = %v", err)
	}
	if profile.CollegeName != "Govt. Engineering College" || profile.CollegeDistrict != "Ernakulam" {
		t.Errorf("UnitProfile() = %+v, want college fields joined", profile)
	}

	if _, err := svc.UnitProfile(ctx, "missing"); err != ErrUnitNotFound {
		t.Errorf("UnitProfile(missing) error = %v, want ErrUnitNotFound", err)
	}
}
