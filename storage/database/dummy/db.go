// Package dummydb provides in-memory repositories for development and tests.
package dummydb

import (
	"sync"

	"github.com/nsscell/portal/core/activity"
	"github.com/nsscell/portal/core/college"
	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
)

type DB struct {
	user      *userTable
	volunteer *volunteerTable
	donation  *donationTable
	tagging   *taggingTable
	college   *collegeTable
	course    *courseTable
	unit      *unitTable
}

func Open() *DB {
	return &DB{
		user:      &userTable{table: make(map[string]*user.User)},
		volunteer: &volunteerTable{table: make(map[string]*volunteer.Volunteer)},
		donation:  &donationTable{table: make(map[string]*activity.BloodDonation)},
		tagging:   &taggingTable{table: make(map[string]*activity.TreeTagging)},
		college:   &collegeTable{table: make(map[string]*college.College)},
		course:    &courseTable{table: make(map[string]*college.Course)},
		unit:      &unitTable{table: make(map[string]*college.Unit)},
	}
}

type userTable struct {
	sync.RWMutex
	table map[string]*user.User
}

type volunteerTable struct {
	sync.RWMutex
	table map[string]*volunteer.Volunteer
}

type donationTable struct {
	sync.RWMutex
	table map[string]*activity.BloodDonation
}

type taggingTable struct {
	sync.RWMutex
	table map[string]*activity.TreeTagging
}

type collegeTable struct {
	sync.RWMutex
	table map[string]*college.College
}

type courseTable struct {
	sync.RWMutex
	table map[string]*college.Course
}

type unitTable struct {
	sync.RWMutex
	table map[string]*college.Unit
}
