package dummydb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckUniqueness(_ context.Context, username, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if isExcluded(usr, excludedUsers) {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUnameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter, _ ...core.DBOrdering) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query()
	if filter == nil {
		return users, nil
	}

	var filtered []user.User
	for _, u := range users {
		if filter.Search != "" && !matchesSearch(u, filter.Search) {
			continue
		}
		if len(filter.Roles) > 0 && !hasAnyRolePrefix(u, filter.Roles) {
			continue
		}
		if filter.District != "" && u.District != filter.District {
			continue
		}
		if filter.IsActive != nil && (u.IsActive == nil || *u.IsActive != *filter.IsActive) {
			continue
		}
		if !filter.CreatedFrom.IsZero() && u.CreatedAt.Before(filter.CreatedFrom.UTC()) {
			continue
		}
		if !filter.CreatedTo.IsZero() && u.CreatedAt.After(filter.CreatedTo.UTC()) {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		switch {
		case filter.ID != "" && usr.ID == filter.ID:
			return usr, nil
		case filter.Username != "" && usr.Username == filter.Username:
			return usr, nil
		case filter.Email != "" && usr.Email == filter.Email:
			return usr, nil
		case len(filter.UsernameOrEmail) > 0:
			uname := filter.UsernameOrEmail[0]
			email := uname
			if len(filter.UsernameOrEmail) == 2 && filter.UsernameOrEmail[1] != "" {
				email = filter.UsernameOrEmail[1]
			}
			if usr.Username == uname || usr.Email == email {
				return usr, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr)
	}
	return repo.UpdateUser(ctx, usr)
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}

func matchesSearch(u user.User, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.Name), search) ||
		strings.Contains(strings.ToLower(u.Username), search) ||
		strings.Contains(strings.ToLower(u.Email), search)
}

func hasAnyRolePrefix(u user.User, roles []string) bool {
	for _, role := range roles {
		if u.RoleStartsWith(role) {
			return true
		}
	}
	return false
}

func isExcluded(usr user.User, excludedUsers []user.User) bool {
	for _, u := range excludedUsers {
		if u.ID == usr.ID {
			return true
		}
	}
	return false
}
