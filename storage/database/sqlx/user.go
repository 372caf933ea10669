package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// userRow mirrors the "user" table.
type userRow struct {
	ID           string         `db:"id"`
	Name         null.String    `db:"name"`
	Username     null.String    `db:"username"`
	Email        null.String    `db:"email"`
	Mobile       null.String    `db:"mobile"`
	College      null.String    `db:"college"`
	District     null.String    `db:"district"`
	IsActive     null.Bool      `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash null.Bytes     `db:"password_hash"`
	CreatedAt    null.Time      `db:"created_at"`
	UpdatedAt    null.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (repo userRepository) toRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         null.NewString(usr.Name, usr.Name != ""),
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        null.NewString(usr.Email, usr.Email != ""),
		Mobile:       null.NewString(usr.Mobile, usr.Mobile != ""),
		College:      null.NewString(usr.College, usr.College != ""),
		District:     null.NewString(usr.District, usr.District != ""),
		IsActive:     null.BoolFromPtr(usr.IsActive),
		Roles:        usr.Roles,
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    null.NewTime(usr.CreatedAt.UTC(), !usr.CreatedAt.IsZero()),
		UpdatedAt:    null.NewTime(usr.UpdatedAt.UTC(), !usr.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (repo userRepository) fromRow(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name.String,
		Username:     row.Username.String,
		Email:        row.Email.String,
		Mobile:       row.Mobile.String,
		College:      row.College.String,
		District:     row.District.String,
		IsActive:     row.IsActive.Ptr(),
		Roles:        row.Roles,
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
		LastLogin:    row.LastLogin.Time,
	}
}

func (repo userRepository) fromRows(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.fromRow(row))
	}
	return users
}

func (repo userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	q := `SELECT EXISTS (SELECT 1 FROM "user" WHERE (username = $1 OR email = $2)`
	args := []interface{}{username, email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		q += ` AND NOT (id = ANY($3))`
		args = append(args, pq.Array(ids))
	}
	q += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if exists {
		return user.ErrUserExists
	}
	return nil
}

const insertUserSQL = `
INSERT INTO "user" (id, name, username, email, mobile, college, district, is_active, roles, password_hash, created_at, updated_at, last_login)
VALUES (:id, :name, :username, :email, :mobile, :college, :district, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)`

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	if _, err := repo.db.NamedExecContext(ctx, insertUserSQL, repo.toRow(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	q := `SELECT * FROM "user"`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
		}
		if len(filter.Roles) > 0 {
			// any role starting with any of the provided prefixes
			roleConds := make([]string, 0, len(filter.Roles))
			for _, role := range filter.Roles {
				roleConds = append(roleConds, fmt.Sprintf(
					"EXISTS (SELECT 1 FROM UNNEST(roles) user_role WHERE user_role ILIKE %s)", arg(role+"%")))
			}
			conds = append(conds, "("+strings.Join(roleConds, " OR ")+")")
		}
		if filter.District != "" {
			conds = append(conds, fmt.Sprintf("district = %s", arg(filter.District)))
		}
		if filter.IsActive != nil {
			conds = append(conds, fmt.Sprintf("is_active = %s", arg(*filter.IsActive)))
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

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.fromRows(rows), nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var q string
	var args []interface{}

	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		q = `SELECT * FROM "user" WHERE id = $1`
		args = []interface{}{filter.ID}
	case filter.Username != "":
		q = `SELECT * FROM "user" WHERE username = $1`
		args = []interface{}{filter.Username}
	case filter.Email != "":
		q = `SELECT * FROM "user" WHERE email = $1`
		args = []interface{}{filter.Email}
	case len(filter.UsernameOrEmail) > 0:
		uname := filter.UsernameOrEmail[0]
		email := uname
		if len(filter.UsernameOrEmail) == 2 && filter.UsernameOrEmail[1] != "" {
			email = filter.UsernameOrEmail[1]
		}
		q = `SELECT * FROM "user" WHERE username = $1 OR email = $2`
		args = []interface{}{uname, email}
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return repo.fromRow(row), nil
}

const updateUserSQL = `
UPDATE "user"
SET name = :name, username = :username, email = :email, mobile = :mobile, college = :college,
    district = :district, is_active = :is_active, roles = :roles, password_hash = :password_hash,
    updated_at = :updated_at, last_login = :last_login
WHERE id = :id`

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.UpdatedAt = usr.UpdatedAt.UTC()
	res, err := repo.db.NamedExecContext(ctx, updateUserSQL, repo.toRow(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr)
	}
	return repo.UpdateUser(ctx, usr)
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) (int, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	return int(n), nil
}

// trapNoRowsErr maps sql.ErrNoRows to the domain's not-found error.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

// uniqueViolation reports whether err is a postgres unique constraint
// violation on the named constraint.
func uniqueViolation(err error, constraint string) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}
