package user

import (
	"context"

	"github.com/pkg/errors"
)

// Persisted session keys. One key per portal role; the faculty key is the
// pre-rename name of the unit key and only read during migration.
const (
	SessionKeyStudent       = "nss_user_student"
	SessionKeyUnit          = "nss_user_unit"
	LegacySessionKeyFaculty = "nss_user_faculty"
)

// Session roles (tags stored inside the session document).
const (
	SessionRoleStudent       = "student"
	SessionRoleUnit          = "unit"
	legacySessionRoleFaculty = "faculty"
)

var ErrUnknownSessionRole = errors.New("unknown session role")

type (
	// Session is a password-stripped snapshot of the signed-in user for one
	// portal role. The backing User record remains the source of truth.
	Session struct {
		User User   `json:"user"`
		Role string `json:"role"`
	}

	// SessionStore persists at most one Session per key.
	// Implementations must tolerate loads of keys never saved.
	SessionStore interface {
		Load(key string) (Session, bool, error)
		Save(key string, s Session) error
		Clear(key string) error
	}
)

// SessionKeyForRole maps a session role to its storage key.
func SessionKeyForRole(role string) (string, error) {
	switch role {
	case SessionRoleStudent:
		return SessionKeyStudent, nil
	case SessionRoleUnit:
		return SessionKeyUnit, nil
	default:
		return "", ErrUnknownSessionRole
	}
}

// MigrateLegacySessions moves a persisted faculty session to the unit key,
// rewriting its role tag and removing the legacy key. A no-op once migrated.
func MigrateLegacySessions(store SessionStore) error {
	legacy, ok, err := store.Load(LegacySessionKeyFaculty)
	if err != nil {
		return errors.Wrap(err, "loading legacy faculty session")
	}
	if !ok {
		return nil
	}

	if _, exists, err := store.Load(SessionKeyUnit); err != nil {
		return errors.Wrap(err, "loading unit session")
	} else if !exists {
		legacy.Role = SessionRoleUnit
		for i, role := range legacy.User.Roles {
			if role == LegacyRoleFaculty {
				legacy.User.Roles[i] = RoleUnit
			}
		}
		if err := store.Save(SessionKeyUnit, legacy); err != nil {
			return errors.Wrap(err, "saving migrated unit session")
		}
	}
	return errors.Wrap(store.Clear(LegacySessionKeyFaculty), "clearing legacy faculty session")
}

// Authenticator tracks the signed-in identity per portal role on top of a
// SessionStore. It mirrors the portal's role-scoped auth contexts: one session
// slot per role, a derived "current" view and a unified logout.
type Authenticator struct {
	svc        ServiceInterface
	store      SessionStore
	activeRole string
}

func NewAuthenticator(svc ServiceInterface, store SessionStore) (*Authenticator, error) {
	if err := MigrateLegacySessions(store); err != nil {
		return nil, err
	}
	a := &Authenticator{svc: svc, store: store}
	// restore the active role from whichever session survives a restart
	for _, role := range []string{SessionRoleStudent, SessionRoleUnit} {
		key, _ := SessionKeyForRole(role)
		if _, ok, err := store.Load(key); err != nil {
			return nil, err
		} else if ok {
			a.activeRole = role
			break
		}
	}
	return a, nil
}

// Login authenticates email+password for the given role. It reports false
// (not an error) when no matching active account of that role exists; nothing
// is persisted in that case.
func (a *Authenticator) Login(ctx context.Context, role, email, password string) (bool, error) {
	key, err := SessionKeyForRole(role)
	if err != nil {
		return false, err
	}

	usr, err := a.svc.GetByUsernameOrEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "finding user")
	}
	if !a.roleMatches(usr, role) {
		return false, nil
	}
	if err := usr.CheckPassword(password); err != nil {
		return false, nil
	}
	if usr.IsActive != nil && !*usr.IsActive {
		return false, nil
	}

	usr, err = a.svc.SetLastLogin(ctx, usr)
	if err != nil {
		return false, errors.Wrap(err, "setting last login")
	}
	if err := a.store.Save(key, Session{User: usr, Role: role}); err != nil {
		return false, errors.Wrap(err, "saving session")
	}
	a.activeRole = role
	return true, nil
}

// Logout clears exactly the active role's session key, leaving any other
// role's session untouched.
func (a *Authenticator) Logout() error {
	if a.activeRole == "" {
		return nil
	}
	key, err := SessionKeyForRole(a.activeRole)
	if err != nil {
		return err
	}
	if err := a.store.Clear(key); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	a.activeRole = ""
	return nil
}

// Current derives the single current user+role view: the active role's session
// if set, otherwise the first persisted session found (student first).
func (a *Authenticator) Current() (Session, bool, error) {
	roles := []string{SessionRoleStudent, SessionRoleUnit}
	if a.activeRole != "" {
		roles = []string{a.activeRole}
	}
	for _, role := range roles {
		key, _ := SessionKeyForRole(role)
		if s, ok, err := a.store.Load(key); err != nil {
			return Session{}, false, err
		} else if ok {
			return s, true, nil
		}
	}
	return Session{}, false, nil
}

func (a *Authenticator) roleMatches(usr User, role string) bool {
	switch role {
	case SessionRoleStudent:
		return usr.IsStudent()
	case SessionRoleUnit:
		return usr.IsUnit()
	}
	return false
}
