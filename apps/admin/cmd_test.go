package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/user"
	emailsvc "github.com/nsscell/portal/services/email"
	dummydb "github.com/nsscell/portal/storage/database/dummy"
	"github.com/nsscell/portal/storage/session"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := core.NewConfig()
	conf.TestMode = true

	db := dummydb.Open()
	usrRepo = dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf), conf)

	sessions, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed, %v", err)
	}

	return &commandLine{
		db:       &sqlx.DB{},
		usrRepo:  usrRepo,
		usrSvc:   usrSvc,
		sessions: sessions,
	}
}

func createUser(t *testing.T, uname, email, pwd string, roles []string) user.User {
	t.Helper()

	usr := user.User{
		Name:     "Test User",
		Username: uname,
		Email:    email,
		Roles:    roles,
	}
	usr.SetActive(true)
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			if err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createUser(t, "awe", "awe@test.cd", "mdr", nil)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cr3t"), nil }

	if err := cli.run([]string{"admin", "adduser", "-username", "boss", "-email", "boss@test.cd", "-admin"}); err != nil {
		t.Fatalf("cli.run() failed, %v", err)
	}

	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{Username: "boss"})
	if err != nil {
		t.Fatalf("GetUser() failed, %v", err)
	}
	if !usr.IsAdmin() {
		t.Errorf("addUser() roles = %v; want admin roles", usr.Roles)
	}
	if usr.IsActive == nil || !*usr.IsActive {
		t.Error("addUser() user is not active")
	}

	// idempotent: re-running updates the same account
	if err := cli.run([]string{"admin", "adduser", "-username", "boss", "-email", "boss@test.cd"}); err != nil {
		t.Fatalf("cli.run() failed, %v", err)
	}
	usrs, err := usrRepo.QueryUsers(context.Background(), &user.QueryFilter{Search: "boss"})
	if err != nil {
		t.Fatalf("QueryUsers() failed, %v", err)
	}
	if len(usrs) != 1 {
		t.Errorf("addUser() created %d accounts; want 1", len(usrs))
	}
}

func Test_commandLine_loginLogout(t *testing.T) {
	cli := setup(t)

	createUser(t, "stud", "stud@test.cd", "mdr", []string{user.RoleStudent})

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("mdr"), nil }

	// a unit login must not match a student account
	if err := cli.run([]string{"admin", "login", "-username", "stud@test.cd", "-role", "unit"}); err == nil {
		t.Error("cli.run() login with wrong role succeeded")
	}
	if _, ok, _ := cli.sessions.Load(user.SessionKeyUnit); ok {
		t.Error("unit session persisted on failed login")
	}

	if err := cli.run([]string{"admin", "login", "-username", "stud@test.cd", "-role", "student"}); err != nil {
		t.Fatalf("cli.run() login failed, %v", err)
	}
	if _, ok, _ := cli.sessions.Load(user.SessionKeyStudent); !ok {
		t.Error("student session not persisted after login")
	}

	if err := cli.run([]string{"admin", "logout"}); err != nil {
		t.Fatalf("cli.run() logout failed, %v", err)
	}
	if _, ok, _ := cli.sessions.Load(user.SessionKeyStudent); ok {
		t.Error("student session survived logout")
	}
}
