package session

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsscell/portal/core/user"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, ok, err := store.Load(user.SessionKeyStudent); err != nil || ok {
		t.Fatalf("Load(empty) = ok %v, err %v; want miss", ok, err)
	}

	sess := user.Session{
		User: user.User{ID: "u1", Name: "Anu Thomas", Email: "anu@test.test", Roles: []string{user.RoleStudent}},
		Role: user.SessionRoleStudent,
	}
	if err := store.Save(user.SessionKeyStudent, sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Load(user.SessionKeyStudent)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if got.User.ID != sess.User.ID || got.Role != sess.Role {
		t.Errorf("Load() = %+v, want %+v", got, sess)
	}

	if err := store.Clear(user.SessionKeyStudent); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Load(user.SessionKeyStudent); ok {
		t.Error("session still present after Clear()")
	}

	// clearing a missing key is not an error
	if err := store.Clear(user.SessionKeyStudent); err != nil {
		t.Errorf("Clear(missing) error = %v", err)
	}
}

func TestFileStoreNeverPersistsPasswordHash(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	usr := user.User{ID: "u1", Email: "unit@test.test", Roles: []string{user.RoleUnit}}
	if err := usr.SetPassword("LePass123!"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if err := store.Save(user.SessionKeyUnit, user.Session{User: usr, Role: user.SessionRoleUnit}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := ioutil.ReadFile(filepath.Join(dir, user.SessionKeyUnit+".json"))
	if err != nil {
		t.Fatalf("reading session file: %v", err)
	}
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), "$2a$") {
		t.Errorf("session file leaks password material: %s", raw)
	}
}

func TestFileStoreKeysAreIndependent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	student := user.Session{User: user.User{ID: "s1"}, Role: user.SessionRoleStudent}
	unit := user.Session{User: user.User{ID: "f1"}, Role: user.SessionRoleUnit}
	if err := store.Save(user.SessionKeyStudent, student); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(user.SessionKeyUnit, unit); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(user.SessionKeyUnit); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Load(user.SessionKeyStudent); !ok {
		t.Error("student session removed by clearing the unit key")
	}
}
