package user

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/nsscell/portal/core"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Fatal(string, ...interface{}) {}

func inDenylist(pwd string) bool {
	i := sort.SearchStrings(commonPasswords, pwd)
	return i < len(commonPasswords) && commonPasswords[i] == pwd
}

func TestLoadCommonPasswords(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	file, err := os.Create(filepath.Join(dir, "assets", "common-passwords.txt.gz"))
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(file)
	if _, err = gz.Write([]byte("zebra-pwd-1\nzebra-pwd-2\n")); err != nil {
		t.Fatal(err)
	}
	if err = gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err = file.Close(); err != nil {
		t.Fatal(err)
	}

	LoadCommonPasswords(&core.Config{WorkDir: dir}, noopLogger{})
	if !inDenylist("zebra-pwd-1") || !inDenylist("zebra-pwd-2") {
		t.Error("loaded passwords missing from denylist")
	}

	// a missing asset is a silent no-op
	LoadCommonPasswords(&core.Config{WorkDir: t.TempDir()}, noopLogger{})
}

func TestCommonPasswordAssetShips(t *testing.T) {
	LoadCommonPasswords(&core.Config{WorkDir: filepath.Join("..", "..")}, noopLogger{})
	if len(commonPasswords) == 0 {
		t.Fatal("assets/common-passwords.txt.gz missing or unreadable")
	}
	if !inDenylist("password") {
		t.Error(`"password" not in the shipped denylist`)
	}
}
