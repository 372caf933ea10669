// Package session persists operator login sessions between CLI invocations.
package session

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/user"
)

// FileStore keeps one JSON document per session key in a directory.
type FileStore struct {
	dir string
}

var _ user.SessionStore = (*FileStore)(nil) // interface compliance check

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	return &FileStore{dir: dir}, nil
}

func (store *FileStore) path(key string) string {
	return filepath.Join(store.dir, key+".json")
}

func (store *FileStore) Load(key string) (user.Session, bool, error) {
	raw, err := ioutil.ReadFile(store.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return user.Session{}, false, nil
		}
		return user.Session{}, false, errors.Wrap(err, "reading session")
	}

	var sess user.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return user.Session{}, false, errors.Wrap(err, "decoding session")
	}
	return sess, true, nil
}

func (store *FileStore) Save(key string, sess user.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := ioutil.WriteFile(store.path(key), raw, 0600); err != nil {
		return errors.Wrap(err, "writing session")
	}
	return nil
}

func (store *FileStore) Clear(key string) error {
	if err := os.Remove(store.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clearing session")
	}
	return nil
}
