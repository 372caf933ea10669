package uploadsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/nsscell/portal/core"
)

// dummyService keeps uploads in memory and hands back fake URLs; for dev and
// tests.
type dummyService struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ core.FileStorage = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{files: make(map[string][]byte)}
}

func (svc *dummyService) Upload(_ context.Context, bucket, name string, content []byte) (string, error) {
	key := bucket + "/" + name
	svc.mu.Lock()
	svc.files[key] = content
	svc.mu.Unlock()
	return fmt.Sprintf("https://files.invalid/%s", key), nil
}

// Count reports how many files have been stored.
func (svc *dummyService) Count() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.files)
}
