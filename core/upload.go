package core

import (
	"context"
	"fmt"
	"time"
)

// Storage buckets.
const (
	BucketVolunteerPhotos     = "volunteer-photos"
	BucketVolunteerSignatures = "volunteer-signatures"
	BucketBloodCertificates   = "blood-donation-certificates"
)

type (
	// Upload is an in-memory file received from a client form.
	Upload struct {
		Filename string
		Content  []byte
	}

	// FileStorage is any service that can store files in named buckets and
	// resolve them to publicly reachable URLs.
	FileStorage interface {
		Upload(ctx context.Context, bucket, name string, content []byte) (url string, err error)
	}
)

func (u *Upload) IsEmpty() bool {
	return u == nil || len(u.Content) == 0
}

// UploadName derives a bucket object name from the original filename and its owner.
func UploadName(filename, ownerID string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().Unix(), filename, ownerID)
}
