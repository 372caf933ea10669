// Package uploadsvc stores uploaded files in named buckets.
package uploadsvc

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core"
)

type cloudinaryService struct {
	cld *cld.Cloudinary
}

var _ core.FileStorage = (*cloudinaryService)(nil)

func NewCloudinaryService(conf *core.Config) (*cloudinaryService, error) {
	c, err := cld.NewFromURL(conf.CloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "configuring cloudinary")
	}
	return &cloudinaryService{cld: c}, nil
}

// Upload stores content under bucket/name and returns the public URL.
func (svc *cloudinaryService) Upload(ctx context.Context, bucket, name string, content []byte) (string, error) {
	res, err := svc.cld.Upload.Upload(
		ctx,
		bytes.NewReader(content),
		uploader.UploadParams{
			Folder:   bucket,
			PublicID: name,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "uploading file")
	}
	return res.SecureURL, nil
}
