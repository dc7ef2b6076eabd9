// Package storage uploads release artifacts to Google Cloud Storage.
package storage

import (
	"context"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bosun/pkg/domain/interfaces"
)

type uploader struct {
	bucket string
}

// NewUploader creates an uploader bound to one bucket. Credentials come from
// the ambient application-default chain.
func NewUploader(bucket string) interfaces.Uploader {
	return &uploader{bucket: bucket}
}

// Upload stores the file at localPath under the given object name.
func (u *uploader) Upload(ctx context.Context, object, localPath string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create storage client")
	}
	defer client.Close()

	f, err := os.Open(localPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact", goerr.V("path", localPath))
	}
	defer f.Close()

	w := client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return goerr.Wrap(err, "failed to upload artifact",
			goerr.V("bucket", u.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize upload",
			goerr.V("bucket", u.bucket), goerr.V("object", object))
	}
	return nil
}
