package interfaces

import (
	"context"

	"github.com/m-mizutani/bosun/pkg/domain/model"
)

// HostClient defines operations against the code-hosting provider's API.
type HostClient interface {
	// CreateRelease creates a hosted release page for an existing tag.
	CreateRelease(ctx context.Context, owner, repo string, release *model.HostRelease) error
}

// Notifier delivers a best-effort human notification about a finished
// release. Failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Uploader stores a release artifact in object storage.
type Uploader interface {
	Upload(ctx context.Context, object, localPath string) error
}
