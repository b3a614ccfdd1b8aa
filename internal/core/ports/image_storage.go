package ports

import (
	"context"
	"io"
	"time"
)

// ImageKind selects the folder and the acceptance rules for an upload.
type ImageKind string

const (
	ProfileImage ImageKind = "profile"
	PackageImage ImageKind = "package"
)

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// StoredImage describes a stored file for housekeeping.
type StoredImage struct {
	Ref        string
	ModifiedAt time.Time
}

// ImageStorage keeps binary uploads outside the database.
//
// Store returns an opaque reference that is persisted on the owning record.
// Delete is best-effort from the callers' point of view: a failure is logged,
// never propagated into the business outcome.
type ImageStorage interface {
	Store(ctx context.Context, kind ImageKind, upload Upload) (string, error)
	Delete(ctx context.Context, ref string) error
	List(ctx context.Context) ([]StoredImage, error)
}
