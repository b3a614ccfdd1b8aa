// Package filestorage keeps uploaded images on the local disk under a root
// directory, one sub-directory per image kind. References are the slash
// separated paths relative to the root, e.g. "profile/4b1c....png", which is
// also the path they are served under below /uploads.
package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	maxProfileImageSize = 4 << 20
	maxPackageImageSize = 5 << 20
)

var profileImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/heic": ".heic",
}

// Browsers run scripts embedded in these when served inline.
var scriptableExts = map[string]bool{
	".svg":   true,
	".svgz":  true,
	".htm":   true,
	".html":  true,
	".xhtml": true,
	".xml":   true,
}

func maxSizeFor(kind ports.ImageKind) int64 {
	if kind == ports.ProfileImage {
		return maxProfileImageSize
	}
	return maxPackageImageSize
}

// LocalStorage stores images below root.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates root and its kind folders when missing.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errs.NewValueIsRequiredError("uploads dir")
	}
	for _, kind := range []ports.ImageKind{ports.ProfileImage, ports.PackageImage} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o750); err != nil {
			return nil, fmt.Errorf("create uploads dir: %w", err)
		}
	}
	return &LocalStorage{root: root}, nil
}

// Root is the directory served as /uploads.
func (s *LocalStorage) Root() string {
	return s.root
}

// Store writes the upload to a fresh file and returns its reference.
func (s *LocalStorage) Store(ctx context.Context, kind ports.ImageKind, upload ports.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext, err := acceptedExtension(kind, upload)
	if err != nil {
		return "", err
	}
	maxSize := maxSizeFor(kind)
	if upload.Size > maxSize {
		return "", errs.NewValueIsOutOfRangeError(string(kind)+" image size", upload.Size, 1, maxSize)
	}
	if upload.Content == nil {
		return "", errs.NewValueIsRequiredError(string(kind) + " image content")
	}

	ref := path.Join(string(kind), uuid.NewString()+ext)
	target := filepath.Join(s.root, filepath.FromSlash(ref))

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	written, err := io.Copy(file, io.LimitReader(upload.Content, maxSize+1))
	closeErr := file.Close()
	if err == nil && written > maxSize {
		err = errs.NewValueIsOutOfRangeError(string(kind)+" image size", written, 1, maxSize)
	}
	if err == nil && written == 0 {
		err = errs.NewValueIsRequiredError(string(kind) + " image content")
	}
	if err = errors.Join(err, closeErr); err != nil {
		_ = os.Remove(target)
		return "", err
	}

	return ref, nil
}

// Delete removes a stored image. Unknown references are not an error.
func (s *LocalStorage) Delete(_ context.Context, ref string) error {
	target, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// List returns every stored image with its modification time.
func (s *LocalStorage) List(ctx context.Context) ([]ports.StoredImage, error) {
	images := make([]ports.StoredImage, 0)
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		images = append(images, ports.StoredImage{Ref: filepath.ToSlash(rel), ModifiedAt: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// resolve maps a reference to a path inside root and rejects anything that escapes it.
func (s *LocalStorage) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if ref == "" || clean == "/" || clean != "/"+ref {
		return "", errs.NewValueIsInvalidErrorWithCause("image reference", fmt.Errorf("%q is not a stored image", ref))
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func acceptedExtension(kind ports.ImageKind, upload ports.Upload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))

	switch kind {
	case ports.ProfileImage:
		ext, ok := profileImageTypes[contentType]
		if !ok {
			return "", errs.NewValueIsInvalidErrorWithCause("profile image",
				fmt.Errorf("%q is not one of png, jpeg, jpg, heic", contentType))
		}
		return ext, nil
	case ports.PackageImage:
		if !strings.HasPrefix(contentType, "image/") {
			return "", errs.NewValueIsInvalidErrorWithCause("package image",
				fmt.Errorf("%q is not an image", contentType))
		}
		if strings.HasPrefix(contentType, "image/svg") {
			return "", errs.NewValueIsInvalidErrorWithCause("package image",
				fmt.Errorf("%q is not accepted", contentType))
		}
		ext := strings.ToLower(filepath.Ext(upload.Filename))
		if ext == "" || len(ext) > 6 || scriptableExts[ext] {
			ext = "." + strings.TrimPrefix(contentType, "image/")
		}
		ext = sanitizeExt(ext)
		if scriptableExts[ext] {
			ext = ".img"
		}
		return ext, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("image kind", fmt.Errorf("unknown kind %q", kind))
	}
}

func sanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range ext {
		if r == '.' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() <= 1 {
		return ".img"
	}
	return b.String()
}
