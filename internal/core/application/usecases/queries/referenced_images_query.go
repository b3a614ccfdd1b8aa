package queries

import (
	"context"
	"errors"
	"fmt"

	"shipping/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrReferencedImagesQueryIsNotConstructed = errors.New(
		"ReferencedImagesQuery must be created via NewReferencedImagesQuery constructor",
	)
)

// ReferencedImagesQuery collects every stored image reference still held by
// an account or an order. Soft-deleted orders keep their image.
type ReferencedImagesQuery struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

func NewReferencedImagesQuery() ReferencedImagesQuery {
	return ReferencedImagesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ReferencedImagesQuery) Validate() error {
	return q.guard.Validate(ErrReferencedImagesQueryIsNotConstructed)
}

type ReferencedImagesQueryHandler struct {
	db *gorm.DB
}

func NewReferencedImagesQueryHandler(db *gorm.DB) ReferencedImagesQueryHandler {
	return ReferencedImagesQueryHandler{db: db}
}

func (h ReferencedImagesQueryHandler) Handle(ctx context.Context, query ReferencedImagesQuery) (map[string]struct{}, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var profile, packages []string
	db := h.db.WithContext(ctx)
	if err := db.Table("users").Where("profile_image <> ''").Pluck("profile_image", &profile).Error; err != nil {
		return nil, fmt.Errorf("list profile images: %w", err)
	}
	if err := db.Table("orders").Where("package_image <> ''").Pluck("package_image", &packages).Error; err != nil {
		return nil, fmt.Errorf("list package images: %w", err)
	}

	refs := make(map[string]struct{}, len(profile)+len(packages))
	for _, ref := range append(profile, packages...) {
		refs[ref] = struct{}{}
	}
	return refs, nil
}
