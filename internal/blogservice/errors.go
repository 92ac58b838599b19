package blogservice

import "errors"

var (
	ErrTitleRequired  = errors.New("title is required to generate a slug")
	ErrSlugGeneration = errors.New("failed to generate slug")
	ErrDuplicateSlug  = errors.New("slug is already taken by another post")

	// errSlugConflict is returned by the store when a write hits the unique slug constraint.
	errSlugConflict = errors.New("slug unique constraint violated")
)
