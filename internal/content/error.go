package content

import "errors"

var (
	ErrBannerNotFound  = errors.New("banner not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrSlugTaken       = errors.New("post slug already in use")
)
