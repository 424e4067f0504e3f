package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("product slug already exists")
)
