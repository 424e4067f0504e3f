package review

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNothingToChange = errors.New("approved or featured must be set")
)
