package review

import "time"

type Review struct {
	ID         int64     `json:"id"`
	ProductID  string    `json:"productId,omitempty"`
	UserID     uint      `json:"-"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	Approved   bool      `json:"approved"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateInput struct {
	ProductID  string `json:"productId" validate:"omitempty,max=120"`
	AuthorName string `json:"authorName" validate:"required,max=80"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Text       string `json:"text" validate:"required,max=2000"`
}

// ModerateInput leaves nil flags untouched.
type ModerateInput struct {
	Approved *bool `json:"approved"`
	Featured *bool `json:"featured"`
}

type ListFilter struct {
	ProductID         string
	FeaturedOnly      bool
	IncludeUnapproved bool
	Limit             int
}
