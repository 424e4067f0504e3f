package content

import (
	"time"

	"paulapastas-be/internal/catalog"
)

const PageHome = "home"

type Banner struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	Link         string    `json:"link,omitempty"`
	Page         string    `json:"page"`
	DisplayOrder int       `json:"order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Section struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Link         string    `json:"link,omitempty"`
	DisplayOrder int       `json:"order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Post struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Home is the aggregate served on the landing page.
type Home struct {
	Featured []catalog.Product `json:"featured"`
	Sections []Section         `json:"sections"`
	Banners  []Banner          `json:"banners"`
}

type BannerInput struct {
	Title        string `json:"title" validate:"required,max=160"`
	Subtitle     string `json:"subtitle" validate:"max=300"`
	ImageURL     string `json:"imageUrl" validate:"required,url"`
	Link         string `json:"link" validate:"omitempty,max=500"`
	Page         string `json:"page" validate:"required,max=60"`
	DisplayOrder int    `json:"order"`
	Active       *bool  `json:"active"`
}

type SectionInput struct {
	Title        string `json:"title" validate:"required,max=160"`
	Subtitle     string `json:"subtitle" validate:"max=300"`
	ImageURL     string `json:"imageUrl" validate:"omitempty,url"`
	Link         string `json:"link" validate:"omitempty,max=500"`
	DisplayOrder int    `json:"order"`
	Active       *bool  `json:"active"`
}

type PostInput struct {
	Slug       string `json:"slug" validate:"max=160"`
	Title      string `json:"title" validate:"required,max=200"`
	Excerpt    string `json:"excerpt" validate:"max=500"`
	Body       string `json:"body" validate:"required"`
	CoverImage string `json:"coverImage" validate:"omitempty,url"`
	Published  bool   `json:"published"`
}

func activeOrDefault(b *bool) bool {
	return b == nil || *b
}
