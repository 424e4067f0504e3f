package catalog

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	Category     Category         `json:"category"`
	Subcategory  Subcategory      `json:"subcategory,omitempty"`
	ImageURL     string           `json:"imageUrl"`
	Available    bool             `json:"available"`
	Featured     bool             `json:"featured"`
	Ingredients  pq.StringArray   `json:"ingredients"`
	Nutrition    *NutritionalInfo `json:"nutritionalInfo,omitempty"`
	DisplayOrder int              `json:"order"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NutritionalInfo is stored as a JSONB document, values per 100g.
type NutritionalInfo struct {
	Calories      string `json:"calories,omitempty"`
	Proteins      string `json:"proteins,omitempty"`
	Carbohydrates string `json:"carbohydrates,omitempty"`
	Fats          string `json:"fats,omitempty"`
	Fiber         string `json:"fiber,omitempty"`
	Sodium        string `json:"sodium,omitempty"`
}

type ListFilter struct {
	Category           Category
	Subcategory        Subcategory
	FeaturedOnly       bool
	IncludeUnavailable bool
	Limit              int
}

type ProductInput struct {
	ID           string           `json:"id"`
	Name         string           `json:"name" validate:"required,max=120"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description" validate:"max=4000"`
	Price        decimal.Decimal  `json:"price"`
	Category     Category         `json:"category" validate:"required"`
	Subcategory  Subcategory      `json:"subcategory"`
	ImageURL     string           `json:"imageUrl"`
	Available    *bool            `json:"available"`
	Featured     bool             `json:"featured"`
	Ingredients  []string         `json:"ingredients" validate:"dive,required"`
	Nutrition    *NutritionalInfo `json:"nutritionalInfo"`
	DisplayOrder int              `json:"order"`
}
