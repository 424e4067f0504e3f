package model

import "time"

type Subcategory struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

type Category struct {
	Slug          string        `json:"slug"`
	Label         string        `json:"label"`
	Subcategories []Subcategory `json:"subcategories"`
}

type NutritionalInfo struct {
	Calories      *string `json:"calories,omitempty"`
	Proteins      *string `json:"proteins,omitempty"`
	Carbohydrates *string `json:"carbohydrates,omitempty"`
	Fats          *string `json:"fats,omitempty"`
	Fiber         *string `json:"fiber,omitempty"`
	Sodium        *string `json:"sodium,omitempty"`
}

type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description"`
	Price           Money            `json:"price"`
	Category        string           `json:"category"`
	Subcategory     *string          `json:"subcategory,omitempty"`
	ImageURL        string           `json:"imageUrl"`
	Available       bool             `json:"available"`
	Featured        bool             `json:"featured"`
	Ingredients     []string         `json:"ingredients"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty"`
	Order           int              `json:"order"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type NutritionalInfoInput struct {
	Calories      *string `json:"calories,omitempty"`
	Proteins      *string `json:"proteins,omitempty"`
	Carbohydrates *string `json:"carbohydrates,omitempty"`
	Fats          *string `json:"fats,omitempty"`
	Fiber         *string `json:"fiber,omitempty"`
	Sodium        *string `json:"sodium,omitempty"`
}

type ProductInput struct {
	ID              *string               `json:"id,omitempty"`
	Name            string                `json:"name"`
	Slug            *string               `json:"slug,omitempty"`
	Description     *string               `json:"description,omitempty"`
	Price           Money                 `json:"price"`
	Category        string                `json:"category"`
	Subcategory     *string               `json:"subcategory,omitempty"`
	ImageURL        *string               `json:"imageUrl,omitempty"`
	Available       *bool                 `json:"available,omitempty"`
	Featured        *bool                 `json:"featured,omitempty"`
	Ingredients     []string              `json:"ingredients,omitempty"`
	NutritionalInfo *NutritionalInfoInput `json:"nutritionalInfo,omitempty"`
	Order           *int                  `json:"order,omitempty"`
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     Money   `json:"price"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Quantity  int     `json:"quantity"`
	Subtotal  Money   `json:"subtotal"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice Money      `json:"totalPrice"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Banner struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL string  `json:"imageUrl"`
	Link     *string `json:"link,omitempty"`
	Page     string  `json:"page"`
	Order    int     `json:"order"`
	Active   bool    `json:"active"`
}

type Section struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Link     *string `json:"link,omitempty"`
	Order    int     `json:"order"`
	Active   bool    `json:"active"`
}

type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Body        *string    `json:"body,omitempty"`
	CoverImage  *string    `json:"coverImage,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Home struct {
	Featured []Product `json:"featured"`
	Sections []Section `json:"sections"`
	Banners  []Banner  `json:"banners"`
}

type Subscriber struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type BannerInput struct {
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL string  `json:"imageUrl"`
	Link     *string `json:"link,omitempty"`
	Page     string  `json:"page"`
	Order    *int    `json:"order,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type SectionInput struct {
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Link     *string `json:"link,omitempty"`
	Order    *int    `json:"order,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type PostInput struct {
	Slug       *string `json:"slug,omitempty"`
	Title      string  `json:"title"`
	Excerpt    *string `json:"excerpt,omitempty"`
	Body       string  `json:"body"`
	CoverImage *string `json:"coverImage,omitempty"`
	Published  *bool   `json:"published,omitempty"`
}

type Review struct {
	ID         string    `json:"id"`
	ProductID  *string   `json:"productId,omitempty"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	Approved   bool      `json:"approved"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewReview struct {
	ProductID  *string `json:"productId,omitempty"`
	AuthorName string  `json:"authorName"`
	Rating     int     `json:"rating"`
	Text       string  `json:"text"`
}

type ModerateReviewInput struct {
	Approved *bool `json:"approved,omitempty"`
	Featured *bool `json:"featured,omitempty"`
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
}

type Order struct {
	ID             string      `json:"id"`
	Number         string      `json:"number"`
	BuyerName      string      `json:"buyerName"`
	BuyerEmail     string      `json:"buyerEmail"`
	BuyerPhone     string      `json:"buyerPhone"`
	Items          []OrderItem `json:"items"`
	DeliveryOption string      `json:"deliveryOption"`
	Address        *string     `json:"address,omitempty"`
	DeliveryFee    Money       `json:"deliveryFee"`
	Total          Money       `json:"total"`
	Currency       string      `json:"currency"`
	Status         string      `json:"status"`
	PaymentID      *string     `json:"paymentId,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	PaidAt         *time.Time  `json:"paidAt,omitempty"`
}

type Query struct {
}

type Mutation struct {
}
