package graph

import (
	"strconv"

	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/content"
	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/newsletter"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/user"
	"paulapastas-be/internal/utils"

	"github.com/shopspring/decimal"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, utils.NewValidationError("id must be a positive integer")
	}
	return n, nil
}

func mapList[S, D any](in []S, f func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

// ---------------- catalog ----------------

func MapCategoryTree(tree []catalog.CategoryInfo) []model.Category {
	return mapList(tree, func(c catalog.CategoryInfo) model.Category {
		return model.Category{
			Slug:  string(c.Slug),
			Label: c.Label,
			Subcategories: mapList(c.Subcategories, func(s catalog.SubcategoryInfo) model.Subcategory {
				return model.Subcategory{Slug: string(s.Slug), Label: s.Label}
			}),
		}
	})
}

func MapProductToGraphQL(p catalog.Product) model.Product {
	out := model.Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       model.NewMoney(p.Price),
		Category:    string(p.Category),
		Subcategory: optional(string(p.Subcategory)),
		ImageURL:    p.ImageURL,
		Available:   p.Available,
		Featured:    p.Featured,
		Ingredients: []string(p.Ingredients),
		Order:       p.DisplayOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if out.Ingredients == nil {
		out.Ingredients = []string{}
	}
	if n := p.Nutrition; n != nil {
		out.NutritionalInfo = &model.NutritionalInfo{
			Calories:      optional(n.Calories),
			Proteins:      optional(n.Proteins),
			Carbohydrates: optional(n.Carbohydrates),
			Fats:          optional(n.Fats),
			Fiber:         optional(n.Fiber),
			Sodium:        optional(n.Sodium),
		}
	}
	return out
}

func MapProductsToGraphQL(ps []catalog.Product) []model.Product {
	return mapList(ps, MapProductToGraphQL)
}

func MapProductInput(in model.ProductInput) catalog.ProductInput {
	out := catalog.ProductInput{
		ID:           value(in.ID),
		Name:         in.Name,
		Slug:         value(in.Slug),
		Description:  value(in.Description),
		Price:        in.Price.Decimal(),
		Category:     catalog.Category(in.Category),
		Subcategory:  catalog.Subcategory(value(in.Subcategory)),
		ImageURL:     value(in.ImageURL),
		Available:    in.Available,
		Featured:     value(in.Featured),
		Ingredients:  in.Ingredients,
		DisplayOrder: value(in.Order),
	}
	if n := in.NutritionalInfo; n != nil {
		out.Nutrition = &catalog.NutritionalInfo{
			Calories:      value(n.Calories),
			Proteins:      value(n.Proteins),
			Carbohydrates: value(n.Carbohydrates),
			Fats:          value(n.Fats),
			Fiber:         value(n.Fiber),
			Sodium:        value(n.Sodium),
		}
	}
	return out
}

// ---------------- cart ----------------

func MapCartToGraphQL(c *cart.Cart) *model.Cart {
	v := cart.ToView(c)
	return &model.Cart{
		Items: mapList(v.Items, func(it cart.Item) model.CartItem {
			return model.CartItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     model.NewMoney(it.Price),
				ImageURL:  optional(it.ImageURL),
				Quantity:  it.Quantity,
				Subtotal:  model.NewMoney(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
			}
		}),
		TotalItems: v.TotalItems,
		TotalPrice: model.NewMoney(v.TotalPrice),
	}
}

// ---------------- user ----------------

func MapUserToGraphQL(u user.User) *model.User {
	return &model.User{
		ID:        strconv.FormatUint(uint64(u.ID), 10),
		Email:     u.Email,
		Name:      u.Name,
		Role:      model.Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// ---------------- content ----------------

func MapBannerToGraphQL(b content.Banner) model.Banner {
	return model.Banner{
		ID:       formatID(b.ID),
		Title:    b.Title,
		Subtitle: optional(b.Subtitle),
		ImageURL: b.ImageURL,
		Link:     optional(b.Link),
		Page:     b.Page,
		Order:    b.DisplayOrder,
		Active:   b.Active,
	}
}

func MapSectionToGraphQL(s content.Section) model.Section {
	return model.Section{
		ID:       formatID(s.ID),
		Title:    s.Title,
		Subtitle: optional(s.Subtitle),
		ImageURL: optional(s.ImageURL),
		Link:     optional(s.Link),
		Order:    s.DisplayOrder,
		Active:   s.Active,
	}
}

func MapPostToGraphQL(p content.Post) model.Post {
	return model.Post{
		ID:          formatID(p.ID),
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     optional(p.Excerpt),
		Body:        optional(p.Body),
		CoverImage:  optional(p.CoverImage),
		Published:   p.Published,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func MapHomeToGraphQL(h content.Home) *model.Home {
	return &model.Home{
		Featured: MapProductsToGraphQL(h.Featured),
		Sections: mapList(h.Sections, MapSectionToGraphQL),
		Banners:  mapList(h.Banners, MapBannerToGraphQL),
	}
}

func MapBannerInput(in model.BannerInput) content.BannerInput {
	return content.BannerInput{
		Title:        in.Title,
		Subtitle:     value(in.Subtitle),
		ImageURL:     in.ImageURL,
		Link:         value(in.Link),
		Page:         in.Page,
		DisplayOrder: value(in.Order),
		Active:       in.Active,
	}
}

func MapSectionInput(in model.SectionInput) content.SectionInput {
	return content.SectionInput{
		Title:        in.Title,
		Subtitle:     value(in.Subtitle),
		ImageURL:     value(in.ImageURL),
		Link:         value(in.Link),
		DisplayOrder: value(in.Order),
		Active:       in.Active,
	}
}

func MapPostInput(in model.PostInput) content.PostInput {
	return content.PostInput{
		Slug:       value(in.Slug),
		Title:      in.Title,
		Excerpt:    value(in.Excerpt),
		Body:       in.Body,
		CoverImage: value(in.CoverImage),
		Published:  value(in.Published),
	}
}

func MapSubscriberToGraphQL(s newsletter.Subscription) model.Subscriber {
	return model.Subscriber{Email: s.Email, CreatedAt: s.CreatedAt}
}

// ---------------- review ----------------

func MapReviewToGraphQL(r review.Review) model.Review {
	return model.Review{
		ID:         formatID(r.ID),
		ProductID:  optional(r.ProductID),
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Text:       r.Text,
		Approved:   r.Approved,
		Featured:   r.Featured,
		CreatedAt:  r.CreatedAt,
	}
}

// ---------------- order ----------------

func MapOrderToGraphQL(o order.Order) model.Order {
	return model.Order{
		ID:         o.ID.String(),
		Number:     o.Number,
		BuyerName:  o.Buyer.Name,
		BuyerEmail: o.Buyer.Email,
		BuyerPhone: o.Buyer.Phone,
		Items: mapList(o.Items, func(it order.Item) model.OrderItem {
			return model.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  it.Quantity,
				UnitPrice: model.NewMoney(it.UnitPrice),
			}
		}),
		DeliveryOption: string(o.DeliveryOption),
		Address:        optional(o.Address),
		DeliveryFee:    model.NewMoney(o.DeliveryFee),
		Total:          model.NewMoney(o.Total),
		Currency:       o.Currency,
		Status:         string(o.Status),
		PaymentID:      optional(o.PaymentID),
		CreatedAt:      o.CreatedAt,
		PaidAt:         o.PaidAt,
	}
}
