package graph

//go:generate go run github.com/99designs/gqlgen generate

import (
	"time"

	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/content"
	"paulapastas-be/internal/newsletter"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/user"

	"github.com/99designs/gqlgen/graphql"
)

// Resolver exposes the storefront services over GraphQL. Checkout and the
// payment webhook stay on plain HTTP.
type Resolver struct {
	CatalogSvc    catalog.Service
	CartSvc       cart.Service
	ContentSvc    content.Service
	ReviewSvc     review.Service
	NewsletterSvc newsletter.Service
	UserSvc       user.Service
	OrderSvc      order.Service

	CartTTL       time.Duration
	SessionTTL    time.Duration
	SecureCookies bool
}

func NewSchema(r *Resolver) graphql.ExecutableSchema {
	return NewExecutableSchema(Config{
		Resolvers: r,
		Directives: DirectiveRoot{
			HasRole: HasRole,
		},
	})
}

func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
