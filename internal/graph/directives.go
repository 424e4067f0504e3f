package graph

import (
	"context"
	"errors"

	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/utils"

	"github.com/99designs/gqlgen/graphql"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin access required")
)

// HasRole guards a field. Identity comes from the auth middleware, which
// leaves callers with unusable tokens anonymous.
func HasRole(ctx context.Context, _ any, next graphql.Resolver, role model.Role) (any, error) {
	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		return nil, ErrUnauthenticated
	}
	if role == model.RoleAdmin && !utils.IsAdmin(ctx) {
		return nil, ErrForbidden
	}
	return next(ctx)
}
