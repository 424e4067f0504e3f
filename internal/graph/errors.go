package graph

import (
	"context"
	"errors"

	"paulapastas-be/internal/cart"
	"paulapastas-be/internal/catalog"
	"paulapastas-be/internal/content"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/order"
	"paulapastas-be/internal/review"
	"paulapastas-be/internal/user"
	"paulapastas-be/internal/utils"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

const (
	CodeBadInput        = "BAD_USER_INPUT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

func errorCode(err error) string {
	if _, ok := utils.IsValidationError(err); ok {
		return CodeBadInput
	}
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, user.ErrInvalidCredentials):
		return CodeUnauthenticated
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, content.ErrBannerNotFound),
		errors.Is(err, content.ErrSectionNotFound),
		errors.Is(err, content.ErrPostNotFound),
		errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, review.ErrProductNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return CodeNotFound
	case errors.Is(err, catalog.ErrSlugTaken),
		errors.Is(err, content.ErrSlugTaken),
		errors.Is(err, user.ErrEmailExists),
		errors.Is(err, cart.ErrProductUnavailable):
		return CodeConflict
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidSession),
		errors.Is(err, review.ErrNothingToChange):
		return CodeBadInput
	}
	return ""
}

// PresentError tags domain errors with an extensions.code and hides the
// message of anything unexpected. Errors gqlgen raises itself (parsing,
// validation, argument decoding) pass through untouched.
func PresentError(ctx context.Context, err error) *gqlerror.Error {
	out := graphql.DefaultErrorPresenter(ctx, err)

	if code := errorCode(err); code != "" {
		ext := map[string]any{"code": code}
		if ve, ok := utils.IsValidationError(err); ok {
			ext["details"] = ve.Details
		}
		out.Extensions = ext
		return out
	}

	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return out
	}

	logger.FromCtx(ctx).Error("graphql resolver failed",
		zap.String("path", out.Path.String()),
		zap.Error(err),
	)
	out.Message = "internal server error"
	out.Extensions = map[string]any{"code": CodeInternal}
	return out
}
