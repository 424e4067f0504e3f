package graph

import (
	"context"
	"errors"
	"net/http"

	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/transport"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	gqltransport "github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"
)

const (
	queryCacheSize     = 1000
	persistedQuerySize = 100
	maxQueryComplexity = 300

	Endpoint       = "/graphql"
	PlaygroundPath = "/graphql/playground"
)

type HandlerConfig struct {
	// Introspection and the playground are off in production.
	Introspection bool
}

// NewHandler serves the schema over GET and POST. The raw request and writer
// travel in the context so resolvers can manage cookies.
func NewHandler(r *Resolver, cfg HandlerConfig) http.Handler {
	srv := handler.New(NewSchema(r))
	srv.AddTransport(gqltransport.Options{})
	srv.AddTransport(gqltransport.GET{})
	srv.AddTransport(gqltransport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](queryCacheSize))
	srv.Use(extension.AutomaticPersistedQuery{Cache: lru.New[string](persistedQuerySize)})
	srv.Use(extension.FixedComplexityLimit(maxQueryComplexity))
	if cfg.Introspection {
		srv.Use(extension.Introspection{})
	}

	srv.SetErrorPresenter(PresentError)
	srv.SetRecoverFunc(func(ctx context.Context, v any) error {
		logger.FromCtx(ctx).Error("graphql resolver panic", zap.Any("panic", v), zap.Stack("stack"))
		return errors.New("internal server error")
	})
	srv.AroundOperations(func(ctx context.Context, next graphql.OperationHandler) graphql.ResponseHandler {
		if oc := graphql.GetOperationContext(ctx); oc != nil {
			logger.FromCtx(ctx).Debug("graphql operation", zap.String("operation", oc.OperationName))
		}
		return next(ctx)
	})

	return transport.Middleware(srv)
}

func PlaygroundHandler() http.Handler {
	return playground.Handler("PaulaPastas GraphQL", Endpoint)
}
