package transport

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	requestKey ctxKey = iota
	responseWriterKey
)

// WithHTTP exposes the raw request and writer to code below a handler that
// hides them, such as GraphQL resolvers that need to set cookies.
func WithHTTP(ctx context.Context, r *http.Request, w http.ResponseWriter) context.Context {
	ctx = context.WithValue(ctx, requestKey, r)
	ctx = context.WithValue(ctx, responseWriterKey, w)
	return ctx
}

func GetRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(requestKey).(*http.Request)
	return r
}

func GetResponseWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responseWriterKey).(http.ResponseWriter)
	return w
}

// SetCookie is a no-op when ctx carries no writer.
func SetCookie(ctx context.Context, c *http.Cookie) {
	if w := GetResponseWriter(ctx); w != nil {
		http.SetCookie(w, c)
	}
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithHTTP(r.Context(), r, w)))
	})
}
