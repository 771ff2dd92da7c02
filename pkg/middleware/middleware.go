package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/docket/pkg/handlers"
)

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type mw struct {
	stack []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &mw{
		stack: []func(http.Handler) http.Handler{},
	}
}

func (m *mw) Use(fn func(http.Handler) http.Handler) {
	m.stack = append(m.stack, fn)
}

func (m *mw) Apply(handler http.Handler) http.Handler {
	for i := len(m.stack) - 1; i >= 0; i-- {
		handler = m.stack[i](handler)
	}
	return handler
}

// Recover returns middleware that turns a handler panic into a logged 500
// JSON error instead of a dropped connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				handlers.RespondError(
					w, logger.With("method", r.Method, "uri", r.URL.RequestURI()),
					http.StatusInternalServerError,
					fmt.Errorf("panic: %v", v),
				)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
