/*Package access provides utilities for access control
 */
package access

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"

	"github.com/openwidget/widgetkit/core/logger"
)

// contextKey is the type for context keys. Go linter does not like plain strings
type contextKey string

// the predefined context key
const (
	contextKeyAuthorization contextKey = "_authorization_"
)

// Authorization is a context object which stores authorization information
// for the requester of a widget backend.
//
// An authorization carries a list of roles and can carry additional
// properties. It is added to the request context by the bearer-token
// middleware.
type Authorization struct {
	Roles      []string          `json:"roles"`
	Properties map[string]string `json:"properties,omitempty"`
}

// HasRole returns true if the authorization contains the requested role;
// otherwise it returns false.
func (a *Authorization) HasRole(role string) bool {
	if a == nil || a.Roles == nil {
		return false
	}
	for _, hasRole := range a.Roles {
		if role == hasRole {
			return true
		}
	}
	return false
}

// Property returns the value for the requested property; if the
// property does not exist, it returns an empty string and false.
func (a *Authorization) Property(name string) (string, bool) {
	if a == nil || a.Properties == nil {
		return "", false
	}
	value, ok := a.Properties[name]
	return value, ok
}

// ContextWithAuthorization returns a new context with this authorization added to it
func (a *Authorization) ContextWithAuthorization(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyAuthorization, a)
}

// AuthorizationFromContext retrieves an authorization from the context
func AuthorizationFromContext(ctx context.Context) *Authorization {
	a, ok := ctx.Value(contextKeyAuthorization).(*Authorization)
	if ok {
		return a
	}
	return nil
}

// Verifier validates a bearer token and returns the authorization it
// stands for. Verify returns an error for tokens that do not validate.
type Verifier interface {
	Verify(token string) (*Authorization, error)
}

// Middleware returns a middleware handler that validates the
// "Authorization: Bearer" header with the given verifier.
//
// Requests without a token or with a token the verifier rejects are
// answered with a JSON error and http.StatusUnauthorized. The dashboard
// host displays that error message to the user.
func Middleware(v Verifier) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rlog := logger.FromContext(r.Context())

			tokenString := ""
			bearer := r.Header.Get("Authorization")
			if len(bearer) >= 8 && strings.ToLower(bearer[:7]) == "bearer " {
				tokenString = bearer[7:]
			}
			if len(tokenString) == 0 {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			auth, err := v.Verify(tokenString)
			if err != nil {
				rlog.WithError(err).Debugln("token rejected")
				writeUnauthorized(w, "invalid token")
				return
			}

			r = r.WithContext(auth.ContextWithAuthorization(r.Context()))
			h.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	jsonData, _ := json.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write(jsonData)
}
