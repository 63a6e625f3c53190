package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ownerKey is the context key for the authenticated owner's ID.
// An unexported struct type cannot collide with keys from other packages.
type ownerKey struct{}

// NewAuthHandler returns a middleware that verifies the request's bearer
// token (HS256, signed with secret) and places the token subject — the
// owner's UUID — into the request context. Requests with a missing,
// malformed, expired, or otherwise invalid token are rejected with 401.
//
// Token issuance lives elsewhere; this middleware only verifies.
// Downstream handlers read the identity via OwnerFromContext and never
// touch the Authorization header themselves.
func NewAuthHandler(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing Authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Authorization header must be a Bearer token")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims,
				func(t *jwt.Token) (any, error) { return secret, nil },
				jwt.WithValidMethods([]string{"HS256"}),
			)
			if err != nil || !token.Valid {
				unauthorized(w, "invalid or expired token")
				return
			}

			ownerID, err := uuid.Parse(claims.Subject)
			if err != nil {
				unauthorized(w, "token subject is not a valid user id")
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey{}, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext returns the authenticated owner's ID placed in ctx by
// NewAuthHandler. The second return is false when the request never passed
// through the auth middleware.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return id, ok
}

// WithOwner returns a copy of ctx carrying the given owner ID, exactly as
// NewAuthHandler would set it. Intended for handler tests.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// unauthorized writes the same error envelope the handlers use, without
// importing the handler package (which would cycle).
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"unauthorized","message":"` + message + `"}}`))
}
