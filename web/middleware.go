package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/liaisonhq/liaison/auth"
)

type actorKey struct{}

// ActorFromContext returns the authenticated actor, or nil for anonymous
// requests.
func ActorFromContext(ctx context.Context) *auth.Actor {
	actor, _ := ctx.Value(actorKey{}).(*auth.Actor)
	return actor
}

// actorClaims is the token payload the server issues and accepts.
type actorClaims struct {
	jwt.RegisteredClaims
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Authenticator validates bearer tokens and places the actor on the request
// context. Requests without a token proceed as anonymous; the data services
// decide what anonymous callers may do.
func Authenticator(signingKey []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, "malformed authorization header", http.StatusUnauthorized)
				return
			}

			claims := &actorClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return signingKey, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("rejected bearer token", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				http.Error(w, "invalid token subject", http.StatusUnauthorized)
				return
			}

			actor := &auth.Actor{ID: id, Roles: claims.Roles, Permissions: claims.Permissions}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
		})
	}
}

// IssueToken mints a signed token for an actor. Used by tests and by the
// development login endpoint.
func IssueToken(signingKey []byte, actor *auth.Actor) (string, error) {
	claims := actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: actor.ID.String()},
		Roles:            actor.Roles,
		Permissions:      actor.Permissions,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
}
