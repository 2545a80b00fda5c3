package middleware

import (
	"errors"
	"net/http"
	"strings"

	"photovault/internal/pkg/jwt"
	"photovault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// OwnerKey is the gin context key the gate stores the resolved owner under.
const OwnerKey = "owner"

// ErrUnauthenticated is returned by an Authenticator when no owner identity
// can be resolved from the request.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves a request to an owner identifier. Handlers are
// written against this capability, not against a concrete token scheme.
type Authenticator interface {
	Resolve(r *http.Request) (string, error)
}

// HeaderTokenAuthenticator trusts the second whitespace-delimited segment of
// the Authorization header as the owner identifier. This reproduces the
// upstream contract exactly: the value is NOT verified and callers must not
// assume tamper-resistance. Use JWTAuthenticator for anything real.
type HeaderTokenAuthenticator struct{}

func (HeaderTokenAuthenticator) Resolve(r *http.Request) (string, error) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) < 2 || parts[1] == "" {
		return "", ErrUnauthenticated
	}
	return parts[1], nil
}

// JWTAuthenticator verifies a Bearer JWT and resolves the owner from its
// claims.
type JWTAuthenticator struct {
	tokens *jwt.Service
}

func NewJWTAuthenticator(tokens *jwt.Service) *JWTAuthenticator {
	return &JWTAuthenticator{tokens: tokens}
}

func (a *JWTAuthenticator) Resolve(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", ErrUnauthenticated
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if tokenStr == "" {
		return "", ErrUnauthenticated
	}

	claims, err := a.tokens.ValidateToken(tokenStr)
	if err != nil || claims.Owner == "" {
		return "", ErrUnauthenticated
	}
	return claims.Owner, nil
}

// RequireOwner gates the read, delete and recover paths: every request must
// resolve to an owner identifier or is rejected with 401.
func RequireOwner(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := auth.Resolve(c.Request)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "No owner identity provided")
			c.Abort()
			return
		}

		c.Set(OwnerKey, owner)
		c.Next()
	}
}

// OwnerFromForm gates the ingestion path: the owner identifier arrives as
// the "email" field of the multipart body, alongside the files.
func OwnerFromForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.PostForm("email"))
		if owner == "" {
			response.Error(c, http.StatusBadRequest, "MISSING_OWNER", "Email ID is required")
			c.Abort()
			return
		}

		c.Set(OwnerKey, owner)
		c.Next()
	}
}

// Owner returns the identifier stored by the gate, or "" if the route was
// not gated.
func Owner(c *gin.Context) string {
	return c.GetString(OwnerKey)
}
