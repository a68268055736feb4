package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
)

// Auth verifies the bearer token locally and injects the caller identity
// into the context. Requests without a header pass through anonymous;
// protected endpoints reject them in RequireRoles.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		identity, err := m.verifyToken(token)
		if err != nil {
			m.log.Warn(wrap.WithAction(ctx, "auth"), "token rejected", "err", err.Error())
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = models.WithIdentity(ctx, identity)
		ctx = wrap.WithUserID(ctx, identity.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles wraps a handler and allows only callers with one of the
// given roles.
func (m *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.Role) http.Handler {
	allowed := make(map[types.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := models.IdentityFromContext(r.Context())
		if !ok {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[identity.Role]; !ok {
				errorResponse(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// verifyToken checks the HMAC signature and extracts subject and role.
// Tokens are issued elsewhere; this service only verifies them.
func (m *Middleware) verifyToken(tokenStr string) (models.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, fmt.Errorf("unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Identity{}, fmt.Errorf("missing subject claim: %w", err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.Identity{}, fmt.Errorf("subject is not a valid id: %w", err)
	}

	role, _ := claims["role"].(string)
	switch types.Role(role) {
	case types.RoleRider, types.RoleDriver:
	default:
		return models.Identity{}, fmt.Errorf("unknown role %q", role)
	}

	return models.Identity{ID: id, Role: types.Role(role)}, nil
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
