package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"water-admin/internal/app"

	"github.com/golang-jwt/jwt/v5"
)

type authClaimsKey struct{}

// AuthClaims holds the authenticated user's identity extracted from the JWT.
type AuthClaims struct {
	UserID int
	RoleID int
	Phone  string
}

// authFromContext returns the auth claims stored in ctx, or nil.
func authFromContext(ctx context.Context) *AuthClaims {
	v, _ := ctx.Value(authClaimsKey{}).(*AuthClaims)
	return v
}

// jwtClaims is the JWT payload struct used for signing and parsing.
type jwtClaims struct {
	UserID int    `json:"user_id"`
	RoleID int    `json:"role_id"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

// issueToken signs an HS256 token for session valid for ttl.
func issueToken(secret string, ttl time.Duration, session *app.UserSession) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: session.UserID,
		RoleID: session.RoleID,
		Phone:  session.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseToken verifies signature, algorithm and expiry.
func parseToken(secret, raw string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// RequireAuth is chi middleware that validates the Authorization: Bearer token
// and injects AuthClaims into the request context. A missing token is 401; a
// token that fails verification is 403.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		claims, err := parseToken(h.jwtSecret, strings.TrimSpace(raw))
		if err != nil {
			writeError(w, r, "invalid or expired token", "FORBIDDEN", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsKey{}, &AuthClaims{
			UserID: claims.UserID,
			RoleID: claims.RoleID,
			Phone:  claims.Phone,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits only callers whose token role id resolves to roleName.
// Must run after RequireAuth.
func (h *Handler) RequireRole(roleName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := authFromContext(r.Context())
			if claims == nil {
				writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
				return
			}
			ok, err := h.svc.HasRole(r.Context(), claims.RoleID, roleName)
			if err != nil {
				h.writeServiceError(w, r, err)
				return
			}
			if !ok {
				writeError(w, r, roleName+" access required", "FORBIDDEN", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Phone == "" || req.Password == "" {
		writeError(w, r, "phone and password are required", "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	signed, err := issueToken(h.jwtSecret, h.jwtTTL, session)
	if err != nil {
		h.writeServiceError(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	type loginResponse struct {
		Token string           `json:"token"`
		User  *app.UserSession `json:"user"`
	}
	writeJSON(w, loginResponse{Token: signed, User: session})
}

// me handles GET /api/auth/me and returns the current user's profile.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	user, err := h.svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}

// refreshRoleCache handles POST /api/admin/role-cache/refresh.
func (h *Handler) refreshRoleCache(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RefreshRoleCache(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
