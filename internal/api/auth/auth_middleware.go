package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ali-hasan-sss/syria-store-api/config"
	"github.com/ali-hasan-sss/syria-store-api/internal/api"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

// Define typed context keys
type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"
const ClaimsKey contextKey = "userClaims"

// parseBearerToken extracts and verifies the bearer credential. The token
// is trusted on signature and expiry alone; there is no revocation list.
func parseBearerToken(r *http.Request, jwtCfg config.JWTConfig) (*types.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("authorization header required")
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return nil, errors.New("authorization header format must be Bearer {token}")
	}
	tokenString := headerParts[1]

	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtCfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if jwtCfg.Issuer != "" && claims.Issuer != jwtCfg.Issuer {
		return nil, errors.New("invalid token issuer")
	}
	if jwtCfg.Audience != "" && !api.VerifyAudience(claims.Audience, jwtCfg.Audience) {
		return nil, errors.New("invalid token audience")
	}

	return claims, nil
}

func contextWithClaims(ctx context.Context, claims *types.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return ctx
}

// Authenticate is middleware to validate session tokens on protected routes.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	if jwtCfg.SecretKey == "" {
		logger.Error("FATAL: JWT Secret Key is not configured!")
		panic("JWT Secret Key cannot be empty")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			claims, err := parseBearerToken(r, jwtCfg)
			if err != nil {
				l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
				errMsg := "Invalid or expired token"
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					errMsg = "Token has expired"
				case errors.Is(err, jwt.ErrTokenMalformed):
					errMsg = "Malformed token"
				case errors.Is(err, jwt.ErrSignatureInvalid):
					errMsg = "Invalid token signature"
				case strings.Contains(err.Error(), "authorization header"):
					errMsg = "Access Denied: No token provided"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, errMsg)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(ctx, claims)))
		})
	}
}

// OptionalAuthenticate attaches identity claims when a valid bearer token
// is present and passes the request through unauthenticated otherwise.
// Public product reads use this so admins get full visibility.
func OptionalAuthenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearerToken(r, jwtCfg)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin gates a route on role == ADMIN. Runs AFTER Authenticate; an
// absent identity is treated as forbidden, never as a crash.
func RequireAdmin(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role, ok := GetUserRoleFromContext(ctx)
			if !ok || role != types.RoleAdmin {
				logger.WarnContext(ctx, "Admin gate rejected request",
					slog.String("role", role), slog.Bool("identity_present", ok))
				api.ErrorResponse(w, r, http.StatusForbidden, "Access Denied: Admins only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Helper functions to get claims from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

func GetClaimsFromContext(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*types.Claims)
	return claims, ok
}
