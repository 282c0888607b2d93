package middleware

import (
	"net/http"
	"strings"

	"github.com/fullstackyodha/wechat-backend/pkg/auth"
	"github.com/fullstackyodha/wechat-backend/pkg/common"

	"go.uber.org/zap"
)

// Authenticate validates the bearer token and rate-limits by client IP and
// user id. On success the user's id, username and uId are placed on the
// request context.
func Authenticate(tokens *auth.TokenManager, ipLimiter, userLimiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if allowed, _ := ipLimiter.Allow(r.Context(), clientIP); !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}

			token := extractToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authentication token")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				logger.Debug("token rejected",
					zap.String("ip", clientIP),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				message := "Invalid token"
				if err == auth.ErrExpiredToken {
					message = "Token has expired"
				}
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
				return
			}

			if allowed, _ := userLimiter.Allow(r.Context(), claims.UserID); !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "User rate limit exceeded")
				return
			}

			ctx := common.WithUserID(r.Context(), claims.UserID)
			ctx = common.WithUsername(ctx, claims.Username)
			ctx = common.WithUserUID(ctx, claims.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the token from the Authorization header or the
// auth_token cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return header
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
