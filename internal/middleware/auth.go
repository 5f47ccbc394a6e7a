package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
)

// AuthMiddleware resolves the caller's user id from a bearer token and stores
// it on the request context. With no JWT secret configured (local dev) every
// request runs as the demo user instead.
func AuthMiddleware(cfg *config.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.JWTSecret == "" {
				c.Set("user_id", cfg.DemoUserID)
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				return apperr.Unauthorized("missing bearer token")
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperr.Unauthorized("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				return apperr.Unauthorized("invalid or expired token")
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				return apperr.Unauthorized("token has no subject")
			}

			c.Set("user_id", subject)
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	if id, ok := c.Get("user_id").(string); ok {
		return id
	}
	return ""
}
