package middleware

import (
	"dynamicPricing/pkg/logger"
	"dynamicPricing/pkg/utils"
	"net/http"
	"strings"
	"time"

	jsonres "dynamicPricing/pkg/response"

	"github.com/labstack/echo/v4"
)

// ServiceAuth validates the Bearer service token and stashes the calling
// agent and role on the request context.
func ServiceAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || expAt == nil {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Status Forbidden", nil,
				))
			}

			if time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Token expired", nil,
				))
			}

			if claims.Agent == "" {
				logger.Error("Service token missing agent claim")
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid agent in token", nil,
				))
			}

			c.Set("agent", claims.Agent)
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// ServiceOnly restricts trigger endpoints to service-role tokens.
func ServiceOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get("role")
			roleStr, ok := role.(string)
			if !ok || strings.ToUpper(roleStr) != "SERVICE" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Service access required", nil,
				))
			}

			return next(c)
		}
	}
}
