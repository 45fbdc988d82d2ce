package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/controller"
	apperrors "meetsync/core/errors"
	"meetsync/core/utils"

	"github.com/golang-jwt/jwt/v5"
)

type Middleware struct {
	base controller.BaseController
}

func NewMiddleware() *Middleware {
	return &Middleware{
		base: controller.NewBaseController(),
	}
}

// AuthMiddleware validates the Bearer token and stores its claims on the
// request context for controllers to read.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return m.base.Unauthorized(apperrors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return m.base.Unauthorized(apperrors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			cfg, ok := config.GetSafe()
			if !ok {
				return m.base.InternalServerError(apperrors.ErrInternalServer, "Server configuration error")
			}

			claims, err := utils.ParseToken(parts[1], cfg.JWT.Secret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return m.base.Unauthorized(apperrors.ErrTokenExpired, "Token expired")
				}
				return m.base.Unauthorized(apperrors.ErrUnauthorized, "Invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
