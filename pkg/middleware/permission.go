package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/utils"
)

// RequirePermission guards a route with a single permission check against
// the set the Auth middleware already attached to the context.
func (m *AuthMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms, err := utils.GetPermissionsMapFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			if !perms["superuser"] && !perms[permission] {
				m.logger.Warn("permission denied",
					zap.String("permission", permission),
					zap.String("path", c.Path()),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}
