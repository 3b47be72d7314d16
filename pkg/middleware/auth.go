package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"capability-dashboard/pkg/contextkeys"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/service"
	"capability-dashboard/pkg/utils"
)

// EmployeeSession is what the auth boundary attaches to every request:
// the display name and the combined permission set of the employee.
type EmployeeSession struct {
	Name        string          `json:"name"`
	Permissions map[string]bool `json:"permissions"`
}

// PermissionResolver loads the session of an employee. The production
// implementation sits in internal/services and caches the result in
// Redis, so role edits propagate without re-login.
type PermissionResolver interface {
	EmployeeSession(ctx context.Context, employeeID string) (*EmployeeSession, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	resolver   PermissionResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, resolver PermissionResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		resolver:   resolver,
		logger:     logger,
	}
}

// Auth validates the bearer token and attaches the employee id plus the
// resolved permission set to the request context. Handlers downstream
// never parse permissions again.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		session, err := m.resolver.EmployeeSession(c.Request().Context(), claims.EmployeeID)
		if err != nil {
			m.logger.Error("failed to resolve session", zap.String("employeeID", claims.EmployeeID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.EmployeeIDKey, claims.EmployeeID)
		ctx = context.WithValue(ctx, contextkeys.EmployeeNameKey, session.Name)
		ctx = context.WithValue(ctx, contextkeys.PermissionsMapKey, session.Permissions)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
