package utils

import (
	"context"

	"capability-dashboard/pkg/contextkeys"
	apperrors "capability-dashboard/pkg/errors"
)

func GetEmployeeIDFromCtx(ctx context.Context) (string, error) {
	id, ok := ctx.Value(contextkeys.EmployeeIDKey).(string)
	if !ok || id == "" {
		return "", apperrors.ErrEmployeeIDNotFoundInContext
	}
	return id, nil
}

func GetEmployeeNameFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(contextkeys.EmployeeNameKey).(string)
	return name
}

func GetPermissionsMapFromCtx(ctx context.Context) (map[string]bool, error) {
	perms, ok := ctx.Value(contextkeys.PermissionsMapKey).(map[string]bool)
	if !ok {
		return nil, apperrors.ErrForbidden
	}
	return perms, nil
}
