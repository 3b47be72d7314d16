package contextkeys

type contextKey string

const (
	EmployeeIDKey     contextKey = "EmployeeID"
	EmployeeNameKey   contextKey = "EmployeeName"
	PermissionsMapKey contextKey = "PermissionsMap"
)
