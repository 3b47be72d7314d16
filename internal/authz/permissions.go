package authz

// Every permission known to the system. Roles store a serialized list of
// these strings; the auth middleware resolves them into a typed set once
// per request.
const (
	Superuser = "superuser"

	// Dashboards
	DashboardView = "dashboard:view"

	// Achievements
	AchievementsView   = "achievements:view"
	AchievementsCreate = "achievements:create"
	AchievementsUpdate = "achievements:update"
	AchievementsDelete = "achievements:delete"

	// Targets
	TargetsView   = "targets:view"
	TargetsManage = "targets:manage"

	// Master data (departments, positions, employees)
	MasterDataView   = "masterdata:view"
	MasterDataManage = "masterdata:manage"

	// Access management
	RolesView   = "roles:view"
	RolesManage = "roles:manage"

	// Synchronization
	SyncRun      = "sync:run"
	SyncLogsView = "sync:logs:view"

	// Reports
	ReportsView = "reports:view"

	// Legacy risk data administration
	RiskDataManage = "riskdata:manage"
)

// All lists every permission, in the order the access management screen
// presents them.
var All = []string{
	Superuser,
	DashboardView,
	AchievementsView, AchievementsCreate, AchievementsUpdate, AchievementsDelete,
	TargetsView, TargetsManage,
	MasterDataView, MasterDataManage,
	RolesView, RolesManage,
	SyncRun, SyncLogsView,
	ReportsView,
	RiskDataManage,
}

// Allowed reports whether the resolved permission set grants perm.
// Superuser implies everything.
func Allowed(perms map[string]bool, perm string) bool {
	if perms == nil {
		return false
	}
	return perms[Superuser] || perms[perm]
}
