package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"capability-dashboard/internal/authz"
	"capability-dashboard/internal/controllers"
	"capability-dashboard/internal/extapi"
	"capability-dashboard/internal/repositories"
	"capability-dashboard/internal/services"
	syncpkg "capability-dashboard/internal/sync"
	"capability-dashboard/pkg/config"
	"capability-dashboard/pkg/middleware"
	"capability-dashboard/pkg/service"
)

// InitRouter wires repositories, services and controllers, then mounts
// every route group under /api.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")

	// Repositories.
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	departmentRepo := repositories.NewDepartmentRepository(dbConn, logger)
	positionRepo := repositories.NewPositionRepository(dbConn, logger)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, logger)
	achievementRepo := repositories.NewAchievementRepository(dbConn, logger)
	targetRepo := repositories.NewTargetRepository(dbConn, logger)
	roleRepo := repositories.NewRoleRepository(dbConn, logger)
	userRoleRepo := repositories.NewUserRoleRepository(dbConn, logger)
	syncLogRepo := repositories.NewSyncLogRepository(dbConn, logger)
	riskDataRepo := repositories.NewRiskDataRepository(dbConn, logger)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, logger)

	// External HR client and the sync write side.
	extClient := extapi.NewClient(cfg.ExternalAPI, logger)
	syncWriter := syncpkg.NewHandler(repositories.NewTxManager(dbConn), departmentRepo, positionRepo, employeeRepo, logger)

	// Services.
	authPermissionService := services.NewAuthPermissionService(employeeRepo, roleRepo, cacheRepo, logger)
	authService := services.NewAuthService(employeeRepo, departmentRepo, positionRepo, extClient, authPermissionService, jwtSvc, logger)
	departmentService := services.NewDepartmentService(departmentRepo, logger)
	positionService := services.NewPositionService(positionRepo, logger)
	employeeService := services.NewEmployeeService(employeeRepo, logger)
	achievementService := services.NewAchievementService(achievementRepo, employeeRepo, logger)
	targetService := services.NewTargetService(targetRepo, departmentRepo, logger)
	roleService := services.NewRoleService(roleRepo, userRoleRepo, cacheRepo, logger)
	userRoleService := services.NewUserRoleService(userRoleRepo, roleRepo, employeeRepo, cacheRepo, logger)
	riskDataService := services.NewRiskDataService(riskDataRepo, logger)
	syncService := services.NewSyncService(extClient, syncWriter, syncLogRepo, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, targetRepo, riskDataRepo, logger)
	reportService := services.NewReportService(achievementRepo, logger)

	// Controllers.
	authController := controllers.NewAuthController(authService, logger)
	departmentController := controllers.NewDepartmentController(departmentService, logger)
	positionController := controllers.NewPositionController(positionService, logger)
	employeeController := controllers.NewEmployeeController(employeeService, logger)
	achievementController := controllers.NewAchievementController(achievementService, logger)
	targetController := controllers.NewTargetController(targetService, logger)
	roleController := controllers.NewRoleController(roleService, logger)
	userRoleController := controllers.NewUserRoleController(userRoleService, logger)
	riskDataController := controllers.NewRiskDataController(riskDataService, logger)
	syncController := controllers.NewSyncController(syncService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)
	reportController := controllers.NewReportController(reportService, logger)

	authMW := middleware.NewAuthMiddleware(jwtSvc, authPermissionService, logger)

	// Public auth endpoints.
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/refresh", authController.RefreshToken)

	secure := api.Group("", authMW.Auth)
	secure.GET("/auth/me", authController.GetProfile)

	// Dashboards.
	secure.GET("/dashboard", dashboardController.GetBasicStats, authMW.RequirePermission(authz.DashboardView))
	secure.GET("/dashboard/charts/:type", dashboardController.GetChart, authMW.RequirePermission(authz.DashboardView))
	secure.GET("/dashboard/kapabilitas-risiko", dashboardController.GetLegacyCapabilityDashboard, authMW.RequirePermission(authz.DashboardView))
	secure.GET("/dashboard/kapabilitas-risiko-v2", dashboardController.GetCapabilityDashboard, authMW.RequirePermission(authz.DashboardView))

	// Master data.
	masterView := authMW.RequirePermission(authz.MasterDataView)
	masterManage := authMW.RequirePermission(authz.MasterDataManage)

	secure.GET("/departments", departmentController.GetDepartments, masterView)
	secure.GET("/departments/:id", departmentController.FindDepartment, masterView)
	secure.POST("/departments", departmentController.CreateDepartment, masterManage)
	secure.PUT("/departments/:id", departmentController.UpdateDepartment, masterManage)
	secure.DELETE("/departments/:id", departmentController.DeleteDepartment, masterManage)

	secure.GET("/positions", positionController.GetPositions, masterView)
	secure.GET("/positions/:id", positionController.FindPosition, masterView)
	secure.POST("/positions", positionController.CreatePosition, masterManage)
	secure.PUT("/positions/:id", positionController.UpdatePosition, masterManage)
	secure.DELETE("/positions/:id", positionController.DeletePosition, masterManage)

	secure.GET("/employees", employeeController.GetEmployees, masterView)
	secure.GET("/employees/:id", employeeController.FindEmployee, masterView)
	secure.POST("/employees", employeeController.CreateEmployee, masterManage)
	secure.PUT("/employees/:id", employeeController.UpdateEmployee, masterManage)
	secure.DELETE("/employees/:id", employeeController.DeleteEmployee, masterManage)

	// Achievements.
	secure.GET("/achievements", achievementController.GetAchievements, authMW.RequirePermission(authz.AchievementsView))
	secure.GET("/achievements/:id", achievementController.FindAchievement, authMW.RequirePermission(authz.AchievementsView))
	secure.POST("/achievements", achievementController.CreateAchievement, authMW.RequirePermission(authz.AchievementsCreate))
	secure.PUT("/achievements/:id", achievementController.UpdateAchievement, authMW.RequirePermission(authz.AchievementsUpdate))
	secure.DELETE("/achievements/:id", achievementController.DeleteAchievement, authMW.RequirePermission(authz.AchievementsDelete))

	// Targets.
	secure.GET("/targets", targetController.GetTargets, authMW.RequirePermission(authz.TargetsView))
	secure.GET("/targets/:id", targetController.FindTarget, authMW.RequirePermission(authz.TargetsView))
	secure.POST("/targets", targetController.CreateTarget, authMW.RequirePermission(authz.TargetsManage))
	secure.PUT("/targets/:id", targetController.UpdateTarget, authMW.RequirePermission(authz.TargetsManage))
	secure.DELETE("/targets/:id", targetController.DeleteTarget, authMW.RequirePermission(authz.TargetsManage))

	// Access management.
	rolesView := authMW.RequirePermission(authz.RolesView)
	rolesManage := authMW.RequirePermission(authz.RolesManage)

	secure.GET("/roles", roleController.GetRoles, rolesView)
	secure.GET("/roles/permissions", roleController.ListPermissions, rolesView)
	secure.GET("/roles/:id", roleController.FindRole, rolesView)
	secure.POST("/roles", roleController.CreateRole, rolesManage)
	secure.PUT("/roles/:id", roleController.UpdateRole, rolesManage)
	secure.DELETE("/roles/:id", roleController.DeleteRole, rolesManage)

	secure.GET("/user-roles", userRoleController.GetUserRoles, rolesView)
	secure.POST("/user-roles", userRoleController.AssignRole, rolesManage)
	secure.DELETE("/user-roles/:id", userRoleController.RemoveAssignment, rolesManage)

	// Master data synchronization.
	syncRun := authMW.RequirePermission(authz.SyncRun)
	secure.POST("/sync/all", syncController.SyncAll, syncRun)
	secure.POST("/sync/departments", syncController.SyncDepartments, syncRun)
	secure.POST("/sync/positions", syncController.SyncPositions, syncRun)
	secure.POST("/sync/employees", syncController.SyncEmployees, syncRun)
	secure.GET("/sync/logs", syncController.GetSyncLogs, authMW.RequirePermission(authz.SyncLogsView))
	secure.GET("/sync/last", syncController.GetLastSync, authMW.RequirePermission(authz.SyncLogsView))
	secure.GET("/sync/test-connection", syncController.TestConnection, syncRun)

	// Reports.
	secure.GET("/reports/achievements", reportController.DownloadAchievementReport, authMW.RequirePermission(authz.ReportsView))

	// Legacy risk data administration.
	riskManage := authMW.RequirePermission(authz.RiskDataManage)
	secure.GET("/risk-data", riskDataController.GetRiskData, riskManage)
	secure.GET("/risk-data/:id", riskDataController.FindRiskData, riskManage)
	secure.POST("/risk-data", riskDataController.CreateRiskData, riskManage)
	secure.PUT("/risk-data/:id", riskDataController.UpdateRiskData, riskManage)
	secure.DELETE("/risk-data/:id", riskDataController.DeleteRiskData, riskManage)

	logger.Info("router initialized")
}
