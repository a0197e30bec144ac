package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/controllers"
	"github.com/yeremiapane/cleantrack/middlewares"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/realtime"
	"github.com/yeremiapane/cleantrack/services"
	"github.com/yeremiapane/cleantrack/store"
)

func SetupRouter(adapter *store.Adapter, hub *realtime.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	workflow := services.NewDeletionWorkflow(adapter)

	authCtrl := controllers.NewAuthController(adapter)
	deptCtrl := controllers.NewDepartmentController(adapter)
	cleanerCtrl := controllers.NewCleanerController(adapter)
	locationCtrl := controllers.NewLocationController(adapter)
	checkInCtrl := controllers.NewCheckInController(adapter)
	reportCtrl := controllers.NewReportController(adapter)
	requestCtrl := controllers.NewDeletionRequestController(adapter, workflow, hub)
	adminCtrl := controllers.NewAdminController(adapter)
	streamCtrl := controllers.NewStreamController(adapter, hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", authCtrl.Login)
	}

	// Direktori cleaner untuk layar login: satu-satunya read unscoped
	// tanpa autentikasi.
	r.GET("/directory/cleaners", authCtrl.Directory)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	// DEPARTMENTS (master)
	master := api.Group("/")
	master.Use(middlewares.RequireRoles(models.RoleMaster))
	{
		master.GET("/departments", deptCtrl.GetAllDepartments)
		master.POST("/departments", deptCtrl.CreateDepartment)
		master.PATCH("/departments/:department_id", deptCtrl.UpdateDepartment)
		master.DELETE("/departments/:department_id", deptCtrl.DeleteDepartment)

		master.GET("/deletion-requests", requestCtrl.GetAllDeletionRequests)
		master.POST("/deletion-requests/:request_id/resolve", requestCtrl.ResolveDeletionRequest)

		master.GET("/admin/legacy/stats", adminCtrl.GetLegacyStats)
		master.POST("/admin/legacy/migrate", adminCtrl.MigrateLegacyData)
	}

	// CLEANERS (manager, atau master yang drill via ?department_id=)
	staff := api.Group("/")
	staff.Use(middlewares.RequireRoles(models.RoleManager, models.RoleMaster))
	{
		staff.GET("/cleaners", cleanerCtrl.GetAllCleaners)
		staff.POST("/cleaners", cleanerCtrl.CreateCleaner)
		staff.PATCH("/cleaners/:cleaner_id", cleanerCtrl.UpdateCleaner)
		staff.DELETE("/cleaners/:cleaner_id", cleanerCtrl.DeleteCleaner)

		staff.POST("/locations", locationCtrl.CreateLocation)
		staff.PATCH("/locations/:location_id", locationCtrl.UpdateLocation)
		staff.DELETE("/locations/:location_id", locationCtrl.DeleteLocation)

		staff.GET("/checkins", checkInCtrl.GetAllCheckIns)
		staff.DELETE("/departments/:department_id/checkins", checkInCtrl.ResetCheckIns)

		staff.GET("/reports/compliance", reportCtrl.GetCompliance)
		staff.GET("/reports/locations/:location_id", reportCtrl.GetLocationDetail)
	}

	// LOCATIONS read: cleaner juga boleh (scope-nya read-only).
	api.GET("/locations", locationCtrl.GetAllLocations)

	// CHECK-IN (cleaner)
	api.POST("/checkins", checkInCtrl.CreateCheckIn)

	// DELETION REQUESTS (manager)
	api.POST("/deletion-requests", requestCtrl.CreateDeletionRequest)

	// WebSocket live sync
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", streamCtrl.Stream)
	}

	return r
}
