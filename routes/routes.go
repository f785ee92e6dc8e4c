package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"city-issues-api/controllers"
	"city-issues-api/middleware"
	"city-issues-api/models"
	"city-issues-api/services"
	"city-issues-api/utils"
)

// SetupRoutes wires the full API surface. All dependencies come in through
// the arguments; there is no package-level state.
func SetupRoutes(router *gin.Engine, db *gorm.DB, requestService *services.RequestService) {
	auth := &controllers.AuthController{DB: db}
	requests := &controllers.RequestController{Service: requestService}
	photos := &controllers.PhotoController{Service: requestService}
	workLogs := &controllers.WorkLogController{Service: requestService}
	notifications := &controllers.NotificationController{DB: db}
	users := &controllers.UserController{DB: db}
	analytics := &controllers.AnalyticsController{DB: db}

	// Stored photos are served directly.
	router.Static("/uploads", utils.UploadPath())

	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", auth.Register)
			public.POST("/login", auth.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "City Issues API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(db))
		{
			protected.GET("/profile", auth.GetProfile)

			// Requests: the lifecycle surface
			requestGroup := protected.Group("/requests")
			{
				// Only citizens submit; listing is RBAC-filtered inside
				requestGroup.POST("", middleware.RequireRole(models.RoleCitizen), requests.Create)
				requestGroup.GET("", requests.List)
				requestGroup.GET("/:id", requests.Get)

				// Workers act on their own assignments, admins on any
				requestGroup.PATCH("/:id/status",
					middleware.RequireRole(models.RoleWorker, models.RoleAdmin), requests.UpdateStatus)

				// Only admins assign
				requestGroup.PATCH("/:id/assign",
					middleware.RequireRole(models.RoleAdmin), requests.Assign)

				// Only the owning citizen approves
				requestGroup.PATCH("/:id/approve",
					middleware.RequireRole(models.RoleCitizen), requests.Approve)

				// Evidence and time tracking
				requestGroup.POST("/:id/photos", photos.Upload)
				requestGroup.GET("/:id/photos", photos.ListForRequest)
				requestGroup.POST("/:id/worklogs",
					middleware.RequireRole(models.RoleWorker), workLogs.Create)
			}

			// Flat upload route kept alongside the nested one
			protected.POST("/photos/upload", photos.UploadStandalone)

			// Notifications
			notificationGroup := protected.Group("/notifications")
			{
				notificationGroup.GET("", notifications.List)
				notificationGroup.GET("/unread-count", notifications.UnreadCount)
				notificationGroup.PATCH("/:id/read", notifications.MarkRead)
				notificationGroup.PATCH("/read-all", notifications.MarkAllRead)
			}

			// Admin-only surfaces
			admin := protected.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", users.List)
				admin.GET("/users/:id", users.Get)

				admin.GET("/analytics/dashboard", analytics.Dashboard)
				admin.GET("/analytics/hotspots", analytics.Hotspots)
				admin.GET("/analytics/workers", analytics.WorkerPerformance)
			}
		}
	}
}
