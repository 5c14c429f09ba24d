// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/config"
	"github.com/grantguru/grantguru-backend/internal/handlers"
	"github.com/grantguru/grantguru-backend/internal/middleware"
	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	backupService, err := services.NewBackupService(db, cfg.Backup.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backups: %w", err)
	}

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	grantService := services.NewGrantService(db)
	documentService := services.NewDocumentService(db, storageService, cfg.Storage.MaxUploadSize)
	applicationService := services.NewApplicationService(db, documentService)
	taskService := services.NewTaskService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	grantHandler := handlers.NewGrantHandler(grantService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	taskHandler := handlers.NewTaskHandler(taskService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	backupHandler := handlers.NewBackupHandler(backupService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxUploadSize

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLog(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
		}

		// Public grant catalog
		public := api.Group("/public")
		{
			public.GET("/grant/:id", grantHandler.GetGrant)
			public.GET("/search_grants", grantHandler.SearchGrants)
			public.GET("/aggregate-grants", grantHandler.AggregateFunding)
			public.GET("/fetch_grant_count", grantHandler.CountGrants)
		}

		// Authenticated user routes
		user := api.Group("/user")
		user.Use(middleware.AuthRequired())
		{
			user.GET("/profile", authHandler.GetProfile)
			user.PUT("/personal-info", userHandler.UpdatePersonalInfo)
			user.PUT("/email", userHandler.UpdateEmail)
			user.PUT("/password", userHandler.UpdatePassword)

			applications := user.Group("/applications")
			{
				applications.GET("", applicationHandler.ListApplications)
				applications.POST("", applicationHandler.CreateApplication)

				// Backup routes are registered before /:id so the
				// literal segment wins.
				backup := applications.Group("/backup")
				{
					backup.GET("", backupHandler.ListBackups)
					backup.POST("", backupHandler.CreateBackup)
					backup.GET("/:filename/download", backupHandler.DownloadBackup)
					backup.POST("/:filename/restore", backupHandler.RestoreBackup)
					backup.DELETE("/:filename", backupHandler.DeleteBackup)
				}

				applications.GET("/:id", applicationHandler.GetApplication)
				applications.PUT("/:id", applicationHandler.UpdateApplication)
				applications.DELETE("/:id", applicationHandler.DeleteApplication)
				applications.POST("/:id/submit", applicationHandler.SubmitApplication)

				applications.GET("/:id/tasks", taskHandler.ListTasks)
				applications.POST("/:id/tasks", taskHandler.CreateTask)
				applications.PUT("/:id/tasks/:taskId", taskHandler.UpdateTask)
				applications.DELETE("/:id/tasks/:taskId", taskHandler.DeleteTask)

				applications.GET("/:id/documents", documentHandler.ListDocuments)
				applications.POST("/:id/documents", middleware.UploadRateLimit(), documentHandler.UploadDocuments)
				applications.GET("/:id/documents/:docId/download", documentHandler.DownloadDocument)
				applications.DELETE("/:id/documents/:docId", documentHandler.DeleteDocument)
			}
		}
	}

	return r, nil
}
