package main

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/handlers"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/nexlayer/backend/pkg/response"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	cfg := svc.cfg

	r.HandleMethodNotAllowed = true
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.MaxMultipartMemory = 8 << 20

	r.NoMethod(func(c *gin.Context) {
		c.JSON(405, response.ErrorBody{Error: "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})

	// Middleware. The firewall runs before the audit recorder so blocked
	// requests are logged once, as FIREWALL_BLOCK.
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Security.TrustedOrigins))
	r.Use(middleware.Firewall(cfg.Security.FirewallPatterns, svc.eventQueue))
	r.Use(middleware.AuditLog(svc.eventQueue))

	requestLimiter := middleware.PerMinute(3)
	loginLimiter := middleware.PerMinute(5)

	health := handlers.NewHealthHandler(svc.db, svc.eventQueue)
	r.GET("/", health.Root)
	r.GET("/health", health.CheckHealth)

	requestHandler := handlers.NewRequestHandler(svc.db)
	projectHandler := handlers.NewProjectHandler(svc.db)
	reportHandler := handlers.NewReportHandler(svc.db)
	taskHandler := handlers.NewTaskHandler(svc.db)
	messageHandler := handlers.NewMessageHandler(svc.db)
	userHandler := handlers.NewUserHandler(svc.db)
	fileHandler := handlers.NewFileHandler(svc.db, svc.store, cfg.Storage.MaxUploadMB)
	securityLogHandler := handlers.NewSecurityLogHandler(svc.db)
	authHandler := handlers.NewAuthHandler(svc.db, cfg)

	api := r.Group("/api")
	{
		// Public routes; a valid credential is attached when present
		public := api.Group("", svc.authenticator.Optional())
		{
			public.POST("/create-request", requestLimiter.Middleware(), requestHandler.Create)
			public.POST("/requests", requestLimiter.Middleware(), requestHandler.Create)
			public.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)
		}

		// Protected routes
		protected := api.Group("", svc.authenticator.Required())
		{
			protected.GET("/auth/me", userHandler.Me)

			// Requests
			protected.GET("/requests", requestHandler.ListPending)
			protected.POST("/accept-request", requestHandler.Accept)
			protected.PATCH("/requests/:id/approve", requestHandler.Approve)

			// Projects
			protected.GET("/projects", projectHandler.List)
			protected.POST("/projects", projectHandler.Create)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.PATCH("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.POST("/projects/:id/assign", projectHandler.Assign)
			protected.POST("/assign-members", projectHandler.AssignMembers)

			// Messages
			protected.GET("/projects/:id/messages", messageHandler.List)
			protected.POST("/projects/:id/messages", messageHandler.Send)

			// Reports
			protected.POST("/submit-report", reportHandler.Submit)
			protected.POST("/reports", reportHandler.Submit)
			protected.GET("/reports", reportHandler.ListRecent)
			protected.GET("/reports/:projectId", reportHandler.ListForProject)

			// Tasks
			protected.GET("/tasks", taskHandler.List)
			protected.POST("/tasks", taskHandler.Create)
			protected.PATCH("/tasks/:id", taskHandler.Update)

			// Team
			protected.GET("/users", userHandler.ListTeam)

			// Files
			protected.GET("/files", fileHandler.List)
			protected.POST("/files", fileHandler.Upload)
			protected.GET("/files/:id/download", fileHandler.Download)
			protected.DELETE("/files/:id", fileHandler.Delete)

			// Security
			protected.GET("/security-logs", securityLogHandler.List)
		}
	}
}
