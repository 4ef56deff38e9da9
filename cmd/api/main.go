package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/packrat-backup/packrat/internal/config"
	"github.com/packrat-backup/packrat/internal/handlers"
	"github.com/packrat-backup/packrat/internal/middleware"
	"github.com/packrat-backup/packrat/internal/models"
	"github.com/packrat-backup/packrat/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	authService := services.NewAuthService(db, redisClient, cfg)
	targetService := services.NewTargetService(db)
	tagService := services.NewTagService(db)
	groupService := services.NewGroupService(db)
	engineClient := services.NewEngineClient(cfg)
	jobService := services.NewJobService(db, engineClient)
	runService := services.NewRunService(db)
	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to init S3 service: %v", err)
	}
	restoreService := services.NewRestoreService(db, s3Service)
	settingsService := services.NewSettingsService(db)
	pluginClient := services.NewPluginClient(cfg)
	artifactService := services.NewArtifactService(db, cfg, s3Service)

	// Create admin user if not exists
	if err := authService.CreateDefaultAdmin(); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Periodic cleanup of expired refresh tokens
	go func() {
		for {
			if err := authService.CleanupExpiredTokens(); err != nil {
				log.Printf("Refresh token cleanup error: %v", err)
			}
			time.Sleep(1 * time.Hour)
		}
	}()

	// Reconcile artifact records against the bucket on start, in the
	// background so a slow bucket does not delay serving.
	go func() {
		time.Sleep(10 * time.Second)
		synced, err := artifactService.SyncFromBucket(context.Background())
		if err != nil {
			log.Printf("Artifact sync error: %v", err)
		} else if synced > 0 {
			log.Printf("Artifact sync: registered %d artifacts from bucket", synced)
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	targetHandler := handlers.NewTargetHandler(targetService, tagService)
	tagHandler := handlers.NewTagHandler(tagService)
	groupHandler := handlers.NewGroupHandler(groupService)
	jobHandler := handlers.NewJobHandler(jobService)
	runHandler := handlers.NewRunHandler(runService)
	restoreHandler := handlers.NewRestoreHandler(restoreService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	pluginHandler := handlers.NewPluginHandler(pluginClient)
	backupHandler := handlers.NewBackupHandler(artifactService)

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Health check also available under /api/v1/health for compatibility
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimit(redisClient, 10, 5), authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
			auth.GET("/me", middleware.Auth(authService), authHandler.Me)
		}

		// Engine callback: the engine reports run results here,
		// authenticated by the shared callback token rather than admin JWT
		api.POST("/runs/:id/result", middleware.EngineAuth(cfg), runHandler.IngestRunResult)

		// Console routes, admin only
		admin := api.Group("")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.AdminOnly())
		admin.Use(middleware.TriggerRateLimit(redisClient))
		{
			// Targets
			admin.GET("/targets", targetHandler.ListTargets)
			admin.POST("/targets", targetHandler.CreateTarget)
			admin.GET("/targets/:id", targetHandler.GetTarget)
			admin.PUT("/targets/:id", targetHandler.UpdateTarget)
			admin.DELETE("/targets/:id", targetHandler.DeleteTarget)
			admin.GET("/targets/:id/tags", targetHandler.GetTargetTags)

			// Tags
			admin.GET("/tags", tagHandler.ListTags)
			admin.POST("/tags", tagHandler.CreateTag)
			admin.DELETE("/tags/:id", tagHandler.DeleteTag)
			admin.GET("/tags/:id/targets", tagHandler.GetTagTargets)
			admin.POST("/tags/:id/targets", tagHandler.AttachTarget)
			admin.DELETE("/tags/:id/targets/:targetId", tagHandler.DetachTarget)

			// Groups
			admin.GET("/groups", groupHandler.ListGroups)
			admin.POST("/groups", groupHandler.CreateGroup)
			admin.GET("/groups/:id", groupHandler.GetGroup)
			admin.PUT("/groups/:id", groupHandler.SaveGroup)
			admin.DELETE("/groups/:id", groupHandler.DeleteGroup)
			admin.POST("/groups/:id/targets", groupHandler.AddMembers)
			admin.DELETE("/groups/:id/targets", groupHandler.RemoveMembers)

			// Jobs
			// Specific routes BEFORE generic :id route to avoid conflicts
			admin.GET("/jobs/suggest-name", jobHandler.SuggestName)
			admin.GET("/jobs", jobHandler.ListJobs)
			admin.POST("/jobs", jobHandler.CreateJob)
			admin.GET("/jobs/:id", jobHandler.GetJob)
			admin.PUT("/jobs/:id", jobHandler.UpdateJob)
			admin.DELETE("/jobs/:id", jobHandler.DeleteJob)
			admin.POST("/jobs/:id/run", jobHandler.RunJob)

			// Runs (read-only for monitoring)
			admin.GET("/runs", runHandler.ListRuns)
			admin.GET("/runs/stats", runHandler.GetStats)
			admin.GET("/runs/:id", runHandler.GetRun)

			// Restores
			admin.GET("/restores", restoreHandler.ListRestores)
			admin.GET("/restores/:id", restoreHandler.GetRestore)
			admin.GET("/restores/:id/download", restoreHandler.GetDownloadURL)

			// Settings
			admin.GET("/settings/retention", settingsHandler.GetRetentionPolicy)
			admin.PATCH("/settings/retention", settingsHandler.UpdateRetentionPolicy)

			// Plugin registry proxy
			admin.GET("/plugins", pluginHandler.ListPlugins)
			admin.GET("/plugins/:key/schema", pluginHandler.GetPluginSchema)
			admin.POST("/plugins/:key/test", pluginHandler.TestPlugin)

			// Artifact import
			admin.POST("/backups/from-disk", backupHandler.ImportFromDisk)
			admin.POST("/backups/sync", backupHandler.SyncFromBucket)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
