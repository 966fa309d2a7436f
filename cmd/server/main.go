package main

import (
	"net/http"
	"os"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/api/handlers"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/api/middleware"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/config"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/crypto"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/database"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/debug"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/web"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/websocket"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	}

	// Set Gin mode
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open database
	logger.Infof("Opening database: %s", cfg.DatabasePath)
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Dev-only: wipe run history, e.g. between demo days
	if os.Getenv("MYEYES_DEV_PRUNE_HISTORY") == "1" || os.Getenv("MYEYES_DEV_PRUNE_HISTORY") == "true" {
		logger.Warnf("MYEYES_DEV_PRUNE_HISTORY enabled - pruning run history")
		if err := debug.PruneHistory(db.DB); err != nil {
			logger.Warnf("Failed to prune history: %v", err)
		}
	}

	// Initialize JWT manager when operator auth is configured
	var jwtManager *crypto.JWTManager
	if cfg.AuthEnabled() {
		logger.Infof("Initializing JWT manager...")
		jwtManager, err = crypto.NewJWTManager(cfg.MasterSecret)
		if err != nil {
			logger.Errorf("Failed to create JWT manager: %v", err)
			os.Exit(1)
		}
	} else {
		logger.Warnf("No master secret configured - control routes are open")
	}

	// Initialize Socket.IO server (owns the engine and camera manager)
	logger.Infof("Initializing Socket.IO server...")
	socketIOServer := websocket.NewSocketIOServer(db.DB, cfg)
	defer socketIOServer.Close()

	// Create Gin router
	router := gin.Default()

	// CORS middleware
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Logging middleware
	router.Use(middleware.LoggingMiddleware())

	// Root endpoint - serves the built-in demo page
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.Index())
	})

	// Health endpoint for load balancers and uptime checks
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Initialize handlers
	statusHandler := handlers.NewStatusHandler(socketIOServer)
	navigationHandler := handlers.NewNavigationHandler(socketIOServer)
	cameraHandler := handlers.NewCameraHandler(socketIOServer)
	historyHandler := handlers.NewHistoryHandler(db.DB, cfg.HistoryLimit)
	authHandler := handlers.NewAuthHandler(cfg.MasterSecret, jwtManager)

	// Public routes (no auth required)
	v1 := router.Group("/v1")
	{
		v1.POST("/auth", authHandler.PostAuth)
		v1.GET("/status", statusHandler.GetStatus)
		v1.GET("/camera", cameraHandler.GetCamera)
		v1.GET("/history", historyHandler.ListHistory)
	}

	// Control routes (auth required when a master secret is configured)
	protected := v1.Group("")
	if cfg.AuthEnabled() {
		protected.Use(middleware.AuthMiddleware(jwtManager))
	}
	{
		protected.POST("/navigation/start", navigationHandler.StartNavigation)
		protected.POST("/navigation/stop", navigationHandler.StopNavigation)
		protected.POST("/camera", cameraHandler.AttachCamera)
		protected.DELETE("/camera", cameraHandler.DetachCamera)
	}

	// Stub endpoint for compatibility with older status pollers
	router.GET("/api/status", statusHandler.GetStatus)

	// Frame ingest endpoint for push cameras (plain WebSocket, not Socket.IO)
	ingest := websocket.NewIngestServer(socketIOServer.Cameras())
	router.GET("/v1/camera/ingest", ingest.HandleFrames)

	// Mount Socket.IO endpoint (listening requires no auth)
	router.Any("/socket.io", socketIOServer.HandleSocketIO())
	router.Any("/socket.io/*any", socketIOServer.HandleSocketIO())

	// Start HTTP server
	logger.Infof("MyEyes server starting on http://localhost%s", cfg.Addr)
	logger.Infof("Database: %s", cfg.DatabasePath)
	if cfg.AuthEnabled() {
		logger.Infof("JWT signing enabled")
	}

	if err := router.Run(cfg.Addr); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
