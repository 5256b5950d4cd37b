package main

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hsawada/project-management-api/internal/config"
	"github.com/hsawada/project-management-api/internal/database"
	"github.com/hsawada/project-management-api/internal/handlers"
	"github.com/hsawada/project-management-api/internal/middleware"
	"github.com/hsawada/project-management-api/internal/repository"
	"github.com/hsawada/project-management-api/internal/services"
	"github.com/hsawada/project-management-api/internal/token"
)

// maxPortRetries bounds how many successive ports are tried when the
// configured one is already bound.
const maxPortRetries = 5

func main() {
	// Load configuration; refuses to start without JWT_SECRET or DATABASE_URL
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token service holds the process-wide signing secret
	tokens, err := token.NewService(cfg.JWTSecret, token.DefaultTTL)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	projectRepo := repository.NewProjectRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokens)
	projectHandler := handlers.NewProjectHandler(projectService, cfg.UploadDir)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(cfg.CORSOrigin)))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	// Uploaded images are served 1:1 under the public /uploads path
	r.Static("/uploads", cfg.UploadDir)

	// API routes
	api := r.Group("/api")
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("", authHandler.Register)
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
			users.PUT("/me", middleware.RequireAuth(tokens), authHandler.UpdateProfile)
			users.PUT("/password", middleware.RequireAuth(tokens), authHandler.ChangePassword)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(tokens))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", middleware.RequireProjectOwnership(), projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireProjectOwnership(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectOwnership(), projectHandler.DeleteProject)
			projects.POST("/:id/image", middleware.RequireProjectOwnership(), projectHandler.UploadImage)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/project/:projectId", taskHandler.ListTasksByProject)
			tasks.GET("/:id", middleware.RequireTaskOwnership(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskOwnership(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskOwnership(), taskHandler.DeleteTask)
		}
	}

	// Start server, stepping to the next port when the configured one is
	// already bound
	ln, port, err := listenWithRetry(cfg.Port)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Printf("Server starting on :%s", port)
	if err := http.Serve(ln, r); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func corsConfig(origin string) cors.Config {
	c := cors.DefaultConfig()
	if origin == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = []string{origin}
	}
	c.AllowHeaders = append(c.AllowHeaders, "x-auth-token")
	return c
}

// listenWithRetry binds the configured port, incrementing it on bind
// conflicts for up to maxPortRetries additional attempts.
func listenWithRetry(port string) (net.Listener, string, error) {
	base, err := strconv.Atoi(port)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port %q: %w", port, err)
	}

	for i := 0; i <= maxPortRetries; i++ {
		candidate := base + i
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", candidate))
		if err == nil {
			return ln, strconv.Itoa(candidate), nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, "", err
		}
		log.Printf("Port %d is busy, trying %d...", candidate, candidate+1)
	}

	return nil, "", fmt.Errorf("no available ports found after %d attempts", maxPortRetries)
}
