package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/harune/workspace-management-api/internal/config"
	"github.com/harune/workspace-management-api/internal/constants"
	"github.com/harune/workspace-management-api/internal/database"
	"github.com/harune/workspace-management-api/internal/handlers"
	"github.com/harune/workspace-management-api/internal/middleware"
	"github.com/harune/workspace-management-api/internal/models"
	"github.com/harune/workspace-management-api/internal/repository"
	"github.com/harune/workspace-management-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

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
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo)
	projectService := services.NewProjectService(projectRepo)
	scopeService := services.NewScopeService(userRepo, orgRepo, projectRepo)
	invitationService := services.NewInvitationService(invitationRepo, userRepo, orgRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService, scopeService)
	projectHandler := handlers.NewProjectHandler(projectService, scopeService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)

	// Scope guards
	memberScope := middleware.RequireOrgScope(scopeService, models.RoleMember)
	adminScope := middleware.RequireOrgScope(scopeService, models.RoleAdmin)
	ownerScope := middleware.RequireOrgScope(scopeService, models.RoleOwner)
	projectScope := middleware.RequireProjectScope(scopeService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Workspace Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Invitation redemption (protected, not organization-scoped: the
		// caller is not a member yet)
		api.POST("/invitations/redeem", middleware.RequireAuth(), invitationHandler.RedeemInvitation)

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:org_id", memberScope, orgHandler.GetOrganization)
			orgs.PUT("/:org_id", ownerScope, orgHandler.UpdateOrganization)
			orgs.DELETE("/:org_id", ownerScope, orgHandler.DeleteOrganization)
			orgs.DELETE("/:org_id/members/:user_id", ownerScope, orgHandler.RemoveMember)

			// Invitations
			orgs.POST("/:org_id/invitations", adminScope, invitationHandler.CreateInvitation)
			orgs.GET("/:org_id/invitations", adminScope, invitationHandler.ListInvitations)
			orgs.DELETE("/:org_id/invitations/:invitation_id", adminScope, invitationHandler.RevokeInvitation)

			// Projects
			orgs.GET("/:org_id/projects", memberScope, projectHandler.ListProjects)
			orgs.POST("/:org_id/projects", memberScope, projectHandler.CreateProject)
			orgs.GET("/:org_id/projects/:project_id", projectScope, projectHandler.GetProject)

			// Active project pointer (selection is an explicit action)
			orgs.GET("/:org_id/active-project", memberScope, projectHandler.GetActiveProject)
			orgs.PUT("/:org_id/active-project", memberScope, projectHandler.SelectActiveProject)
			orgs.DELETE("/:org_id/active-project", memberScope, projectHandler.ClearActiveProject)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
