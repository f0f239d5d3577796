package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onboardhq/onboarding-system/internal/api/handler"
	"github.com/onboardhq/onboarding-system/internal/api/middleware"
	"github.com/onboardhq/onboarding-system/internal/core/authz"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
	"github.com/onboardhq/onboarding-system/internal/core/service"
	mongodb "github.com/onboardhq/onboarding-system/internal/infrastructure/db/mongo"
	redisdb "github.com/onboardhq/onboarding-system/internal/infrastructure/db/redis"
)

// RouterConfig carries everything the router needs to assemble the service.
type RouterConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	Generator  ports.ChecklistGenerator
	Audit      ports.AuditRecorder
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("onboarding"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessionRepo := redisdb.NewCachedSessionRepository(rdb, mongodb.NewSessionRepository(db), cfg.SessionTTL)
	checklistRepo := mongodb.NewChecklistRepository(db)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.Audit, cfg.JWTSecret, cfg.SessionTTL)
	userService := service.NewUserService(userRepo)
	checklistService := service.NewChecklistService(checklistRepo, cfg.Generator)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	checklistHandler := handler.NewChecklistHandler(checklistService)

	middleware.SetAuditRecorder(cfg.Audit)
	authenticate := middleware.Authenticate(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	validateSession := middleware.ValidateSession(sessionRepo)

	// checklistQuery feeds the resource-access checker; an absent checklist
	// is (nil, nil), never an error.
	checklistQuery := mongodb.ChecklistResourceQuery(checklistRepo)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authenticate, validateSession)
	e.GET("/auth/me", authHandler.Me, authenticate, validateSession, middleware.RequireAuthenticated())

	// --- User management ---
	users := e.Group("/users", authenticate, validateSession)
	users.GET("", userHandler.List, middleware.RequirePermission([]authz.Permission{authz.PermUsersReadAll}, middleware.LogicOr))
	users.GET("/:id", userHandler.Get, middleware.RequireUserAccess("view"))
	users.PUT("/:id", userHandler.Update, middleware.RequireUserAccess("edit"))
	users.DELETE("/:id", userHandler.Delete, middleware.RequireUserAccess("delete"))
	users.PUT("/:id/role", userHandler.AssignRole,
		middleware.RequireUserAccess("assign_role"),
		middleware.RequireRoleAssignmentPermission(),
	)

	// --- Checklists ---
	checklists := e.Group("/checklists", authenticate, validateSession)
	checklists.POST("", checklistHandler.Generate, middleware.RequirePermission([]authz.Permission{authz.PermChecklistsCreate}, middleware.LogicOr))
	checklists.GET("", checklistHandler.List, middleware.RequirePermission([]authz.Permission{authz.PermChecklistsRead}, middleware.LogicOr))
	checklists.GET("/:checklistId", checklistHandler.Get,
		middleware.ResourceAccessChecker("checklist", checklistQuery, authz.AccessOwnerOnly),
	)
	checklists.POST("/:checklistId/assign", checklistHandler.Assign,
		middleware.RequirePermission([]authz.Permission{authz.PermChecklistsAssign}, middleware.LogicOr),
		middleware.RequireDepartmentAccess(true),
	)

	// --- Shared checklists (slug holders, anonymous allowed) ---
	e.GET("/shared/:slug", checklistHandler.GetShared, optionalAuth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
