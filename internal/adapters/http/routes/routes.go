package routes

import (
	"hospicare/internal/adapters/http/handlers"
	"hospicare/internal/adapters/http/middleware"
	"hospicare/internal/adapters/persistence/repositories"
	"hospicare/internal/config"
	"hospicare/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	doctorRepo := repositories.NewDoctorRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	doctorService := services.NewDoctorService(doctorRepo, userRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	dashboardService := services.NewDashboardService(userRepo, appointmentRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(doctorService, departmentService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	adminHandler := handlers.NewAdminHandler(doctorService, appointmentService, departmentService, dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, appointmentHandler, adminHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	appointmentHandler *handlers.AppointmentHandler,
	adminHandler *handlers.AdminHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Directory routes (Authenticated users)
	directoryRoutes := router.Group("")
	directoryRoutes.Use(middleware.AuthMiddleware(cfg))
	directoryRoutes.Get("/doctors", userHandler.ListDoctors)
	directoryRoutes.Get("/departments", userHandler.ListDepartments)

	// Appointment routes
	appointmentRoutes := router.Group("/appointments")
	appointmentRoutes.Use(middleware.AuthMiddleware(cfg))
	setupAppointmentRoutes(appointmentRoutes, appointmentHandler)

	// Admin routes (Admin only)
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (stricter rate limit against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.Refresh)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupAppointmentRoutes configures appointment routes. The booking and the
// two list views are role-gated; the status transition endpoint is open to
// every authenticated role because the ledger itself authorizes the actor
// against the loaded record.
func setupAppointmentRoutes(router fiber.Router, handler *handlers.AppointmentHandler) {
	router.Post("/", middleware.PatientOnly(), handler.Create)
	router.Get("/my", middleware.PatientOnly(), handler.My)
	router.Get("/doctor", middleware.DoctorOnly(), handler.Doctor)
	router.Put("/:id/status", middleware.Authenticated(), handler.UpdateStatus)
}

// setupAdminRoutes configures admin routes
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/stats", handler.Stats)

	// Doctor directory management
	router.Get("/doctors", handler.ListDoctors)
	router.Post("/doctors", handler.AddDoctor)

	// Patient administration
	router.Get("/patients", handler.ListPatients)
	router.Put("/users/:id/status", handler.ToggleUserStatus)

	// Appointment oversight
	router.Get("/appointments", handler.ListAppointments)

	// Department catalog
	router.Post("/departments", handler.AddDepartment)
	router.Delete("/departments/:id", handler.DeleteDepartment)
}
