package routes

import (
	"time"

	"libraease/internal/adapters/http/handlers"
	"libraease/internal/adapters/http/middleware"
	"libraease/internal/adapters/persistence/repositories"
	"libraease/internal/config"
	"libraease/internal/core/services"
	"libraease/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories and the shared unit-of-work boundary
	repos := repositories.NewRepositories(db)
	uow := repositories.NewUnitOfWork(db)

	// Access token codec; the signing secret is injected here, never
	// read from ambient state.
	codec := jwt.NewCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenMins)*time.Minute, "libraease")
	refreshTTL := time.Duration(cfg.JWT.RefreshTokenDays) * 24 * time.Hour

	// Services
	authService := services.NewAuthService(repos.Users, uow, codec, refreshTTL)
	userService := services.NewUserService(repos.Users, repos.Roles, uow)
	bookService := services.NewBookService(repos.Books, uow)
	loanService := services.NewLoanService(repos.Loans, uow)
	auditService := services.NewAuditService(repos.AuditLogs)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	bookHandler := handlers.NewBookHandler(bookService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	protected := middleware.Protected(authService)
	adminOnly := middleware.AdminOnly(authService)
	staffOnly := middleware.StaffOnly(authService)

	apiV1 := app.Group("/api/v1")

	// Auth routes
	auth := apiV1.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", middleware.AuthRateLimiter(), authHandler.Refresh)
	auth.Post("/logout", protected, authHandler.Logout)
	auth.Get("/me", protected, authHandler.Me)

	// User routes
	users := apiV1.Group("/users", protected)
	users.Get("/audit-logs", adminOnly, userHandler.AuditLogs)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.UpdateMe)
	users.Delete("/me", userHandler.DeleteMe)
	users.Post("/", staffOnly, userHandler.Create)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/:id", adminOnly, userHandler.GetByID)
	users.Put("/:id", adminOnly, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Book routes
	books := apiV1.Group("/books", protected)
	books.Get("/", middleware.PublicCache(5*time.Minute), bookHandler.List)
	books.Get("/:id", bookHandler.GetByID)
	books.Post("/", staffOnly, bookHandler.Create)
	books.Put("/:id", staffOnly, bookHandler.Update)
	books.Delete("/:id", staffOnly, bookHandler.Delete)

	// Loan routes
	loans := apiV1.Group("/loans", protected)
	loans.Post("/borrow", loanHandler.Borrow)
	loans.Post("/return/:id", loanHandler.Return)
	loans.Get("/me", loanHandler.MyActiveLoans)
	loans.Get("/history", loanHandler.MyHistory)
	loans.Get("/user/:user_id", staffOnly, loanHandler.UserHistory)
}
