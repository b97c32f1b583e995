package routes

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/handlers"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/http/middleware"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories"
	"github.com/Mentor-Ntech/afriDaily/internal/adapters/persistence/repositories/memory"
	"github.com/Mentor-Ntech/afriDaily/internal/config"
	"github.com/Mentor-Ntech/afriDaily/internal/core/domain"
	"github.com/Mentor-Ntech/afriDaily/internal/core/services"
)

// Repos bundles every repository behind its interface, so the same wiring
// serves both the MySQL store and the in-memory store.
type Repos struct {
	Users         repositories.UserRepository
	RefreshTokens repositories.RefreshTokenRepository
	Roles         repositories.RoleRepository
	Tokens        repositories.TokenRepository
	Credits       repositories.CreditRepository
	Loans         repositories.LoanRepository
	Pools         repositories.PoolRepository
	Streams       repositories.StreamRepository
	Circles       repositories.CircleRepository
	Events        repositories.EventRepository
}

// NewRepos picks the persistence backend from configuration. db may be nil
// when the in-memory store is selected.
func NewRepos(db *gorm.DB, cfg *config.Config) *Repos {
	if cfg.UseMemoryStore() {
		store := memory.NewStore()
		log.Println("✅ Using in-memory store")
		return &Repos{
			Users:         store.Users,
			RefreshTokens: store.RefreshTokens,
			Roles:         store.Roles,
			Tokens:        store.Tokens,
			Credits:       store.Credits,
			Loans:         store.Loans,
			Pools:         store.Pools,
			Streams:       store.Streams,
			Circles:       store.Circles,
			Events:        store.Events,
		}
	}

	return &Repos{
		Users:         repositories.NewUserRepository(db),
		RefreshTokens: repositories.NewRefreshTokenRepository(db),
		Roles:         repositories.NewRoleRepository(db),
		Tokens:        repositories.NewTokenRepository(db),
		Credits:       repositories.NewCreditRepository(db),
		Loans:         repositories.NewLoanRepository(db),
		Pools:         repositories.NewPoolRepository(db),
		Streams:       repositories.NewStreamRepository(db),
		Circles:       repositories.NewCircleRepository(db),
		Events:        repositories.NewEventRepository(db),
	}
}

// Setup configures all routes and wires the service graph. It returns the
// cron service so main can manage its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	repos := NewRepos(db, cfg)
	clock := services.SystemClock()

	// Core services
	eventService := services.NewEventService(repos.Events)
	rolesService := services.NewRolesService(repos.Roles)
	ledgerService := services.NewLedgerService(repos.Tokens, rolesService, eventService)
	creditService := services.NewCreditService(repos.Credits, rolesService, eventService)
	lendingService := services.NewLendingService(
		repos.Loans,
		repos.Pools,
		ledgerService.EscrowAdapter(domain.EscrowLoans),
		ledgerService,
		creditService,
		rolesService,
		eventService,
		clock,
	)
	streamService := services.NewStreamService(
		repos.Streams,
		ledgerService.EscrowAdapter(domain.EscrowStreams),
		ledgerService,
		eventService,
		clock,
	)
	circleService := services.NewCircleService(
		repos.Circles,
		ledgerService.EscrowAdapter(domain.EscrowCircles),
		ledgerService,
		eventService,
		clock,
	)
	authService := services.NewAuthService(repos.Users, repos.RefreshTokens, cfg)

	// Seed baseline data
	seeder := config.NewSeeder(repos.Users, repos.Roles, repos.Tokens, cfg)
	if err := seeder.Run(context.Background()); err != nil {
		log.Printf("⚠️ Seeding failed: %v", err)
	}

	cronService := services.NewCronService(lendingService, authService, clock, cfg.Ledger.LoanGraceDays)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	walletHandler := handlers.NewWalletHandler(ledgerService, eventService)
	rolesHandler := handlers.NewRolesHandler(rolesService)
	creditHandler := handlers.NewCreditHandler(creditService)
	lendingHandler := handlers.NewLendingHandler(lendingService)
	streamHandler := handlers.NewStreamHandler(streamService)
	circleHandler := handlers.NewCircleHandler(circleService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (stricter rate limit on credential endpoints)
	auth := apiV1.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Everything below requires authentication
	authed := apiV1.Group("", middleware.AuthMiddleware(cfg))

	// Wallet
	wallet := authed.Group("/wallet")
	wallet.Get("/balances", walletHandler.Balances)
	wallet.Post("/transfer", walletHandler.Transfer)
	wallet.Get("/activity", walletHandler.Activity)
	wallet.Get("/tokens", walletHandler.Tokens)
	wallet.Post("/tokens", middleware.AdminOnly(), walletHandler.AddToken)
	wallet.Delete("/tokens/:symbol", middleware.AdminOnly(), walletHandler.RemoveToken)
	wallet.Post("/mint", middleware.AdminOnly(), walletHandler.Mint)

	// Capability roles (admin)
	roles := authed.Group("/roles")
	roles.Post("/grant", middleware.AdminOnly(), rolesHandler.Grant)
	roles.Post("/revoke", middleware.AdminOnly(), rolesHandler.Revoke)
	roles.Get("/:address", rolesHandler.List)

	// Credit scoring
	credit := authed.Group("/credit")
	credit.Get("/score/:address", creditHandler.Score)
	credit.Get("/profile/:address", creditHandler.Profile)
	credit.Post("/repayments", creditHandler.RecordRepayment)
	credit.Post("/loans", creditHandler.RecordLoan)
	credit.Post("/completions", creditHandler.RecordCompletion)

	// Lending
	loans := authed.Group("/loans")
	loans.Post("", lendingHandler.RequestLoan)
	loans.Get("", lendingHandler.MyLoans)
	loans.Get("/:id", lendingHandler.GetLoan)
	loans.Post("/:id/fund", lendingHandler.FundLoan)
	loans.Post("/:id/repay", lendingHandler.RepayLoan)
	loans.Get("/:id/owed", lendingHandler.TotalOwed)

	pool := authed.Group("/pool")
	pool.Post("/deposits", lendingHandler.DepositToPool)
	pool.Post("/withdrawals", lendingHandler.WithdrawFromPool)
	pool.Get("/:token", lendingHandler.PoolAccount)

	// Streams
	streams := authed.Group("/streams")
	streams.Post("", streamHandler.Create)
	streams.Get("", streamHandler.Mine)
	streams.Get("/:id", streamHandler.Get)
	streams.Get("/:id/available", streamHandler.Available)
	streams.Post("/:id/withdraw", streamHandler.Withdraw)
	streams.Post("/:id/pause", streamHandler.Pause)
	streams.Post("/:id/resume", streamHandler.Resume)
	streams.Post("/:id/cancel", streamHandler.Cancel)

	// Circles
	circles := authed.Group("/circles")
	circles.Post("", circleHandler.Create)
	circles.Get("", circleHandler.Mine)
	circles.Get("/:id", circleHandler.Get)
	circles.Post("/:id/join", circleHandler.Join)
	circles.Post("/:id/contribute", circleHandler.Contribute)

	log.Println("✅ Routes configured")
	return cronService
}
