package main

import (
	"context"
	"log"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/analysis"
	"skarbonka/internal/domain/auth"
	"skarbonka/internal/domain/goal"
	"skarbonka/internal/domain/session"
	"skarbonka/internal/domain/whitelist"
	"skarbonka/internal/infrastructure/genai"
	"skarbonka/internal/infrastructure/postgres"
	httphandlers "skarbonka/internal/interfaces/http"
	sharedauth "skarbonka/internal/shared/auth"
	"skarbonka/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	TransactionHandler *httphandlers.TransactionHandler
	GoalHandler        *httphandlers.GoalHandler
	AnalyticsHandler   *httphandlers.AnalyticsHandler

	// Auth
	JWT       *sharedauth.JWT
	Whitelist *whitelist.Service
	Sessions  *session.Store
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	// Connect to database and bring the schema up to date
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	whitelistRepo := postgres.NewWhitelistRepository(db)

	// Initialize auth components
	jwt := sharedauth.NewJWT(cfg.JWT.Secret)

	allow := make(map[string]whitelist.Role, len(cfg.Auth.Allowlist))
	for email, role := range cfg.Auth.Allowlist {
		allow[email] = whitelist.Role(role)
	}
	whitelistService := whitelist.NewService(whitelistRepo, allow, logger)

	authService := auth.NewService(userRepo, jwt, auth.LogMailer{Log: logger}, auth.Config{
		RequireConfirmation: cfg.Auth.RequireConfirmation,
		ResetRedirectURL:    cfg.Auth.ResetRedirectURL,
		ConfirmRedirectURL:  cfg.Auth.ConfirmRedirectURL,
	}, logger)
	sessionStore := session.NewStore(authService, whitelistService, logger)

	// Initialize domain services
	goalService := goal.NewService(goalRepo, transactionRepo)

	var analysisService *analysis.Service
	if cfg.Analysis.Enabled {
		analyzer, err := genai.NewAnalyzer(ctx, cfg.Analysis.Model)
		if err != nil {
			db.Close()
			return nil, err
		}
		analysisService = analysis.NewService(analyzer)
	} else {
		log.Println("AI analysis is disabled")
	}

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(sessionStore, cfg.TLS.Enabled, logger)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo, goalRepo, logger)
	goalHandler := httphandlers.NewGoalHandler(goalService, transactionRepo, logger)
	analyticsHandler := httphandlers.NewAnalyticsHandler(transactionRepo, analysisService, logger)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		TransactionHandler: transactionHandler,
		GoalHandler:        goalHandler,
		AnalyticsHandler:   analyticsHandler,
		JWT:                jwt,
		Whitelist:          whitelistService,
		Sessions:           sessionStore,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
