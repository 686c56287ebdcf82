package main

import (
	"log"
	"net/http"

	"github.com/rs/zerolog"

	httphandlers "skarbonka/internal/interfaces/http"
	"skarbonka/internal/shared/config"
	"skarbonka/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Session-machine routes. The machine itself decides what each call
	// means in the current state, so none of these sit behind the token
	// middleware.
	mux.HandleFunc("/api/auth/session", deps.AuthHandler.HandleSession)
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/confirm", deps.AuthHandler.HandleConfirm)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)
	mux.HandleFunc("/api/auth/refresh", deps.AuthHandler.HandleRefresh)
	mux.HandleFunc("/api/auth/reset-password", deps.AuthHandler.HandleResetPassword)
	mux.HandleFunc("/api/auth/recovery", deps.AuthHandler.HandleRecovery)
	mux.HandleFunc("/api/auth/update-password", deps.AuthHandler.HandleUpdatePassword)

	// Protected routes: a valid access token AND whitelist membership
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(deps.JWT)(middleware.RequireWhitelist(deps.Whitelist)(h))
	}

	mux.Handle("/api/transactions", protected(deps.TransactionHandler.HandleTransactions))
	mux.Handle("/api/transactions/{id}", protected(deps.TransactionHandler.HandleTransactionByID))
	mux.Handle("/api/goals", protected(deps.GoalHandler.HandleGoals))
	mux.Handle("/api/goals/{id}", protected(deps.GoalHandler.HandleGoalByID))
	mux.Handle("/api/goals/{id}/projection", protected(deps.GoalHandler.HandleGoalProjection))
	mux.Handle("/api/summary", protected(deps.AnalyticsHandler.HandleSummary))
	mux.Handle("/api/rollup", protected(deps.AnalyticsHandler.HandleRollup))
	mux.Handle("/api/categories", protected(deps.AnalyticsHandler.HandleCategories))
	mux.Handle("/api/analyze", protected(deps.AnalyticsHandler.HandleAnalyze))

	// Apply global middleware
	handler := middleware.Logging(logger)(middleware.Telemetry(middleware.Tracing(middleware.CORS(cfg.Server.AllowedHosts)(mux))))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
