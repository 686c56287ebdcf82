package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Analysis  AnalysisConfig
	TLS       TLSConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

type AuthConfig struct {
	// Allowlist maps email addresses to the role provisioned on first
	// sign-in, parsed from "email:role,email:role".
	Allowlist map[string]string
	// RequireConfirmation withholds the session after sign-up until the
	// email address is confirmed.
	RequireConfirmation bool
	// ResetRedirectURL is the page password-recovery links point at.
	ResetRedirectURL string
	// ConfirmRedirectURL is the page email-confirmation links point at.
	ConfirmRedirectURL string
}

type AnalysisConfig struct {
	Enabled bool
	Model   string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	// Parse TLS configuration
	tlsEnabled := getBoolEnv("TLS_ENABLED", false)
	tlsCertPath := getEnv("TLS_CERT_PATH", "")
	tlsKeyPath := getEnv("TLS_KEY_PATH", "")
	tlsRedirectHTTP := getBoolEnv("TLS_REDIRECT_HTTP", false)

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	allowlist, err := parseAllowlist(getEnv("AUTH_ALLOWLIST", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "skarbonka"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "skarbonka"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Auth: AuthConfig{
			Allowlist:           allowlist,
			RequireConfirmation: getBoolEnv("AUTH_REQUIRE_CONFIRMATION", false),
			ResetRedirectURL:    getEnv("AUTH_RESET_REDIRECT_URL", "http://localhost:8080/reset-password"),
			ConfirmRedirectURL:  getEnv("AUTH_CONFIRM_REDIRECT_URL", "http://localhost:8080/confirm-email"),
		},
		Analysis: AnalysisConfig{
			Enabled: getBoolEnv("ANALYSIS_ENABLED", false),
			Model:   getEnv("ANALYSIS_MODEL", ""),
		},
		TLS: TLSConfig{
			Enabled:      tlsEnabled,
			CertPath:     tlsCertPath,
			KeyPath:      tlsKeyPath,
			RedirectHTTP: tlsRedirectHTTP,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "skarbonka-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

// parseAllowlist parses "email:role,email:role". A bare email defaults
// to the member role.
func parseAllowlist(s string) (map[string]string, error) {
	allowlist := make(map[string]string)
	if s == "" {
		return allowlist, nil
	}

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		email, role := entry, "member"
		if idx := strings.IndexByte(entry, ':'); idx >= 0 {
			email = strings.TrimSpace(entry[:idx])
			role = strings.TrimSpace(entry[idx+1:])
		}
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("invalid AUTH_ALLOWLIST entry: %q", entry)
		}
		switch role {
		case "owner", "member":
		default:
			return nil, fmt.Errorf("invalid role %q in AUTH_ALLOWLIST entry %q", role, entry)
		}

		allowlist[strings.ToLower(email)] = role
	}

	return allowlist, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
