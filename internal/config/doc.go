// Package config manages application configuration for the Gather API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, env, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - RateLimitConfig: request throttling settings
//   - LogConfig: logging settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT           - HTTP server port (default: 8080)
//	SERVER_ENV            - development, test, or production
//	CORS_ALLOWED_ORIGINS  - comma-separated list of allowed origins
//	DB_HOST / DB_PORT     - SurrealDB endpoint
//	DB_USER / DB_PASSWORD - database credentials
//	DB_NAMESPACE / DB_DATABASE - namespace and database names
//	JWT_SECRET            - HS256 signing secret
//	JWT_EXPIRATION_MINS   - token lifetime in minutes
//	RATE_LIMIT_PER_MINUTE - per-client request budget
//	LOG_LEVEL             - debug, info, warn, or error
package config
