package constants

import "time"

// Environment names matched against SERVER_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database pool tuning.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Request handling.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
	ShutdownTimeout       = 10 * time.Second
)

// Context keys.
const (
	ContextTokenData = "token_data"
)

// Token scopes.
const (
	ScopeTokenAccess = "access"
)

// Redis key prefixes.
const (
	RedisKeyRsvpLink = "rsvp:link:"
)

// Pagination defaults for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
