package constants

import "time"

const (
	DefaultTimeout = 10 * time.Second

	// JWT scopes
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"

	ContextTokenData = "token_data"

	// Redis keys
	RedisKeyTokenBlacklist = "auth:blacklist:"
	RedisKeyLoginAttempt   = "auth:login:"
	RedisKeyOAuthState     = "auth:oauth_state:"
	RedisKeyRateLimit      = "ratelimit:"

	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
	OAuthStateTTL    = 10 * time.Minute

	DefaultPageSize = 20
	MaxPageSize     = 100

	RSVPTokenLength   = 21
	RSVPTokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_-"
)
