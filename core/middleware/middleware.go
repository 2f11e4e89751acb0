package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"party-invites/core/cache"
	"party-invites/core/constants"
	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(cache cache.Cache) *Middleware {
	return &Middleware{cache: cache}
}

func reject(status int, code errors.ErrorCode, message string) error {
	return controller.NewErrorResponse(status, code, message)
}

// AuthMiddleware accepts access tokens that are valid and not blacklisted and
// stores their claims under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return reject(http.StatusUnauthorized, ae.Code, ae.Message)
				}
				return reject(http.StatusUnauthorized, errors.ErrUnauthorized, "missing token")
			}

			blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
			if err != nil {
				logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted:Error", "error", err)
				return reject(http.StatusInternalServerError, errors.ErrInternalServer, "failed to check token")
			}
			if blacklisted {
				return reject(http.StatusUnauthorized, errors.ErrUnauthorized, "token has been revoked")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return reject(http.StatusUnauthorized, ae.Code, ae.Message)
				}
				return reject(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return reject(http.StatusUnauthorized, errors.ErrUnauthorized, "access token required")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// CronSecret guards trigger endpoints with a shared secret sent as a bearer
// token or in X-Cron-Secret. An empty secret leaves the route open.
func CronSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}

			provided := c.Request().Header.Get("X-Cron-Secret")
			if provided == "" {
				provided, _ = strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				logger.Warn("Middleware:CronSecret:Rejected", "ip", c.RealIP())
				return reject(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid trigger secret")
			}
			return next(c)
		}
	}
}

// RateLimit allows limit requests per client IP and route in each window.
// Cache failures let the request through.
func (m *Middleware) RateLimit(limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 {
				return next(c)
			}

			key := "ip:" + c.RealIP() + ":" + c.Request().Method + " " + c.Path()
			allowed, err := m.cache.Allow(c.Request().Context(), key, limit, window)
			if err != nil {
				logger.Warn("Middleware:RateLimit:CacheError", "error", err)
				return next(c)
			}
			if !allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return reject(http.StatusTooManyRequests, errors.ErrTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
