package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"party-invites/core/cache"
	"party-invites/core/config"
	"party-invites/core/constants"
	"party-invites/core/database/dbtest"
	"party-invites/core/errors"
	"party-invites/core/utils"
	"party-invites/modules/auth/dto"
	"party-invites/modules/auth/repository"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var googleCfg = config.GoogleAPIConfig{
	ClientID:     "client",
	ClientSecret: "secret",
	RedirectURI:  "http://localhost/callback",
}

func newTestService(t *testing.T, opts ...Option) (*AuthService, cache.Cache) {
	t.Helper()
	config.Set(&config.Config{
		App: config.AppConfig{Name: "party-invites"},
		JWT: config.JWTConfig{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour},
	})
	c := cache.NewMemoryCache()
	repo := repository.NewAuthRepository(dbtest.New(t))
	return NewAuthService(repo, c, googleCfg, opts...), c
}

func register(t *testing.T, s *AuthService, email string) *dto.TokenResponse {
	t.Helper()
	tokens, err := s.Register(context.Background(), &dto.RegisterRequest{Email: email, Password: "password123", Name: "Ana"})
	require.Nil(t, err)
	return tokens
}

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	register(t, s, "Host@Example.com ")

	tokens, err := s.Login(ctx, &dto.LoginRequest{Email: "host@example.com", Password: "password123"})
	require.Nil(t, err)
	claims, parseErr := utils.ValidateAndParseToken(tokens.AccessToken)
	require.NoError(t, parseErr)
	assert.Equal(t, "host@example.com", claims.Email)
	assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)

	me, err := s.Me(ctx, claims.UserID)
	require.Nil(t, err)
	assert.True(t, me.HasPassword)
	assert.False(t, me.GoogleLinked)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, _ := newTestService(t)
	register(t, s, "host@example.com")

	_, err := s.Register(context.Background(), &dto.RegisterRequest{Email: "HOST@example.com", Password: "password123"})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrAlreadyExists, err.Code)
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	register(t, s, "host@example.com")

	for i := 0; i < constants.MaxLoginAttempts; i++ {
		_, err := s.Login(ctx, &dto.LoginRequest{Email: "host@example.com", Password: "wrong-password"})
		require.NotNil(t, err)
		assert.Equal(t, errors.ErrUnauthorized, err.Code)
	}

	_, err := s.Login(ctx, &dto.LoginRequest{Email: "host@example.com", Password: "password123"})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrTooManyRequests, err.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrUnauthorized, err.Code)
}

func TestRefreshTokenRotates(t *testing.T) {
	s, c := newTestService(t)
	ctx := context.Background()
	tokens := register(t, s, "host@example.com")

	fresh, err := s.RefreshToken(ctx, tokens.RefreshToken)
	require.Nil(t, err)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	blacklisted, _ := c.IsTokenBlacklisted(ctx, tokens.RefreshToken)
	assert.True(t, blacklisted)

	_, err = s.RefreshToken(ctx, tokens.RefreshToken)
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrUnauthorized, err.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s, _ := newTestService(t)
	tokens := register(t, s, "host@example.com")

	_, err := s.RefreshToken(context.Background(), tokens.AccessToken)
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrUnauthorized, err.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	s, c := newTestService(t)
	ctx := context.Background()
	tokens := register(t, s, "host@example.com")

	require.Nil(t, s.Logout(ctx, tokens.AccessToken))
	blacklisted, _ := c.IsTokenBlacklisted(ctx, tokens.AccessToken)
	assert.True(t, blacklisted)

	assert.NotNil(t, s.Logout(ctx, "not-a-token"))
}

func mockGoogle(t *testing.T, email string, verified bool) *http.Client {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, "https://google.test/token",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"access_token": "google-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		}))
	httpmock.RegisterResponder(http.MethodGet, "https://google.test/userinfo",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer google-access" {
				return httpmock.NewStringResponse(http.StatusUnauthorized, "bad token"), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"id":             "g-123",
				"email":          email,
				"verified_email": verified,
				"name":           "Google Host",
			})
		})
	return client
}

func googleOptions(client *http.Client) []Option {
	return []Option{
		WithHTTPClient(client),
		WithGoogleEndpoints(oauth2.Endpoint{
			AuthURL:   "https://google.test/auth",
			TokenURL:  "https://google.test/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}, "https://google.test/userinfo"),
	}
}

func TestGoogleLoginCreatesUser(t *testing.T) {
	client := mockGoogle(t, "new@example.com", true)
	s, c := newTestService(t, googleOptions(client)...)
	ctx := context.Background()

	authURL, err := s.GetGoogleAuthURL(ctx)
	require.Nil(t, err)
	assert.Contains(t, authURL, "https://google.test/auth")

	require.NoError(t, c.SaveOAuthState(ctx, "state-1"))
	tokens, err := s.HandleGoogleCallback(ctx, "code", "state-1")
	require.Nil(t, err)

	claims, parseErr := utils.ValidateAndParseToken(tokens.AccessToken)
	require.NoError(t, parseErr)
	me, err := s.Me(ctx, claims.UserID)
	require.Nil(t, err)
	assert.Equal(t, "new@example.com", me.Email)
	assert.True(t, me.GoogleLinked)
	assert.False(t, me.HasPassword)

	_, err = s.HandleGoogleCallback(ctx, "code", "state-1")
	require.NotNil(t, err, "state tokens are single use")
	assert.Equal(t, errors.ErrUnauthorized, err.Code)
}

func TestGoogleLoginLinksExistingUser(t *testing.T) {
	client := mockGoogle(t, "host@example.com", true)
	s, c := newTestService(t, googleOptions(client)...)
	ctx := context.Background()
	tokens := register(t, s, "host@example.com")
	before, _ := utils.ValidateAndParseToken(tokens.AccessToken)

	require.NoError(t, c.SaveOAuthState(ctx, "state-2"))
	googleTokens, err := s.HandleGoogleCallback(ctx, "code", "state-2")
	require.Nil(t, err)

	after, _ := utils.ValidateAndParseToken(googleTokens.AccessToken)
	assert.Equal(t, before.UserID, after.UserID)

	me, err := s.Me(ctx, after.UserID)
	require.Nil(t, err)
	assert.True(t, me.GoogleLinked)
	assert.True(t, me.HasPassword)
}

func TestGoogleLoginRejectsUnverifiedEmail(t *testing.T) {
	client := mockGoogle(t, "new@example.com", false)
	s, c := newTestService(t, googleOptions(client)...)
	ctx := context.Background()

	require.NoError(t, c.SaveOAuthState(ctx, "state-3"))
	_, err := s.HandleGoogleCallback(ctx, "code", "state-3")
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrUnauthorized, err.Code)
}

func TestGoogleLoginWithoutConfig(t *testing.T) {
	config.Set(&config.Config{JWT: config.JWTConfig{Secret: "k"}})
	s := NewAuthService(repository.NewAuthRepository(dbtest.New(t)), cache.NewMemoryCache(), config.GoogleAPIConfig{})

	_, err := s.GetGoogleAuthURL(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrInternalServer, err.Code)
}
