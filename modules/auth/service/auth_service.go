package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"party-invites/core/cache"
	"party-invites/core/config"
	"party-invites/core/constants"
	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/utils"
	"party-invites/modules/auth/dto"
	"party-invites/modules/auth/entity"
	"party-invites/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	RefreshToken(ctx context.Context, token string) (*dto.TokenResponse, *errors.AppError)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.TokenResponse, *errors.AppError)
}

type AuthService struct {
	repo        repository.AuthRepositoryInterface
	cache       cache.Cache
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

type Option func(*AuthService)

// WithHTTPClient sets the client used for the code exchange and the userinfo call.
func WithHTTPClient(client *http.Client) Option {
	return func(s *AuthService) { s.httpClient = client }
}

// WithGoogleEndpoints points the OAuth flow at other token and userinfo URLs.
func WithGoogleEndpoints(endpoint oauth2.Endpoint, userInfoURL string) Option {
	return func(s *AuthService) {
		if s.oauth != nil {
			s.oauth.Endpoint = endpoint
		}
		s.userInfoURL = userInfoURL
	}
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache, google config.GoogleAPIConfig, opts ...Option) *AuthService {
	s := &AuthService{
		repo:        repo,
		cache:       cache,
		oauth:       newGoogleOAuthConfig(google),
		userInfoURL: googleUserInfoURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newGoogleOAuthConfig(cfg config.GoogleAPIConfig) *oauth2.Config {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURI == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (service *AuthService) issueTokens(user *entity.User) (*dto.TokenResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Email, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(user.ID, user.Email, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	email := normalizeEmail(req.Email)
	existing, err := service.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "user with email already exists", nil)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: &hashedPassword,
		IsActive:     true,
	}
	user.Touch(time.Now())

	if err := service.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	logger.Info("AuthService:Register:Created", "user_id", user.ID)
	return service.issueTokens(user)
}

// Login checks email and password. Failed attempts are counted per email and
// block further logins for constants.BlockDuration once the limit is reached.
func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	email := normalizeEmail(req.Email)
	loginKey := email

	blocked, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get login attempt", err)
	}
	if blocked {
		if errExpire := service.cache.Expire(ctx, constants.RedisKeyLoginAttempt+loginKey, constants.BlockDuration); errExpire != nil {
			logger.Error("AuthService:Login:Expire:Error:", errExpire)
		}
		return nil, errors.NewAppError(errors.ErrTooManyRequests, "too many failed logins, try again later", nil)
	}

	fail := func() *errors.AppError {
		if errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncrement != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error:", errIncrement)
			return errors.NewAppError(errors.ErrInternalServer, "failed to increment login attempt", errIncrement)
		}
		return errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	user, err := service.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, fail()
	}
	if !user.IsActive {
		return nil, errors.NewAppError(errors.ErrForbidden, "user not active", nil)
	}
	if !utils.ComparePassword(*user.PasswordHash, req.Password) {
		return nil, fail()
	}

	if errDel := service.cache.Del(ctx, constants.RedisKeyLoginAttempt+loginKey); errDel != nil {
		logger.Error("AuthService:Login:Del:Error:", errDel)
	}

	return service.issueTokens(user)
}

// Logout blacklists the presented token for the rest of its lifetime.
func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}

	if err := service.cache.AddToTokenBlacklist(ctx, token, claims.RemainingTTL()); err != nil {
		logger.Error("AuthService:Logout:AddToBlacklist:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to add token to blacklist", err)
	}
	return nil
}

// RefreshToken exchanges a refresh token for a new pair. The presented refresh
// token is blacklisted so it can be used only once.
func (service *AuthService) RefreshToken(ctx context.Context, token string) (*dto.TokenResponse, *errors.AppError) {
	isBlacklisted, err := service.cache.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token", err)
	}
	if isBlacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is blacklisted", nil)
	}

	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to parse token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "refresh token required", nil)
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not found", nil)
	}

	tokens, appErr := service.issueTokens(user)
	if appErr != nil {
		return nil, appErr
	}

	if err := service.cache.AddToTokenBlacklist(ctx, token, claims.RemainingTTL()); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to add refresh token to blacklist", err)
	}
	return tokens, nil
}

func (service *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	return &dto.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		GoogleLinked: user.GoogleID != nil,
		HasPassword:  user.PasswordHash != nil,
		CreatedAt:    user.CreatedAt,
	}, nil
}

// GetGoogleAuthURL stores a one-time state token and returns Google's consent URL.
func (service *AuthService) GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError) {
	if service.oauth == nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	state := utils.GenerateRandomString(32)
	if err := service.cache.SaveOAuthState(ctx, state); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveOAuthState:Error", "error", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	return service.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

func (service *AuthService) HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.TokenResponse, *errors.AppError) {
	if service.oauth == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	valid, err := service.cache.ConsumeOAuthState(ctx, state)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:ConsumeOAuthState:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if !valid {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token", nil)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, service.httpClient)
	token, err := service.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error:", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	userInfo, err := service.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:GetGoogleUserInfo:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user info", err)
	}
	if userInfo.Email == "" || !userInfo.VerifiedEmail {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google account email is not verified", nil)
	}

	email := normalizeEmail(userInfo.Email)
	user, err := service.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}

	switch {
	case user == nil:
		googleID := userInfo.ID
		user = &entity.User{
			Email:    email,
			Name:     userInfo.Name,
			GoogleID: &googleID,
			IsActive: true,
		}
		user.Touch(time.Now())
		if err := service.repo.CreateUser(ctx, user); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
		}
		logger.Info("AuthService:HandleGoogleCallback:UserCreated", "user_id", user.ID)
	case user.GoogleID == nil:
		if err := service.repo.LinkGoogleID(ctx, user.ID, userInfo.ID); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to link Google account", err)
		}
	}

	if !user.IsActive {
		return nil, errors.NewAppError(errors.ErrForbidden, "user not active", nil)
	}
	return service.issueTokens(user)
}

func (service *AuthService) getGoogleUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, service.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := service.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: %s", string(body))
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, err
	}
	return &userInfo, nil
}

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
