package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"party-invites/core/errors"
	"party-invites/modules/auth/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	registered *dto.RegisterRequest
	loginErr   *errors.AppError
}

func (f *fakeAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError) {
	f.registered = req
	return &dto.TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthService) Login(context.Context, *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthService) Logout(context.Context, string) *errors.AppError { return nil }

func (f *fakeAuthService) RefreshToken(context.Context, string) (*dto.TokenResponse, *errors.AppError) {
	return &dto.TokenResponse{}, nil
}

func (f *fakeAuthService) Me(context.Context, uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	return &dto.UserResponse{}, nil
}

func (f *fakeAuthService) GetGoogleAuthURL(context.Context) (string, *errors.AppError) {
	return "https://accounts.example/auth?state=x", nil
}

func (f *fakeAuthService) HandleGoogleCallback(context.Context, string, string) (*dto.TokenResponse, *errors.AppError) {
	return &dto.TokenResponse{}, nil
}

func post(handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := &fakeAuthService{}
	ctrl := NewAuthController(svc)

	rec := post(ctrl.Register, `{"email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
	assert.Contains(t, rec.Body.String(), `"field":"password"`)
	assert.Nil(t, svc.registered)

	rec = post(ctrl.Register, `{"email":"host@example.com","password":"password123","name":"Ana"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ana", svc.registered.Name)
}

func TestLoginMapsServiceErrors(t *testing.T) {
	svc := &fakeAuthService{loginErr: errors.NewAppError(errors.ErrTooManyRequests, "too many failed logins", nil)}
	ctrl := NewAuthController(svc)

	rec := post(ctrl.Login, `{"email":"host@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), string(errors.ErrTooManyRequests))

	rec = post(ctrl.Login, `{"email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleAuthRedirects(t *testing.T) {
	ctrl := NewAuthController(&fakeAuthService{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	assert.NoError(t, ctrl.GoogleAuth(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.example/auth?state=x", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/?format=json", nil)
	rec = httptest.NewRecorder()
	assert.NoError(t, ctrl.GoogleAuth(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_url")
}

func TestGoogleCallbackRequiresCodeAndState(t *testing.T) {
	ctrl := NewAuthController(&fakeAuthService{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?code=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	e.HTTPErrorHandler(ctrl.GoogleCallback(c), c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
