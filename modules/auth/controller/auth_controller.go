package controller

import (
	"net/http"
	"net/mail"

	"party-invites/core/controller"
	"party-invites/core/errors"
	"party-invites/core/logger"
	"party-invites/core/utils"
	"party-invites/modules/auth/dto"
	"party-invites/modules/auth/service"

	"github.com/labstack/echo/v4"
)

const minPasswordLength = 8

// handlers name their receiver controller, which hides the package
var currentUserID = controller.CurrentUserID

type AuthController struct {
	AuthService service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		AuthService:    authService,
		BaseController: controller.NewBaseController(),
	}
}

func validateCredentials(email, password string) []controller.ValidationError {
	var errs []controller.ValidationError
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		errs = append(errs, controller.NewValidationError("email", "a valid email is required"))
	}
	if len(password) < minPasswordLength {
		errs = append(errs, controller.NewValidationError("password", "password must be at least 8 characters"))
	}
	return errs
}

func (controller *AuthController) Register(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RegisterRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	if errs := validateCredentials(requestData.Email, requestData.Password); len(errs) > 0 {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", errs)
	}

	registerResponse, err := controller.AuthService.Register(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.CreatedResponse(c, registerResponse, "Register success")
}

func (controller *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	if requestData.Email == "" || requestData.Password == "" {
		return controller.BadRequest(errors.ErrInvalidInput, "email and password are required", nil)
	}

	loginResponse, err := controller.AuthService.Login(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, loginResponse, "Login success")
}

func (controller *AuthController) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := utils.GetTokenFromHeader(c)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	if errLogout := controller.AuthService.Logout(ctx, token); errLogout != nil {
		logger.Error("AuthController:Logout:Error:", errLogout)
		return controller.ErrorResponse(c, errLogout)
	}

	return controller.SuccessResponse(c, nil, "Logout success")
}

func (controller *AuthController) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := utils.GetTokenFromHeader(c)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	refreshTokenResponse, errRefresh := controller.AuthService.RefreshToken(ctx, token)
	if errRefresh != nil {
		return controller.ErrorResponse(c, errRefresh)
	}

	return controller.SuccessResponse(c, refreshTokenResponse, "Refresh token success")
}

func (controller *AuthController) Me(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	user, err := controller.AuthService.Me(c.Request().Context(), userID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, user, "Get profile success")
}

// GoogleAuth redirects to Google's consent page. With ?format=json the URL is
// returned instead, for clients that open it themselves.
func (controller *AuthController) GoogleAuth(c echo.Context) error {
	ctx := c.Request().Context()

	authURL, err := controller.AuthService.GetGoogleAuthURL(ctx)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	if c.QueryParam("format") == "json" {
		return controller.SuccessResponse(c, dto.GoogleAuthURLResponse{AuthURL: authURL}, "Google OAuth URL")
	}
	return c.Redirect(http.StatusFound, authURL)
}

func (controller *AuthController) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.QueryParam("code")
	state := c.QueryParam("state")

	if errorParam := c.QueryParam("error"); errorParam != "" {
		logger.Error("Google OAuth error", "error", errorParam, "description", c.QueryParam("error_description"))
		return controller.BadRequest(errors.ErrInvalidRequestData, "Google OAuth error: "+errorParam, nil)
	}
	if code == "" {
		return controller.BadRequest(errors.ErrInvalidRequestData, "authorization code is required", nil)
	}
	if state == "" {
		return controller.BadRequest(errors.ErrInvalidRequestData, "state parameter is required", nil)
	}

	loginResponse, err := controller.AuthService.HandleGoogleCallback(ctx, code, state)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, loginResponse, "Google login success")
}
