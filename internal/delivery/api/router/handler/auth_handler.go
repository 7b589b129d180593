// Package handler contains the echo handlers of the JSON API.
package handler

import (
	"log/slog"

	"letsshare/internal/delivery/api/middleware"
	"letsshare/internal/delivery/api/response"
	deliverycontext "letsshare/internal/delivery/context"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/errors"
	"letsshare/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves signup, login, refresh and the current account.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// SignupRequest is the body of POST /auth/signup. Password length is checked by the use case.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	TokenType    string        `json:"token_type"`
}

// TokenResponse is returned by a successful refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Signup creates an account.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	output, err := h.authUC.Signup(c.Request().Context(), &usecase.SignupInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.Created(c, toUserResponse(output.User))
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.OK(c, &LoginResponse{
		User:         toUserResponse(output.User),
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		ExpiresIn:    output.ExpiresIn,
		TokenType:    output.TokenType,
	})
}

// Refresh issues a new access token from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, h.logger, &req); err != nil {
		return err
	}

	output, err := h.authUC.Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return err
	}

	return response.OK(c, &TokenResponse{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
		ExpiresIn:   output.ExpiresIn,
	})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	user, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return response.OK(c, toUserResponse(user))
}

// bindAndValidate decodes the body into req and runs the registered validator.
// Rejections are logged at debug level with the request-scoped logger.
func bindAndValidate(c echo.Context, logger *slog.Logger, req any) error {
	log := deliverycontext.GetLoggerOrDefault(c.Request().Context(), logger)

	if err := c.Bind(req); err != nil {
		log.Debug("Request body could not be decoded",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)

		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("request body is not valid JSON"))
	}

	if err := c.Validate(req); err != nil {
		log.Debug("Request body failed validation",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)

		return err
	}

	return nil
}
