// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"unicode/utf8"

	deliverycontext "letsshare/internal/delivery/context"
	"letsshare/internal/domain/entity"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/domain/repository"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"
	"letsshare/internal/usecase"

	"go.uber.org/fx"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128

	// Login reports the capitalized form, refresh the lowercase one.
	loginTokenType   = "Bearer"
	refreshTokenType = "bearer"
)

// Operation labels recorded with AuthMetrics.
const (
	opSignup       = "signup"
	opLogin        = "login"
	opRefresh      = "refresh"
	opAuthenticate = "authenticate"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	limiter      service.LoginAttemptLimiter
	metrics      service.AuthMetrics
	events       *eventEmitter
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Limiter      service.LoginAttemptLimiter `optional:"true"`
	Publisher    service.EventPublisher      `optional:"true"`
	Metrics      service.AuthMetrics         `optional:"true"`
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		limiter:      params.Limiter,
		metrics:      params.Metrics,
		events:       newEventEmitter(params.Publisher, params.Logger),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *authService) record(operation, outcome string) {
	if srv.metrics != nil {
		srv.metrics.RecordAuthAttempt(operation, outcome)
	}
}

// Signup creates an account. It never issues tokens.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.log(ctx).Debug("Starting signup", slog.String("email", input.Email))

	if err := validatePassword(input.Password); err != nil {
		srv.record(opSignup, service.OutcomeRejected)

		return nil, err
	}

	existing, err := srv.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil && existing != nil:
		srv.log(ctx).Warn("Signup rejected, email already registered", slog.String("email", input.Email))
		srv.record(opSignup, service.OutcomeRejected)

		return nil, errors.WithStack(domainerrors.ErrUserAlreadyExists)
	case err != nil && !errors.Is(err, repository.ErrUserNotFound):
		srv.record(opSignup, service.OutcomeError)

		return nil, errors.Wrap(err, "failed to look up email during signup")
	}

	// Hash outside the transaction, bcrypt and argon2 are CPU-bound.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))
		srv.record(opSignup, service.OutcomeError)

		return nil, errors.Wrap(err, "failed to hash password during signup")
	}

	newUser := &entity.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		// A concurrent signup that passed the pre-check surfaces here as ErrUserAlreadyExists.
		return repoFactory.UserRepo().Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute signup transaction", slog.String("email", input.Email), slog.Any("error", err))
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.record(opSignup, service.OutcomeRejected)
		} else {
			srv.record(opSignup, service.OutcomeError)
		}

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	srv.record(opSignup, service.OutcomeSuccess)
	srv.events.emit(ctx, service.EventUserRegistered, newUser.ID, 0)
	srv.log(ctx).Debug("Signup completed", slog.Int64("userID", newUser.ID))

	return &usecase.SignupOutput{User: newUser}, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// An unknown email and a wrong password fail identically.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	if err := srv.checkThrottle(ctx, input.Email); err != nil {
		srv.record(opLogin, service.OutcomeRejected)

		return nil, err
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "unknown email"))
			srv.record(opLogin, service.OutcomeFailure)

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
		srv.record(opLogin, service.OutcomeError)

		return nil, errors.Wrap(err, "failed to find user during login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.String("reason", "password mismatch"))
		srv.record(opLogin, service.OutcomeFailure)

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if srv.limiter != nil {
		if err := srv.limiter.Reset(ctx, input.Email); err != nil {
			srv.log(ctx).Warn("Failed to reset login throttle", slog.String("email", input.Email), slog.Any("error", err))
		}
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		srv.record(opLogin, service.OutcomeError)

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	refreshToken, err := srv.tokenService.IssueRefreshToken(user.ID)
	if err != nil {
		srv.record(opLogin, service.OutcomeError)

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	srv.record(opLogin, service.OutcomeSuccess)
	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(srv.tokenService.AccessTokenTTL().Seconds()),
		TokenType:    loginTokenType,
	}, nil
}

func (srv *authService) checkThrottle(ctx context.Context, email string) error {
	if srv.limiter == nil {
		return nil
	}

	allowed, err := srv.limiter.Allow(ctx, email)
	if err != nil {
		// The limiter already decided whether to fail open; only log here.
		srv.log(ctx).Warn("Login throttle unavailable", slog.Any("error", err))
	}
	if !allowed {
		srv.log(ctx).Warn("Login throttled", slog.String("email", email))

		return errors.WithStack(domainerrors.ErrTooManyLoginAttempts)
	}

	return nil
}

// Refresh issues a new access token for the subject of a valid refresh token.
// The refresh token itself is not rotated, so the refresh window never extends.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh token rejected", slog.Any("error", err))
		srv.record(opRefresh, service.OutcomeFailure)

		if errors.Is(err, service.ErrTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, err.Error())
		}

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, err.Error())
	}

	accessToken, err := srv.tokenService.IssueAccessToken(claims.UserID, claims.Email)
	if err != nil {
		srv.record(opRefresh, service.OutcomeError)

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	srv.record(opRefresh, service.OutcomeSuccess)
	srv.log(ctx).Debug("Access token refreshed", slog.Int64("userID", claims.UserID))

	return &usecase.RefreshOutput{
		AccessToken: accessToken,
		TokenType:   refreshTokenType,
		ExpiresIn:   int64(srv.tokenService.AccessTokenTTL().Seconds()),
	}, nil
}

// Authenticate resolves a bearer access token to the stored user.
// The specific cause of a rejection is only logged.
func (srv *authService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := srv.tokenService.VerifyAccessToken(accessToken)
	if err != nil {
		srv.log(ctx).Warn("Access token rejected", slog.Any("error", err))
		srv.record(opAuthenticate, service.OutcomeFailure)

		return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Access token subject no longer exists", slog.Int64("userID", claims.UserID))
			srv.record(opAuthenticate, service.OutcomeFailure)

			return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
		}
		srv.record(opAuthenticate, service.OutcomeError)

		return nil, errors.Wrap(err, "failed to load token subject")
	}

	srv.record(opAuthenticate, service.OutcomeSuccess)

	return user, nil
}

// Me returns the authenticated user's account.
func (srv *authService) Me(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Translate(err, repository.ErrUserNotFound, domainerrors.ErrUserNotFound, "failed to find user")
	}

	return user, nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
			"password must be between 8 and 128 characters",
		))
	}

	return nil
}
