package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/core/access"
)

// AccountService is the part of account.Service the gateway depends on.
type AccountService interface {
	Create(ctx context.Context, dto account.CreateAccountDTO) (*account.Account, error)
	GetByID(ctx context.Context, id int64) (*account.Account, error)
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
	ChangePassword(ctx context.Context, caller *internal.Caller, dto account.ChangePasswordDTO) error
}

// errTokenAccountInactive rejects tokens issued before an account was deactivated.
var errTokenAccountInactive = internal.NewUnauthorizedError("User account is inactive", internal.ErrCodeUserInactive)

// Service is the main auth service with dependencies
type Service struct {
	accounts       AccountService
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(accounts AccountService, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		accounts:       accounts,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Register creates a regular, active account and signs it in.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Session, error) {
	acc, err := s.accounts.Create(ctx, dto.toAccountDTO())
	if err != nil {
		return nil, err
	}
	s.logger.Info("account registered", "account_id", acc.ID, "username", acc.Username)
	return s.session(acc)
}

// Login validates credentials. Unknown usernames and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	acc, err := s.accounts.GetByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}
	if !acc.CheckPassword(dto.Password) {
		s.logger.Debug("login rejected", "username", acc.Username)
		return nil, internal.ErrInvalidCredentials
	}
	if !acc.IsActive {
		return nil, internal.ErrUserInactive
	}

	s.logger.Info("login succeeded", "account_id", acc.ID)
	return s.session(acc)
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, dto RefreshTokenDTO) (*AuthTokens, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	claims, err := s.tokenGenerator.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return nil, err
	}
	acc, err := s.activeAccount(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.tokens(acc)
}

// Authenticate resolves an access token into the caller, reloading the account
// so deactivation and deletion take effect immediately.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*internal.Caller, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	acc, err := s.activeAccount(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return acc.ToCaller(), nil
}

func (s *Service) Me(ctx context.Context, caller *internal.Caller) (*account.SessionInfo, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}
	acc, err := s.accounts.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	info := acc.ToSession()
	return &info, nil
}

func (s *Service) ChangePassword(ctx context.Context, caller *internal.Caller, dto account.ChangePasswordDTO) error {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return err
	}
	return s.accounts.ChangePassword(ctx, caller, dto)
}

func (s *Service) activeAccount(ctx context.Context, id int64) (*account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, errTokenAccountInactive
	}
	return acc, nil
}

func (s *Service) session(acc *account.Account) (*Session, error) {
	tokens, err := s.tokens(acc)
	if err != nil {
		return nil, err
	}
	return &Session{AuthTokens: *tokens, User: acc.ToSession()}, nil
}

func (s *Service) tokens(acc *account.Account) (*AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(acc.ID, acc.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(acc.ID, acc.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
