package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/budget-manager/internal"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
)

// ErrDuplicateUsername is returned by repositories when the unique index rejects an insert.
var ErrDuplicateUsername = errors.New("username already exists")

type RepositoryAPI interface {
	// WithTx runs fn against a repository bound to one store transaction.
	WithTx(ctx context.Context, fn func(tx RepositoryAPI) error) error
	Create(ctx context.Context, account *accountDatamodel.Account) error
	CreateCategories(ctx context.Context, categories []*categoryDatamodel.Category) error
	GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error)
	GetByUsername(ctx context.Context, username string) (*accountDatamodel.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, account *accountDatamodel.Account) error
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create validates and persists a new account, then provisions its default
// categories in the same store transaction.
func (s *Service) Create(ctx context.Context, dto CreateAccountDTO) (*Account, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	dto.Email = strings.TrimSpace(dto.Email)

	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	exists, err := s.repo.UsernameExists(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to check username", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create account", err)
	}
	if exists {
		return nil, duplicateUsername()
	}

	acc := &Account{
		Username:    dto.Username,
		Email:       dto.Email,
		Role:        dto.RoleOrDefault(),
		IsActive:    dto.ActiveOrDefault(),
		IsStaff:     dto.IsStaff,
		IsSuperuser: dto.IsSuperuser,
		DateJoined:  time.Now().UTC(),
	}
	if err := acc.SetPassword(dto.Password1, s.bcryptCost); err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	dataAccount := ToDataModel(acc)
	err = s.repo.WithTx(ctx, func(tx RepositoryAPI) error {
		if err := tx.Create(ctx, dataAccount); err != nil {
			return err
		}
		return s.provisionDefaults(ctx, tx, dataAccount.ID)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, duplicateUsername()
		}
		s.logger.Error("failed to create account", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create account", err)
	}

	s.logger.Info("account created", "account_id", dataAccount.ID, "username", dataAccount.Username, "role", dataAccount.Role)
	return FromDataModel(dataAccount), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Account, error) {
	dataAccount, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to get account", err)
	}
	return FromDataModel(dataAccount), nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*Account, error) {
	dataAccount, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, s.storeError("failed to get account", err)
	}
	return FromDataModel(dataAccount), nil
}

// Update applies a partial change. Updates never re-run provisioning.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateAccountDTO) (*Account, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dataAccount, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to get account", err)
	}

	acc := FromDataModel(dataAccount)
	if dto.Email != nil {
		acc.Email = strings.TrimSpace(*dto.Email)
	}
	if dto.Role != nil {
		acc.Role = *dto.Role
	}
	if dto.IsActive != nil {
		acc.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		if err := acc.SetPassword(*dto.Password, s.bcryptCost); err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
	}

	updated := ToDataModel(acc)
	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("failed to update account", "account_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update account", err)
	}

	s.logger.Info("account updated", "account_id", id)
	return FromDataModel(updated), nil
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, caller *internal.Caller, dto ChangePasswordDTO) error {
	if !caller.IsAuthenticated() {
		return internal.ErrAuthenticationRequired
	}
	if appErr := dto.Validate(); appErr != nil {
		return appErr
	}

	dataAccount, err := s.repo.GetByID(ctx, caller.ID)
	if err != nil {
		return s.storeError("failed to get account", err)
	}

	acc := FromDataModel(dataAccount)
	if !acc.CheckPassword(dto.OldPassword) {
		return internal.NewValidationFieldError("old_password",
			"Your old password was entered incorrectly", internal.ErrCodeInvalidPassword)
	}
	if err := acc.SetPassword(dto.NewPassword1, s.bcryptCost); err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.Update(ctx, ToDataModel(acc)); err != nil {
		s.logger.Error("failed to change password", "account_id", caller.ID, "error", err)
		return internal.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "account_id", caller.ID)
	return nil
}

func (s *Service) storeError(message string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, "error", err)
	return internal.NewInternalError(message, err)
}

func duplicateUsername() *internal.AppError {
	return internal.NewValidationFieldError("username",
		"A user with that username already exists", internal.ErrCodeDuplicateName)
}
