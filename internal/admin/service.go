package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/core/access"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	"github.com/frahmantamala/budget-manager/internal/core/events"
)

type RepositoryAPI interface {
	ListAccounts(ctx context.Context) ([]*accountDatamodel.Account, error)
	GetAccount(ctx context.Context, id int64) (*accountDatamodel.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	// ApplyBulk runs the action over ids in one store transaction and returns the affected count.
	ApplyBulk(ctx context.Context, action Action, ids []int64) (int64, error)
}

type StatsReader interface {
	Statistics(ctx context.Context) (*Statistics, error)
}

// AccountService creates and updates accounts so provisioning and password
// hashing stay in one place.
type AccountService interface {
	Create(ctx context.Context, dto account.CreateAccountDTO) (*account.Account, error)
	Update(ctx context.Context, id int64, dto account.UpdateAccountDTO) (*account.Account, error)
}

type Service struct {
	repo     RepositoryAPI
	stats    StatsReader
	accounts AccountService
	events   events.Publisher
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, stats StatsReader, accounts AccountService, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		stats:    stats,
		accounts: accounts,
		events:   publisher,
		logger:   logger,
	}
}

func (s *Service) ListUsers(ctx context.Context, caller *internal.Caller) ([]*account.Account, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	accounts := make([]*account.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, account.FromDataModel(row))
	}
	return accounts, nil
}

func (s *Service) GetUser(ctx context.Context, caller *internal.Caller, id int64) (*account.Account, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}
	row, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to get user", err)
	}
	return account.FromDataModel(row), nil
}

func (s *Service) CreateUser(ctx context.Context, caller *internal.Caller, dto CreateUserDTO) (*account.Account, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}

	acc, err := s.accounts.Create(ctx, dto.toAccountDTO())
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin created account", "actor_id", caller.ID, "account_id", acc.ID)
	s.publish(ctx, events.NewAccountCreatedEvent(caller.ID, acc.ID, acc.Username, acc.Role))
	return acc, nil
}

// UpdateUser applies a partial update. An admin cannot flip their own active flag.
func (s *Service) UpdateUser(ctx context.Context, caller *internal.Caller, id int64, dto UpdateUserDTO) (*account.Account, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}
	if id == caller.ID && dto.IsActive != nil && *dto.IsActive != caller.IsActive {
		return nil, internal.ErrCannotDeactivateSelf
	}

	acc, err := s.accounts.Update(ctx, id, dto)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin updated account", "actor_id", caller.ID, "account_id", id)
	return acc, nil
}

func (s *Service) DeleteUser(ctx context.Context, caller *internal.Caller, id int64) (*DeleteResult, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}
	if id == caller.ID {
		return nil, internal.ErrCannotDeleteSelf
	}

	row, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to get user", err)
	}
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return nil, s.storeError("failed to delete user", err)
	}

	s.logger.Info("admin deleted account", "actor_id", caller.ID, "account_id", id, "username", row.Username)
	s.publish(ctx, events.NewAccountDeletedEvent(caller.ID, id, row.Username))
	return &DeleteResult{
		Message:  fmt.Sprintf("User %s has been deleted successfully", row.Username),
		Username: row.Username,
	}, nil
}

// BulkAction never touches the caller's own account; its id is dropped silently.
func (s *Service) BulkAction(ctx context.Context, caller *internal.Caller, dto BulkActionDTO) (*BulkActionResult, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	action, err := ParseAction(dto.Action)
	if err != nil {
		return nil, err
	}

	targets := withoutCaller(dto.UserIDs, caller.ID)
	var affected int64
	if len(targets) > 0 {
		affected, err = s.repo.ApplyBulk(ctx, action, targets)
		if err != nil {
			s.logger.Error("bulk action failed", "action", action, "count", len(targets), "error", err)
			return nil, internal.NewInternalError("bulk action failed", err)
		}
	}

	s.logger.Info("bulk action applied", "actor_id", caller.ID, "action", action, "affected", affected)
	s.publish(ctx, events.NewBulkActionEvent(caller.ID, string(action), targets, affected))
	return &BulkActionResult{
		Message:  bulkMessage(action, affected),
		Action:   action,
		Affected: affected,
		UserIDs:  targets,
	}, nil
}

func (s *Service) Statistics(ctx context.Context, caller *internal.Caller) (*Statistics, error) {
	if err := access.RequireAdmin(caller).Err(); err != nil {
		return nil, err
	}

	stats, err := s.stats.Statistics(ctx)
	if err != nil {
		s.logger.Error("failed to compute statistics", "error", err)
		return nil, internal.NewInternalError("failed to compute statistics", err)
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	if stats.UsersByMonth == nil {
		stats.UsersByMonth = []MonthCount{}
	}
	return stats, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) storeError(message string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, "error", err)
	return internal.NewInternalError(message, err)
}
