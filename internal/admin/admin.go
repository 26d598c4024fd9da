// Package admin implements cross-user account management for administrators.
package admin

import (
	"fmt"

	"github.com/frahmantamala/budget-manager/internal"
)

type Action string

const (
	ActionDelete     Action = "delete"
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
)

func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionDelete, ActionActivate, ActionDeactivate:
		return a, nil
	}
	return "", internal.NewValidationFieldError("action", "Invalid action", internal.ErrCodeInvalidAction)
}

// pastTense is used in result messages, e.g. "2 user(s) deactivated successfully".
func (a Action) pastTense() string {
	switch a {
	case ActionDelete:
		return "deleted"
	case ActionActivate:
		return "activated"
	default:
		return "deactivated"
	}
}

func bulkMessage(a Action, affected int64) string {
	return fmt.Sprintf("%d user(s) %s successfully", affected, a.pastTense())
}

type MonthCount struct {
	Month string `json:"month" db:"month"`
	Count int64  `json:"count" db:"count"`
}

type Statistics struct {
	TotalUsers    int64        `json:"total_users"`
	ActiveUsers   int64        `json:"active_users"`
	InactiveUsers int64        `json:"inactive_users"`
	AdminUsers    int64        `json:"admin_users"`
	RegularUsers  int64        `json:"regular_users"`
	UsersByMonth  []MonthCount `json:"users_by_month"`
}

// withoutCaller drops the caller and duplicate ids, keeping first-seen order.
func withoutCaller(ids []int64, callerID int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == callerID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
