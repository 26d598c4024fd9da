package account

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/budget-manager/internal"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
)

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

func (a *Account) IsAdmin() bool {
	return internal.IsAdmin(a.Role, a.IsSuperuser)
}

func (a *Account) SetPassword(plain string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

func (a *Account) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}

func (a *Account) ToCaller() *internal.Caller {
	return &internal.Caller{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
		IsActive:    a.IsActive,
	}
}

func (a *Account) ToPublic() PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		IsActive:   a.IsActive,
		DateJoined: a.DateJoined,
	}
}

func (a *Account) ToSession() SessionInfo {
	return SessionInfo{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		IsAdmin:     a.IsAdmin(),
		IsActive:    a.IsActive,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
		DateJoined:  a.DateJoined,
	}
}

func ToDataModel(a *Account) *accountDatamodel.Account {
	return &accountDatamodel.Account{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		IsActive:     a.IsActive,
		IsStaff:      a.IsStaff,
		IsSuperuser:  a.IsSuperuser,
		DateJoined:   a.DateJoined,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModel(a *accountDatamodel.Account) *Account {
	return &Account{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		IsActive:     a.IsActive,
		IsStaff:      a.IsStaff,
		IsSuperuser:  a.IsSuperuser,
		DateJoined:   a.DateJoined,
		UpdatedAt:    a.UpdatedAt,
	}
}
