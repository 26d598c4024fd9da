package account

import "time"

type Account struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:150;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:254;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;size:10;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	IsStaff      bool      `gorm:"column:is_staff;not null"`
	IsSuperuser  bool      `gorm:"column:is_superuser;not null"`
	DateJoined   time.Time `gorm:"column:date_joined;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
