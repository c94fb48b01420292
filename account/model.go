package account

import "time"

// Account is a registered user. Email is unique (accounts_email_key).
type Account struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"not null;uniqueIndex:accounts_email_key" json:"email"`
	PasswordDigest string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName pins the table name used by the migrations.
func (Account) TableName() string { return "accounts" }
