package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin represents a clinic administrator account.
type Admin struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Admin) TableName() string {
	return "admin"
}

// SeedAdmins inserts the bootstrap administrator account if it is missing.
// The password column is expected to hold a bcrypt hash produced at deploy time.
func SeedAdmins(db *gorm.DB, username, email, passwordHash string) error {
	if passwordHash == "" {
		return nil
	}
	admin := Admin{
		ID:       "AD-000001",
		Username: username,
		Email:    email,
		Password: passwordHash,
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.FirstOrCreate(&admin, Admin{Username: admin.Username}).Error
	})
}
