package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a tenant-scoped account record. Users are materialized lazily by the
// wallet layer from the identity context supplied by the upstream gateway, so a
// row may exist before the user ever authenticates through this service.
type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	TenantID  uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_users_tenant_email"`
	Email     string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email"`
	Name      string         `json:"name" gorm:"type:varchar(255)"`
	Phone     string         `json:"phone" gorm:"type:varchar(32)"`
	Password  string         `json:"-" gorm:"type:varchar(255)"` // optional, synced from the auth service
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`

	// Relationships
	Wallets []Wallet `json:"wallets,omitempty" gorm:"foreignKey:UserID"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}

// HashPassword hashes the user's password using bcrypt
func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies the password against the hashed password
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}
