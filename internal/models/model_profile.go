package models

import (
	"time"

	"github.com/comunidadhq/backend/pkg/types"
)

// Profile is the authenticated principal. Every other entity references
// profiles by id and never owns them.
type Profile struct {
	ID           string             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string             `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string             `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FullName     string             `gorm:"column:full_name;type:varchar(128);not null" json:"full_name"`
	AvatarURL    string             `gorm:"column:avatar_url;type:text" json:"avatar_url"`
	Bio          string             `gorm:"column:bio;type:text" json:"bio"`
	Role         types.PlatformRole `gorm:"column:role;type:varchar(16);not null;default:'user'" json:"role"`
	// EmailConfirmedAt is nil until the signup verification code is redeemed.
	// Login is rejected with a distinct code while it is nil.
	EmailConfirmedAt *time.Time `gorm:"column:email_confirmed_at;default:null" json:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) EmailConfirmed() bool {
	return p != nil && p.EmailConfirmedAt != nil
}
