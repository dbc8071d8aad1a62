package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Community is the tenant unit. The slug is the only externally addressable
// identifier (used in routing); id is the internal foreign key.
type Community struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug        string `gorm:"column:slug;type:varchar(128);not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	// IsPublic communities are free to join; non-public require a validated
	// payment subscription before membership is granted.
	IsPublic  bool            `gorm:"column:is_public;not null;default:false" json:"is_public"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0" json:"price"`
	Currency  string          `gorm:"column:currency;type:varchar(8);not null;default:'PEN'" json:"currency"`
	BannerURL string          `gorm:"column:banner_url;type:text" json:"banner_url"`
	LogoURL   string          `gorm:"column:logo_url;type:text" json:"logo_url"`
	CreatorID string          `gorm:"column:creator_id;type:uuid;not null;index" json:"creator_id"`
	// MembersCount is denormalized for discovery/report ordering and kept in
	// step by the join/leave paths.
	MembersCount int64          `gorm:"column:members_count;not null;default:0" json:"members_count"`
	Extra        datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Community) TableName() string {
	return "communities"
}
