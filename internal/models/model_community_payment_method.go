package models

import "time"

// CommunityPaymentMethod is the per-community configuration of a catalog
// payment method: instructions and an optional QR image shown in the join
// flow. Only enabled rows are offered to joining viewers.
type CommunityPaymentMethod struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID     string    `gorm:"column:community_id;type:uuid;not null;uniqueIndex:uk_community_method,priority:1" json:"community_id"`
	PaymentMethodID string    `gorm:"column:payment_method_id;type:uuid;not null;uniqueIndex:uk_community_method,priority:2" json:"payment_method_id"`
	Instructions    string    `gorm:"column:instructions;type:text" json:"instructions"`
	ImageURL        string    `gorm:"column:image_url;type:text" json:"image_url"`
	Enabled         bool      `gorm:"column:enabled;not null;default:true" json:"enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID;references:ID" json:"payment_method,omitempty"`
}

func (CommunityPaymentMethod) TableName() string {
	return "community_payment_methods"
}
