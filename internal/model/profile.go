package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile holds the streamer-facing settings. CustomCommissionRate overrides
// the platform default when set; nil means the global rate applies.
type Profile struct {
	ID                   int64            `gorm:"primaryKey;autoIncrement;<-:create"`
	UserID               int64            `gorm:"column:user_id;not null;uniqueIndex"`
	BioName              string           `gorm:"column:bio_name;type:varchar(128)"`
	BioDescription       string           `gorm:"column:bio_description;type:text"`
	PhotoURL             *string          `gorm:"column:photo_url;type:varchar(512)"`
	PricePerMinute       decimal.Decimal  `gorm:"column:price_per_minute;type:decimal(12,2);not null;default:10.00"`
	IsOnline             bool             `gorm:"column:is_online;not null;default:false"`
	IsPublic             bool             `gorm:"column:is_public;not null;default:false"`
	CustomCommissionRate *decimal.Decimal `gorm:"column:custom_commission_rate;type:decimal(5,4);null"`
	CreatedAt            time.Time        `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time        `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`

	User User `gorm:"foreignKey:UserID"`
}

func (Profile) TableName() string {
	return "profiles"
}
