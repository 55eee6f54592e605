package model

import (
	"time"

	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// クーポン。コードは大文字に正規化して保存する。
// UsageLimit=0 は無制限。
type Coupon struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string         `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	DiscountType   DiscountType   `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue  int64          `gorm:"not null" json:"discount_value"`
	MinOrderAmount int64          `gorm:"not null;default:0" json:"min_order_amount"`
	UsageLimit     int64          `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount      int64          `gorm:"not null;default:0" json:"used_count"`
	ValidFrom      time.Time      `gorm:"not null" json:"valid_from"`
	ValidUntil     time.Time      `gorm:"not null" json:"valid_until"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
