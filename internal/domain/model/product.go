package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Stock       int64  `gorm:"not null" json:"stock"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`

	//レビューから再計算した平均（レビュー追加時のみ更新）
	Rating      float64 `gorm:"not null;default:0" json:"rating"`
	ReviewCount int64   `gorm:"not null;default:0" json:"review_count"`

	IsNew     bool           `gorm:"not null;default:false" json:"is_new"`
	IsActive  bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Images  []ProductImage `gorm:"foreignKey:ProductID" json:"images"`
	Reviews []Review       `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
}

// 在庫0以下は売り切れ扱い（内部の生の値はマイナスになり得ても表示はここを通す）
func (p Product) IsSoldOut() bool {
	return p.Stock <= 0
}
