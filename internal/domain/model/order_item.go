package model

import "time"

// 注文明細は作成時点のスナップショット。
// 商品が後で変わっても明細は変わらない。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null;column:product_name_snapshot" json:"product_name_snapshot"`
	UnitPriceSnapshot   int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	ImageURLSnapshot    string    `gorm:"type:varchar(500);column:image_url_snapshot" json:"image_url_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
