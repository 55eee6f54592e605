package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// 注文はwebhookで1回だけ作られる。
// TransactionIDの一意制約は再配送による二重作成の最後の砦。
type Order struct {
	ID             int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ShortCode      string        `gorm:"type:varchar(16);not null;uniqueIndex" json:"short_code"`
	UserID         int64         `gorm:"not null;index" json:"user_id"`
	CustomerName   string        `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail  string        `gorm:"type:varchar(255);not null" json:"customer_email"`
	Status         OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	TransactionID  string        `gorm:"type:varchar(128);not null;uniqueIndex" json:"transaction_id"`
	TotalPrice     int64         `gorm:"not null" json:"total_price"`
	DiscountAmount int64         `gorm:"not null;default:0" json:"discount_amount"`
	ShippingFee    int64         `gorm:"not null;default:0" json:"shipping_fee"`
	CouponCode     string        `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	TrackingLink   string        `gorm:"type:varchar(500)" json:"tracking_link,omitempty"`

	//配送先はproviderのcheckoutページ入力のスナップショット（欠けは空文字）
	ShipLine1      string `gorm:"type:varchar(255)" json:"ship_line1"`
	ShipCity       string `gorm:"type:varchar(100)" json:"ship_city"`
	ShipPostalCode string `gorm:"type:varchar(20)" json:"ship_postal_code"`
	ShipCountry    string `gorm:"type:varchar(2)" json:"ship_country"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
