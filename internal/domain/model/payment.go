package model

import "time"

type PaymentRecordStatus string

const (
	PaymentRecordPending           PaymentRecordStatus = "PENDING"
	PaymentRecordSucceeded         PaymentRecordStatus = "SUCCEEDED"
	PaymentRecordFailed            PaymentRecordStatus = "FAILED"
	PaymentRecordRefunded          PaymentRecordStatus = "REFUNDED"
	PaymentRecordPartiallyRefunded PaymentRecordStatus = "PARTIALLY_REFUNDED"
)

// 決済レコード。webhookの成功通知で作られ、以後この系では読み取り専用。
type Payment struct {
	ID            string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        int64               `gorm:"not null;index" json:"user_id"`
	OrderID       int64               `gorm:"not null;index" json:"order_id"`
	Amount        int64               `gorm:"not null" json:"amount"`
	Currency      string              `gorm:"type:varchar(8);not null" json:"currency"`
	Status        PaymentRecordStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Method        string              `gorm:"type:varchar(32)" json:"method"`
	TransactionID string              `gorm:"type:varchar(128);not null;index" json:"transaction_id"`
	MetadataJSON  string              `gorm:"type:text" json:"metadata_json,omitempty"`
	CreatedAt     time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
}
