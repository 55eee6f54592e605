package model

import "time"

// 処理済みwebhookイベント。
// EventIDの一意制約でcheck-and-insertし、再配送は何もしないで受理する。
type WebhookEvent struct {
	EventID       string    `gorm:"primaryKey;type:varchar(128)" json:"event_id"`
	EventType     string    `gorm:"type:varchar(64);index" json:"event_type"`
	TransactionID string    `gorm:"type:varchar(128);index" json:"transaction_id"`
	ProcessedAt   time.Time `gorm:"not null" json:"processed_at"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
