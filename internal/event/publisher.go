package event

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const TopicOrders = "atelier.orders"

// 注文イベント。通知サービスや集計のための後段に流す。
type OrderCreated struct {
	OrderID       int64     `json:"order_id"`
	ShortCode     string    `json:"short_code"`
	UserID        int64     `json:"user_id"`
	CustomerEmail string    `json:"customer_email"`
	TotalPrice    int64     `json:"total_price"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreated) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

// brokersCSVが空ならnilを返す（kafka無しでも動く）。
func NewKafkaPublisher(brokersCSV string) *KafkaPublisher {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrders,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, ev OrderCreated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ShortCode),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
