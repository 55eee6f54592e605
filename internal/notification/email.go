package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// 注文確認メール。ベストエフォート：失敗しても注文はロールバックしない。

type OrderConfirmation struct {
	To        string
	Name      string
	ShortCode string
	Total     int64
	Currency  string
	Items     []ConfirmationItem
}

type ConfirmationItem struct {
	Name     string
	Quantity int64
	Price    int64
}

type Sender interface {
	SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error
}

type SMTPSender struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port string, username string, password string, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", c.To)
	fmt.Fprintf(&b, "Subject: ご注文ありがとうございます (%s)\r\n", c.ShortCode)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")

	fmt.Fprintf(&b, "%s 様\r\n\r\nご注文を受け付けました。注文コード: %s\r\n\r\n", c.Name, c.ShortCode)
	for _, it := range c.Items {
		fmt.Fprintf(&b, "- %s x%d (%d %s)\r\n", it.Name, it.Quantity, it.Price, c.Currency)
	}
	fmt.Fprintf(&b, "\r\n合計: %d %s\r\n", c.Total, c.Currency)

	return smtp.SendMail(s.addr, s.auth, s.from, []string{c.To}, []byte(b.String()))
}

// LogSender はSMTP未設定の環境用。内容をログに出すだけ。
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	s.Logger.Info().
		Str("to", c.To).
		Str("short_code", c.ShortCode).
		Int64("total", c.Total).
		Msg("order confirmation (smtp disabled)")
	return nil
}
