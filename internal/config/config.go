package config

import (
	"fmt"
	"os"
	"strings"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	//決済プロバイダ
	PaymentAPIBase       string // プロバイダAPIのベースURL
	PaymentSecretKey     string // APIキー
	PaymentWebhookSecret string // webhook署名の共有シークレット
	Currency             string // 通貨コード（jpyなど）

	CheckoutSuccessURL string // 決済完了後の戻り先
	CheckoutCancelURL  string // 決済キャンセル時の戻り先
	ShippingCountries  []string

	ShippingFee int64 // 全注文一律の送料

	//通知（未設定ならログ出力に落ちる）
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	KafkaBrokers string // カンマ区切り。空ならイベント発行なし

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		PaymentAPIBase:       os.Getenv("PAYMENT_API_BASE"),
		PaymentSecretKey:     os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		Currency:             getenv("CURRENCY", "jpy"),

		CheckoutSuccessURL: os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:  os.Getenv("CHECKOUT_CANCEL_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getenv("EMAIL_FROM", "shop@example.com"),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: os.Getenv("FE_URL"),
	}

	if v := os.Getenv("SHIPPING_COUNTRIES"); v != "" {
		for _, c := range strings.Split(v, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				cfg.ShippingCountries = append(cfg.ShippingCountries, c)
			}
		}
	} else {
		cfg.ShippingCountries = []string{"JP"}
	}

	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		var fee int64
		if _, err := fmt.Sscanf(v, "%d", &fee); err != nil || fee < 0 {
			return Config{}, fmt.Errorf("SHIPPING_FEE must be a non-negative number")
		}
		cfg.ShippingFee = fee
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PaymentAPIBase == "" {
		return Config{}, fmt.Errorf("PAYMENT_API_BASE is required")
	}
	if cfg.PaymentSecretKey == "" {
		return Config{}, fmt.Errorf("PAYMENT_SECRET_KEY is required")
	}
	if cfg.PaymentWebhookSecret == "" {
		return Config{}, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is required")
	}
	if cfg.CheckoutSuccessURL == "" {
		return Config{}, fmt.Errorf("CHECKOUT_SUCCESS_URL is required")
	}
	if cfg.CheckoutCancelURL == "" {
		return Config{}, fmt.Errorf("CHECKOUT_CANCEL_URL is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
