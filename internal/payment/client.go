package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// 決済プロバイダのホスト型checkout APIの薄いクライアント。
// カート内容はプロバイダ側に永続化されないので、注文の意図はMetadataで
// webhookまで運ぶ。

type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"` //最小通貨単位
	Quantity   int64  `json:"quantity"`
	ImageURL   string `json:"image_url,omitempty"`
}

type SessionParams struct {
	LineItems         []LineItem        `json:"line_items"`
	Currency          string            `json:"currency"`
	CustomerEmail     string            `json:"customer_email"`
	SuccessURL        string            `json:"success_url"`
	CancelURL         string            `json:"cancel_url"`
	ShippingCountries []string          `json:"shipping_countries,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// プロバイダAPIの失敗。Codeはプロバイダの分類タグをそのまま持つ。
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s (%s)", e.Message, e.Code)
}

type Client struct {
	apiBase    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(apiBase string, secretKey string) *Client {
	return &Client{
		apiBase:   apiBase,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCheckoutSession はホスト型決済セッションを開き、リダイレクト先を返す。
func (c *Client) CreateCheckoutSession(ctx context.Context, p SessionParams) (Session, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, &ProviderError{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, &ProviderError{Code: "network_error", Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		//プロバイダのエラー形式 {"error":{"code":"...","message":"..."}}
		var pe struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(data, &pe); err != nil || pe.Error.Message == "" {
			return Session{}, &ProviderError{
				StatusCode: resp.StatusCode,
				Code:       "api_error",
				Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			}
		}
		return Session{}, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       pe.Error.Code,
			Message:    pe.Error.Message,
		}
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, &ProviderError{Code: "api_error", Message: "malformed session response"}
	}
	return s, nil
}
