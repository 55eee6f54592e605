package payment

import "encoding/json"

// checkoutセッション完了だけを処理する。他のイベントは受理して無視する
// （将来イベントが増えてもここは壊れない）。
const EventCheckoutSessionCompleted = "checkout.session.completed"

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

type Address struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CheckoutSession struct {
	ID            string `json:"id"`
	AmountTotal   int64  `json:"amount_total"` //最小通貨単位
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`

	CustomerDetails struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer_details"`

	ShippingDetails struct {
		Address Address `json:"address"`
	} `json:"shipping_details"`

	Metadata map[string]string `json:"metadata"`
}

func ParseEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Metadataで運ぶ注文明細（商品IDと数量のみ。名前や価格はwebhook側で
// 現在の商品から取り直す）。
type MetaItem struct {
	ID  int64 `json:"id"`
	Qty int64 `json:"qty"`
}

func EncodeMetaItems(items []MetaItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func DecodeMetaItems(s string) ([]MetaItem, error) {
	var items []MetaItem
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	return items, nil
}
