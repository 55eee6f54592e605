package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"evt_1"}`)

	header := Sign("whsec_test", now, body)

	assert.NoError(t, VerifySignature(body, header, "whsec_test", now))
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	header := Sign("whsec_test", now, []byte(`{"id":"evt_1"}`))

	err := VerifySignature([]byte(`{"id":"evt_2"}`), header, "whsec_test", now)

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"evt_1"}`)
	header := Sign("whsec_other", now, body)

	assert.ErrorIs(t, VerifySignature(body, header, "whsec_test", now), ErrInvalidSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	signedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"evt_1"}`)
	header := Sign("whsec_test", signedAt, body)

	//許容差5分を超えた再送はリプレイとして拒否
	err := VerifySignature(body, header, "whsec_test", signedAt.Add(6*time.Minute))

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_WithinTolerance(t *testing.T) {
	signedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	body := []byte(`{"id":"evt_1"}`)
	header := Sign("whsec_test", signedAt, body)

	assert.NoError(t, VerifySignature(body, header, "whsec_test", signedAt.Add(4*time.Minute)))
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	assert.ErrorIs(t, VerifySignature(body, "", "whsec_test", now), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(body, "garbage", "whsec_test", now), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(body, "t=abc,v1=def", "whsec_test", now), ErrInvalidSignature)
}

func TestMetaItems_RoundTrip(t *testing.T) {
	encoded, err := EncodeMetaItems([]MetaItem{{ID: 10, Qty: 2}, {ID: 11, Qty: 1}})
	assert.NoError(t, err)
	assert.Equal(t, `[{"id":10,"qty":2},{"id":11,"qty":1}]`, encoded)

	items, err := DecodeMetaItems(encoded)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].ID)
}
