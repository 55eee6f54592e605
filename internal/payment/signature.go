package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// webhookの署名検証。このエンドポイントは未認証で外部公開されるため、
// 検証が唯一の認証手段になる。失敗はすべて closed（拒否）。

const SignatureHeader = "X-Payment-Signature"

// ヘッダ形式: t=<unix>,v1=<hex(hmac_sha256(secret, "<unix>.<body>"))>
const signatureTolerance = 5 * time.Minute

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Sign はヘッダ値を作る（テストと送信側シミュレーション用）。
func Sign(secret string, t time.Time, payload []byte) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature はボディとヘッダを照合する。タイムスタンプの許容差を超えた
// ものはリプレイとして拒否する。
func VerifySignature(payload []byte, header string, secret string, now time.Time) error {
	var ts string
	var sig string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts = kv[1]
		case "v1":
			sig = kv[1]
		}
	}
	if ts == "" || sig == "" {
		return ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	at := time.Unix(unix, 0)
	if now.Sub(at) > signatureTolerance || at.Sub(now) > signatureTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignature
	}
	want, _ := hex.DecodeString(expected)
	if !hmac.Equal(got, want) {
		return ErrInvalidSignature
	}
	return nil
}
