package shortcode

import (
	"crypto/rand"
	"math/big"
)

// 注文の人向けコード。0/O、1/I/L のような紛らわしい文字を除いた
// アルファベットから作る（電話口で読み上げても間違えにくい）。
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const Length = 10

// New は衝突しにくいランダムコードを返す。一意性はDBのunique indexで担保する。
func New() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
