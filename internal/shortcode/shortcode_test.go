package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LengthAndAlphabet(t *testing.T) {
	code, err := New()

	assert.NoError(t, err)
	assert.Len(t, code, Length)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestNew_NoCollisionInSmallSample(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := New()
		assert.NoError(t, err)
		assert.False(t, seen[code], "collision at %d: %s", i, code)
		seen[code] = true
	}
}
