package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestKnownVector(t *testing.T) {
	s := NewSHA256Signer()

	// SHA-256 of the empty string.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		s.Digest(""))

	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		s.Digest("hello"))
}

func TestDigestIsDeterministic(t *testing.T) {
	s := NewSHA256Signer()
	payload := "v1|acct|42:9001000042:1:CNY:0:1:1000:50"

	first := s.Digest(payload)
	require.Len(t, first, 64)
	assert.Equal(t, first, s.Digest(payload))
}

func TestDigestDistinguishesPayloads(t *testing.T) {
	s := NewSHA256Signer()

	assert.NotEqual(t,
		s.Digest("v1|acct|42:9001000042:1:CNY:0:1:1000:50"),
		s.Digest("v1|acct|42:9001000042:1:CNY:0:1:1000:51"))
}
