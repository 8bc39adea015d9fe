package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	for _, pw := range []string{"admin", "", "пароль с пробелами", "p@$$w0rd$with$dollars"} {
		stored, err := Hash(pw)
		require.NoError(t, err)
		assert.True(t, IsHashed(stored))
		assert.True(t, Verify(pw, stored), "round trip for %q", pw)
		assert.False(t, Verify(pw+"x", stored), "other password for %q", pw)
	}
}

func TestHash_Format(t *testing.T) {
	stored, err := Hash("secret")
	require.NoError(t, err)
	parts := strings.Split(stored, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, Tag, parts[0])
	assert.Len(t, parts[1], SaltSize*2)
	assert.Len(t, parts[2], KeySize*2)

	again, err := Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, stored, again, "salts must differ")
}

func TestVerify_RejectsMalformedAndPlaintext(t *testing.T) {
	assert.False(t, Verify("secret", "secret"))
	assert.False(t, Verify("secret", Tag+"$zz$00"))
	assert.False(t, Verify("secret", Tag+"$"))
	assert.False(t, Verify("secret", Tag+"$abcd"))
}

func TestVerifyLegacy(t *testing.T) {
	assert.True(t, VerifyLegacy("admin", "admin"))
	assert.False(t, VerifyLegacy("admin", "Admin"))
	assert.False(t, VerifyLegacy("admin", "admin "))
}
