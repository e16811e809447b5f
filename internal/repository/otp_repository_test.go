package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
		seen[code] = true
	}
	// 50 draws from a million values collide; all identical means a
	// broken generator.
	assert.Greater(t, len(seen), 1)
}

func TestOTPKeyNormalisesEmail(t *testing.T) {
	assert.Equal(t, "otp:verify:jane@example.com", otpKey(OTPPurposeVerify, "  Jane@Example.COM "))
	assert.NotEqual(t,
		otpKey(OTPPurposeVerify, "jane@example.com"),
		otpKey(OTPPurposeReset, "jane@example.com"))
}
