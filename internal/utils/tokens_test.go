package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore/internal/utils"
)

func TestNewResetToken(t *testing.T) {
	tok, err := utils.NewResetToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	other, err := utils.NewResetToken(0) // default size
	require.NoError(t, err)
	assert.Len(t, other, 64)
	assert.NotEqual(t, tok, other)
}

func TestNewOTPCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := utils.NewOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "code %q", code)
		}
	}
}
