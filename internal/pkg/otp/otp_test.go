package otp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCode_Shape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code := NewCode()
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "non-digit in code %q", code)
		}
		seen[code] = struct{}{}
	}
	// 200 draws from a 10^6 space collapsing to a handful of values would
	// mean the generator is broken
	require.Greater(t, len(seen), 100)
}
