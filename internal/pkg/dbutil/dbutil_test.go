package dbutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinalize_RebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT id FROM users WHERE email=?", []interface{}{"a@x.com"})
	require.Equal(t, "SELECT id FROM users WHERE email=$1", query)
	require.Equal(t, []interface{}{"a@x.com"}, args)
}

func TestFinalize_RewritesLimit(t *testing.T) {
	query, args := Finalize("SELECT id FROM users WHERE email=? LIMIT ?,?", []interface{}{"a@x.com", 0, 1})
	require.Equal(t, "SELECT id FROM users WHERE email=$1 LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{"a@x.com", 1, 0}, args)
}
