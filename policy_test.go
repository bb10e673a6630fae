package lnaddr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityPolicy(t *testing.T) {
	policy := NewIdentityPolicy("alice")

	require.True(t, policy.IsServable("local"))
	require.True(t, policy.IsServable("alice"))
	require.False(t, policy.IsServable("bob"))
	require.False(t, policy.IsServable(""))
	require.False(t, policy.IsServable("Alice"))
}
