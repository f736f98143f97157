package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	evmAddr = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	solAddr = "TokenkegQfeZyiNwAJbNbGKPFXCWuvvf9Ss623VQ5DA"
)

func TestAccessCondition_Validate(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)

	require.Error(t, AccessCondition{}.Validate())
	require.NoError(t, AccessCondition{AllowedWallets: []string{evmAddr, solAddr}}.Validate())
	require.NoError(t, AccessCondition{NotBefore: &now}.Validate())
	require.NoError(t, AccessCondition{NotBefore: &now, NotAfter: &later}.Validate())

	require.Error(t, AccessCondition{NotBefore: &later, NotAfter: &now}.Validate())
	require.Error(t, AccessCondition{AllowedWallets: []string{"nope!"}}.Validate())
	require.ErrorContains(t, AccessCondition{AllowedWallets: []string{evmAddr, "0x9858effd232b4033e47d90003d41ec34ecaeda94"}}.Validate(), "duplicate")
}

func TestAccessCondition_Allows(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	c := AccessCondition{AllowedWallets: []string{evmAddr}, NotBefore: &start, NotAfter: &end}
	assert.True(t, c.Allows("0x9858effd232b4033e47d90003d41ec34ecaeda94", now))
	assert.False(t, c.Allows(solAddr, now))
	assert.False(t, c.Allows(evmAddr, end))
	assert.False(t, c.Allows(evmAddr, start.Add(-time.Second)))

	open := AccessCondition{NotAfter: &end}
	assert.True(t, open.Allows(solAddr, now))
}

func TestResolveDisplayName(t *testing.T) {
	d := ResolveDisplayName(" Alice ", evmAddr)
	assert.Equal(t, DisplayHasName, d.Kind)
	assert.Equal(t, "Alice", d.String())

	d = ResolveDisplayName("", evmAddr)
	assert.Equal(t, DisplayHasAddress, d.Kind)
	assert.Equal(t, "0x9858...da94", d.String())

	d = ResolveDisplayName("  ", "")
	assert.Equal(t, DisplayAnonymous, d.Kind)
	assert.Equal(t, "Anonymous", d.String())
}
