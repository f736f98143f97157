package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNormalizeMnemonic(t *testing.T) {
	assert.Equal(t, "abandon about", NormalizeMnemonic("  Abandon \t\n ABOUT "))
	assert.Equal(t, "", NormalizeMnemonic("   "))
}

func TestIsValidMnemonic(t *testing.T) {
	require.True(t, IsValidMnemonic(testMnemonic))
	require.True(t, IsValidMnemonic(strings.ToUpper(testMnemonic)))

	// 11 words
	require.False(t, IsValidMnemonic(strings.Repeat("abandon ", 10)+"about"))
	// unknown words
	require.False(t, IsValidMnemonic(strings.Repeat("notaword ", 12)))
	// bad checksum
	require.False(t, IsValidMnemonic(strings.Repeat("abandon ", 12)))
	// valid 24-word phrase is still rejected
	require.False(t, IsValidMnemonic(strings.Repeat("abandon ", 23)+"art"))
}

func TestSameWord(t *testing.T) {
	assert.True(t, SameWord(" Abandon ", "abandon"))
	assert.False(t, SameWord("abandon", "about"))
}

func TestIsPseudoIdentity(t *testing.T) {
	assert.True(t, IsPseudoIdentity("web-1234"))
	assert.False(t, IsPseudoIdentity("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"))
	assert.False(t, IsPseudoIdentity("123456789"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0x9858…da94", ShortID("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"))
	assert.Equal(t, "42", ShortID("42"))
}
