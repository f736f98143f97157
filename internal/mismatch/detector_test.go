package mismatch

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		local      string
		registered string
		want       Result
	}{
		{"same", addr, addr, Match},
		{"case-insensitive hex", addr, strings.ToLower(addr), Match},
		{"different hex", addr, "0x0000000000000000000000000000000000000001", Mismatch},
		{"nothing registered", addr, "", Match},
		{"base58 exact", "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk", "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk", Match},
		{"base58 case matters", "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk", "hAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk", Mismatch},
		{"hex vs base58", addr, "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk", Mismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.local, tt.registered))
		})
	}
}

func TestVerify(t *testing.T) {
	require.NoError(t, Verify(addr, addr))

	err := Verify(addr, "0x0000000000000000000000000000000000000001")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMismatch)
	require.True(t, IsMismatchError(fmt.Errorf("unlock: %w", err)))

	var mErr *Error
	require.True(t, errors.As(err, &mErr))
	require.Equal(t, addr, mErr.Local)
	require.Equal(t, []Remediation{RemediationViewSeed, RemediationClearData}, mErr.Remediations())

	require.False(t, IsMismatchError(errors.New("other")))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "match", Match.String())
	assert.Equal(t, "mismatch", Mismatch.String())
}
