// Package mismatch compares the on-device wallet address with the address
// the backend has registered for the same account.
package mismatch

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Result of an address comparison.
type Result int

const (
	Match Result = iota
	Mismatch
)

func (r Result) String() string {
	if r == Mismatch {
		return "mismatch"
	}
	return "match"
}

// Remediation is one of the two actions offered to resolve a mismatch.
type Remediation string

const (
	// RemediationViewSeed shows (and lets the user back up) the on-device seed.
	RemediationViewSeed Remediation = "view-seed"
	// RemediationClearData irrecoverably clears on-device data and restarts
	// onboarding.
	RemediationClearData Remediation = "clear-data"
)

// Remediations lists the actions offered for a mismatch, in display order.
func Remediations() []Remediation {
	return []Remediation{RemediationViewSeed, RemediationClearData}
}

// ErrMismatch is matched by every *Error via errors.Is.
var ErrMismatch = errors.New("wallet address mismatch")

// Error is the hard-stop condition raised after unlock when the addresses
// diverge. It is never resolved automatically.
type Error struct {
	Local      string
	Registered string
}

func (e *Error) Error() string {
	return fmt.Sprintf("local wallet %s does not match registered wallet %s", e.Local, e.Registered)
}

func (e *Error) Is(target error) bool {
	return target == ErrMismatch
}

// Remediations returns the actions the user may take.
func (e *Error) Remediations() []Remediation {
	return Remediations()
}

// IsMismatchError checks if err is a mismatch error
func IsMismatchError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// Check compares two addresses. Hex addresses compare case-insensitively
// (EIP-55 checksums are presentation only); anything else must match
// exactly. An empty registered address is a Match: nothing to compare.
func Check(local, registered string) Result {
	if registered == "" {
		return Match
	}
	if common.IsHexAddress(local) && common.IsHexAddress(registered) {
		if common.HexToAddress(local) == common.HexToAddress(registered) {
			return Match
		}
		return Mismatch
	}
	if local == registered {
		return Match
	}
	return Mismatch
}

// Verify returns an *Error when Check reports a mismatch.
func Verify(local, registered string) error {
	if Check(local, registered) == Mismatch {
		return &Error{Local: local, Registered: registered}
	}
	return nil
}
