package onboarding

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while another transition of the same wizard is
	// still running.
	ErrBusy = errors.New("another operation is in progress")
	// ErrWrongStep is returned for a transition the current step does not
	// offer.
	ErrWrongStep = errors.New("operation not allowed at this step")
	// ErrNoHistory is returned by Back on the first step.
	ErrNoHistory = errors.New("no previous step")
	// ErrFinished is returned by any transition after the wizard completed.
	ErrFinished = errors.New("wizard already finished")
	// ErrNoIdentity means the platform supplied no usable identity.
	ErrNoIdentity = errors.New("no identity available")
	// ErrNoWallet means there is nothing to unlock for the identity.
	ErrNoWallet = errors.New("no wallet stored for this identity")
	// ErrWalletExists refuses to start the create/import flow over a stored
	// wallet.
	ErrWalletExists = errors.New("a wallet is already stored for this identity")
	// ErrInternal wraps unexpected storage or crypto failures.
	ErrInternal = errors.New("internal error")

	ErrInvalidPassword      = errors.New("invalid password")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrConfirmationMismatch = errors.New("confirmation words do not match")
)

// UserInputError is a recoverable problem with what the user typed. The
// wizard stays on the same step and keeps everything else entered so far.
type UserInputError struct {
	Field string
	Err   error
}

func (e *UserInputError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *UserInputError) Unwrap() error {
	return e.Err
}

// IsUserInputError checks if err is a user input error
func IsUserInputError(err error) bool {
	var e *UserInputError
	return errors.As(err, &e)
}

func inputError(field string, err error) error {
	return &UserInputError{Field: field, Err: err}
}
