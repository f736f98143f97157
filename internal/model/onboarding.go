package model

// OnboardingState is a read-only view of a running wizard.
// Mnemonic is only populated on the seed-backup step and Challenge only on
// seed-confirm.
type OnboardingState struct {
	ID        string   `json:"id,omitempty"`
	Entry     string   `json:"entry"`
	Step      string   `json:"step"`
	History   []string `json:"history"`
	Choice    string   `json:"choice,omitempty"`
	Identity  string   `json:"identity,omitempty"`
	Address   string   `json:"address,omitempty"`
	Mnemonic  []string `json:"mnemonic,omitempty"`
	Challenge []int    `json:"challenge,omitempty"`
	ReadOnly  bool     `json:"readOnly"`
	Busy      bool     `json:"busy"`
	Done      bool     `json:"done"`
	Outcome   string   `json:"outcome,omitempty"`
	LastError string   `json:"lastError,omitempty"`
}

// StartOnboardingRequest represents request body for POST /onboarding
type StartOnboardingRequest struct {
	Entry string `json:"entry" example:"welcome"`
}

// MnemonicRequest represents request body for POST /onboarding/mnemonic
type MnemonicRequest struct {
	Mnemonic string `json:"mnemonic"`
}

// PasswordRequest represents request body for POST /onboarding/password
type PasswordRequest struct {
	Password     string `json:"password"`
	Confirm      string `json:"confirm"`
	SavePassword bool   `json:"savePassword"`
}

// UnlockRequest represents request body for POST /onboarding/unlock
type UnlockRequest struct {
	Password string `json:"password"`
}

// ConfirmationRequest represents request body for POST /onboarding/confirm.
// Words are given in the order of the challenge positions.
type ConfirmationRequest struct {
	Words []string `json:"words"`
}

// ResetRequest represents request body for POST /onboarding/reset
type ResetRequest struct {
	Mnemonic string `json:"mnemonic"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}
