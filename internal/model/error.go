package model

// ErrorResponse is the consistent JSON structure for all API error responses.
// Code is one of the Code* constants; clients branch on it, not on Error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

const (
	CodeBadRequest       = "bad_request"
	CodeUserInput        = "user_input"
	CodeBusy             = "busy"
	CodeWrongStep        = "wrong_step"
	CodeWalletExists     = "wallet_exists"
	CodeNoWallet         = "no_wallet"
	CodeNoIdentity       = "no_identity"
	CodeIdentityConflict = "identity_conflict"
	CodeMismatch         = "mismatch"
	CodeNoWizard         = "no_wizard"
	CodeLocked           = "locked"
	CodeNotConfigured    = "not_configured"
	CodeInternal         = "internal"
)
