package model

// LoginRequest represents request body for POST {backend}/auth/login
type LoginRequest struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// RefreshRequest represents request body for POST {backend}/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Tokens is the backend session issued for a signed login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterKeyRequest represents request body for POST {backend}/wallet/register.
// EncryptedPassword is only sent when the user opted into password escrow.
type RegisterKeyRequest struct {
	Address           string `json:"address"`
	PublicKey         string `json:"publicKey"`
	Chain             string `json:"chain"`
	Signature         string `json:"signature"`
	EncryptedPassword string `json:"encryptedPassword,omitempty"`
}

// RegisteredAddressResponse represents response for GET {backend}/wallet/registered/{accountId}
type RegisteredAddressResponse struct {
	AccountID string `json:"accountId"`
	Address   string `json:"address"`
}
