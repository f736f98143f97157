package model

// EncryptSecretRequest represents request for POST /secrets/encrypt
type EncryptSecretRequest struct {
	Plaintext string          `json:"plaintext"`
	Condition AccessCondition `json:"condition"`
}

// EncryptSecretResponse represents response for POST /secrets/encrypt.
// Ciphertext is base64.
type EncryptSecretResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptSecretRequest represents request for POST /secrets/decrypt
type DecryptSecretRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptSecretResponse represents response for POST /secrets/decrypt
type DecryptSecretResponse struct {
	Plaintext string `json:"plaintext"`
}
