package model

// SeedEnvelope represents the hardened (scrypt + AES-GCM) seed record format.
// It is stored as compact JSON under the seed key of an identity.
type SeedEnvelope struct {
	Version    string `json:"v"`
	ScryptN    int    `json:"n"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletInfo describes a derived wallet without exposing key material.
type WalletInfo struct {
	Chain     string `json:"chain"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	QR        string `json:"QR,omitempty"`
}
