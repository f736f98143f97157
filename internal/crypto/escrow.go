package crypto

import (
	"errors"
)

// SealPassword encrypts the user's password (never the mnemonic) for
// server-side escrow. The key is derived from address + "|" + appSalt so the
// blob is only useful to someone who already knows which wallet it belongs to.
func (c *SeedCipher) SealPassword(password []byte, address string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}
	if address == "" {
		return "", errors.New("address is required")
	}
	pass := joinSecret([]byte(address), c.appSalt)
	defer clear(pass)

	return sealLegacy(password, pass)
}

// OpenPassword reverses SealPassword. It returns false on any failure.
// Caller should zero the returned slice after use.
func (c *SeedCipher) OpenPassword(blob, address string) ([]byte, bool) {
	if blob == "" || address == "" {
		return nil, false
	}
	pass := joinSecret([]byte(address), c.appSalt)
	defer clear(pass)

	password, err := openLegacy(blob, pass)
	if err != nil || len(password) == 0 {
		return nil, false
	}
	return password, true
}
