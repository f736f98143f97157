package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AlexZinkM/seedkeeper/internal/common"
	"github.com/AlexZinkM/seedkeeper/internal/model"

	"golang.org/x/crypto/scrypt"
)

// Decrypt recovers the mnemonic stored in ciphertext.
//
// It never returns an error: a wrong password, a corrupted record, or a
// plaintext that is not a valid 12-word mnemonic all yield ("", false).
// password must be []byte for security (caller should zero it after use)
func (c *SeedCipher) Decrypt(ciphertext string, password []byte) (string, bool) {
	if ciphertext == "" || len(password) == 0 {
		return "", false
	}

	pass := c.passphrase(password)
	defer clear(pass)

	plaintext, err := open(ciphertext, pass)
	if err != nil {
		return "", false
	}
	defer clear(plaintext)

	if !utf8.Valid(plaintext) {
		return "", false
	}
	mnemonic := string(plaintext)
	if !common.IsValidMnemonic(mnemonic) {
		return "", false
	}
	return mnemonic, true
}

// IsHardened reports whether ciphertext is in the scrypt envelope format.
func IsHardened(ciphertext string) bool {
	return strings.HasPrefix(strings.TrimSpace(ciphertext), "{")
}

func open(ciphertext string, pass []byte) ([]byte, error) {
	if IsHardened(ciphertext) {
		return openScrypt(ciphertext, pass)
	}
	return openLegacy(strings.TrimSpace(ciphertext), pass)
}

func openScrypt(data string, pass []byte) ([]byte, error) {
	var envelope model.SeedEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed envelope: %w", err)
	}
	if envelope.Version != string(FormatScrypt) {
		return nil, fmt.Errorf("unsupported envelope version %q", envelope.Version)
	}
	if !ValidScryptN(envelope.ScryptN) {
		return nil, fmt.Errorf("invalid scrypt cost %d", envelope.ScryptN)
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	key, err := scrypt.Key(pass, salt, envelope.ScryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.New("invalid password")
	}
	return plaintext, nil
}
