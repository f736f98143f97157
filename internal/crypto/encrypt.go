package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/AlexZinkM/seedkeeper/internal/common"
	"github.com/AlexZinkM/seedkeeper/internal/model"

	"golang.org/x/crypto/scrypt"
)

// Format selects how new seed records are written. Both formats are always
// readable.
type Format string

const (
	// FormatLegacy is the OpenSSL "Salted__" AES-256-CBC format with an
	// MD5 EVP_BytesToKey derivation. No key stretching.
	FormatLegacy Format = "legacy"
	// FormatScrypt is an scrypt + AES-256-GCM JSON envelope.
	FormatScrypt Format = "scrypt"
)

const (
	// scrypt parameters for the hardened format.
	//
	// N=2^18 (~256MB RAM, 0.5-2s) is the same trade-off as the desktop
	// wallet: expensive to brute-force, still usable on phones.
	DefaultScryptN = 1 << 18
	// MaxScryptN caps the cost accepted from configuration and from stored
	// envelopes. 2^20 needs about 1GB.
	MaxScryptN   = 1 << 20
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

// SeedCipher encrypts mnemonic phrases under a user password combined with
// the application-wide salt.
type SeedCipher struct {
	appSalt string
	format  Format
	scryptN int
}

// NewSeedCipher creates a cipher writing records in the given format.
func NewSeedCipher(appSalt string, format Format) (*SeedCipher, error) {
	if appSalt == "" {
		return nil, errors.New("application salt must not be empty")
	}
	switch format {
	case FormatLegacy, FormatScrypt:
	case "":
		format = FormatLegacy
	default:
		return nil, fmt.Errorf("unknown seed cipher format %q", format)
	}
	return &SeedCipher{appSalt: appSalt, format: format, scryptN: DefaultScryptN}, nil
}

// WithScryptN returns a copy of the cipher using cost parameter n for new
// scrypt records. n must pass ValidScryptN.
func (c *SeedCipher) WithScryptN(n int) *SeedCipher {
	cp := *c
	cp.scryptN = n
	return &cp
}

// ValidScryptN reports whether n is a power of two between 2 and MaxScryptN.
func ValidScryptN(n int) bool {
	return n >= 2 && n <= MaxScryptN && n&(n-1) == 0
}

// Format returns the format used for new records.
func (c *SeedCipher) Format() Format {
	return c.format
}

// passphrase builds password + "|" + appSalt. Caller must clear the result.
func (c *SeedCipher) passphrase(password []byte) []byte {
	return joinSecret(password, c.appSalt)
}

func joinSecret(secret []byte, salt string) []byte {
	out := make([]byte, 0, len(secret)+1+len(salt))
	out = append(out, secret...)
	out = append(out, '|')
	out = append(out, salt...)
	return out
}

// Encrypt encrypts a 12-word mnemonic under password.
// password must be []byte for security (caller should zero it after use)
func (c *SeedCipher) Encrypt(mnemonic string, password []byte) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}
	normalized := common.NormalizeMnemonic(mnemonic)
	if !common.IsValidMnemonic(normalized) {
		return "", errors.New("refusing to encrypt an invalid mnemonic")
	}

	pass := c.passphrase(password)
	defer clear(pass)

	plaintext := []byte(normalized)
	defer clear(plaintext)

	if c.format == FormatScrypt {
		return sealScrypt(plaintext, pass, c.scryptN)
	}
	return sealLegacy(plaintext, pass)
}

func sealScrypt(plaintext, pass []byte, n int) (string, error) {
	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, err := scrypt.Key(pass, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	envelope := model.SeedEnvelope{
		Version:    string(FormatScrypt),
		ScryptN:    n,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to marshal seed envelope: %w", err)
	}
	return string(data), nil
}
