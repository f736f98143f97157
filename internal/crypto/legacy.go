package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// The legacy format is byte-compatible with `openssl enc -aes-256-cbc -md md5`
// and CryptoJS.AES.encrypt(text, passphrase):
//
//	base64("Salted__" || salt[8] || AES-256-CBC(key, iv, PKCS#7(plaintext)))
//
// key||iv = EVP_BytesToKey(MD5, passphrase, salt, 1 round).
var legacyMagic = []byte("Salted__")

const (
	legacySaltLen = 8
	legacyKeyLen  = 32
)

func sealLegacy(plaintext, pass []byte) (string, error) {
	salt := make([]byte, legacySaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, iv := evpBytesToKey(pass, salt)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	defer clear(padded)

	out := make([]byte, len(legacyMagic)+legacySaltLen+len(padded))
	copy(out, legacyMagic)
	copy(out[len(legacyMagic):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(legacyMagic)+legacySaltLen:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

func openLegacy(encoded string, pass []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	header := len(legacyMagic) + legacySaltLen
	if len(raw) < header+aes.BlockSize || !bytes.HasPrefix(raw, legacyMagic) {
		return nil, errors.New("malformed ciphertext")
	}
	body := raw[header:]
	if len(body)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext is not a multiple of the block size")
	}

	key, iv := evpBytesToKey(pass, raw[len(legacyMagic):header])
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		clear(plaintext)
		return nil, err
	}
	return unpadded, nil
}

// evpBytesToKey implements OpenSSL's EVP_BytesToKey with MD5 and one
// iteration, producing a 32-byte key and a 16-byte IV.
func evpBytesToKey(pass, salt []byte) (key, iv []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < legacyKeyLen+aes.BlockSize {
		h := md5.New()
		h.Write(prev)
		h.Write(pass)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:legacyKeyLen], derived[legacyKeyLen : legacyKeyLen+aes.BlockSize]
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padding")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
