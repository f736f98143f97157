package crypto

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

const (
	testSalt     = "seedkeeper-test-salt"
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testScryptN  = 1 << 10
)

func newMnemonic(t *testing.T) string {
	entropy, err := bip39.NewEntropy(128)
	require.NoError(t, err)
	m, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)
	return m
}

func ciphers(t *testing.T) map[Format]*SeedCipher {
	legacy, err := NewSeedCipher(testSalt, FormatLegacy)
	require.NoError(t, err)
	hardened, err := NewSeedCipher(testSalt, FormatScrypt)
	require.NoError(t, err)
	return map[Format]*SeedCipher{
		FormatLegacy: legacy,
		FormatScrypt: hardened.WithScryptN(testScryptN),
	}
}

func TestNewSeedCipher(t *testing.T) {
	_, err := NewSeedCipher("", FormatLegacy)
	require.Error(t, err)

	_, err = NewSeedCipher(testSalt, Format("rot13"))
	require.EqualError(t, err, `unknown seed cipher format "rot13"`)

	c, err := NewSeedCipher(testSalt, "")
	require.NoError(t, err)
	require.Equal(t, FormatLegacy, c.Format())
}

func TestSeedCipher_RoundTrip(t *testing.T) {
	for format, c := range ciphers(t) {
		t.Run(string(format), func(t *testing.T) {
			for i := 0; i < 5; i++ {
				m := newMnemonic(t)
				password := []byte(fmt.Sprintf("pw-%d", i))

				ct, err := c.Encrypt(m, password)
				require.NoError(t, err)
				require.NotContains(t, ct, strings.Fields(m)[0]+" ")

				got, ok := c.Decrypt(ct, password)
				require.True(t, ok)
				require.Equal(t, m, got)
			}
		})
	}
}

func TestSeedCipher_WrongPassword(t *testing.T) {
	for format, c := range ciphers(t) {
		t.Run(string(format), func(t *testing.T) {
			ct, err := c.Encrypt(testMnemonic, []byte("correct1"))
			require.NoError(t, err)

			trials := 200
			if format == FormatScrypt {
				trials = 20
			}
			for i := 0; i < trials; i++ {
				got, ok := c.Decrypt(ct, []byte(fmt.Sprintf("wrong%d", i)))
				require.False(t, ok)
				require.Empty(t, got)
			}
		})
	}
}

func TestSeedCipher_DifferentSaltRejects(t *testing.T) {
	a, err := NewSeedCipher("salt-a", FormatLegacy)
	require.NoError(t, err)
	b, err := NewSeedCipher("salt-b", FormatLegacy)
	require.NoError(t, err)

	ct, err := a.Encrypt(testMnemonic, []byte("secret"))
	require.NoError(t, err)

	_, ok := b.Decrypt(ct, []byte("secret"))
	require.False(t, ok)
}

func TestSeedCipher_LegacyFormatShape(t *testing.T) {
	c := ciphers(t)[FormatLegacy]

	ct1, err := c.Encrypt(testMnemonic, []byte("secret"))
	require.NoError(t, err)
	ct2, err := c.Encrypt(testMnemonic, []byte("secret"))
	require.NoError(t, err)

	// base64("Salted__...")
	assert.True(t, strings.HasPrefix(ct1, "U2FsdGVkX1"))
	assert.NotEqual(t, ct1, ct2, "salt must be random per record")
	assert.False(t, IsHardened(ct1))
}

func TestSeedCipher_ScryptEnvelope(t *testing.T) {
	c := ciphers(t)[FormatScrypt]

	ct, err := c.Encrypt(testMnemonic, []byte("secret"))
	require.NoError(t, err)
	require.True(t, IsHardened(ct))

	var env model.SeedEnvelope
	require.NoError(t, json.Unmarshal([]byte(ct), &env))
	assert.Equal(t, "scrypt", env.Version)
	assert.Equal(t, testScryptN, env.ScryptN)

	// a legacy-writing cipher still reads hardened records
	got, ok := ciphers(t)[FormatLegacy].Decrypt(ct, []byte("secret"))
	require.True(t, ok)
	require.Equal(t, testMnemonic, got)
}

func TestSeedCipher_NormalizesInput(t *testing.T) {
	c := ciphers(t)[FormatLegacy]

	ct, err := c.Encrypt("  "+strings.ToUpper(testMnemonic)+"\n", []byte("secret"))
	require.NoError(t, err)

	got, ok := c.Decrypt(ct, []byte("secret"))
	require.True(t, ok)
	require.Equal(t, testMnemonic, got)
}

func TestSeedCipher_RejectsBadInput(t *testing.T) {
	c := ciphers(t)[FormatLegacy]

	_, err := c.Encrypt("not a mnemonic", []byte("secret"))
	require.Error(t, err)

	_, err = c.Encrypt(testMnemonic, nil)
	require.Error(t, err)

	for _, ct := range []string{"", "%%%", "U2FsdGVkX18=", "{}", `{"v":"scrypt"}`, "aGVsbG8gd29ybGQ="} {
		_, ok := c.Decrypt(ct, []byte("secret"))
		assert.False(t, ok, ct)
	}
}

func TestSeedCipher_RejectsCorruptScryptCost(t *testing.T) {
	c := ciphers(t)[FormatScrypt]

	ct, err := c.Encrypt(testMnemonic, []byte("secret"))
	require.NoError(t, err)

	for _, n := range []int{1 << 40, 1 << 24, MaxScryptN << 1, 0, 1, 3, -1024} {
		var env model.SeedEnvelope
		require.NoError(t, json.Unmarshal([]byte(ct), &env))
		env.ScryptN = n
		corrupt, err := json.Marshal(env)
		require.NoError(t, err)

		require.NotPanics(t, func() {
			got, ok := c.Decrypt(string(corrupt), []byte("secret"))
			assert.False(t, ok, "n=%d", n)
			assert.Empty(t, got)
		})
	}
}

func TestValidScryptN(t *testing.T) {
	assert.True(t, ValidScryptN(2))
	assert.True(t, ValidScryptN(DefaultScryptN))
	assert.True(t, ValidScryptN(MaxScryptN))
	assert.False(t, ValidScryptN(MaxScryptN<<1))
	assert.False(t, ValidScryptN(1000))
	assert.False(t, ValidScryptN(0))
}

func TestSeedCipher_NonMnemonicPlaintextRejected(t *testing.T) {
	c := ciphers(t)[FormatLegacy]

	// Correct password but the record holds something other than a mnemonic.
	pass := c.passphrase([]byte("secret"))
	ct, err := sealLegacy([]byte("hello world"), pass)
	require.NoError(t, err)

	_, ok := c.Decrypt(ct, []byte("secret"))
	require.False(t, ok)
}

func TestSeedCipher_PasswordEscrow(t *testing.T) {
	c := ciphers(t)[FormatLegacy]
	address := "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

	blob, err := c.SealPassword([]byte("Secret123"), address)
	require.NoError(t, err)

	got, ok := c.OpenPassword(blob, address)
	require.True(t, ok)
	require.Equal(t, []byte("Secret123"), got)

	other, ok := c.OpenPassword(blob, "0x0000000000000000000000000000000000000001")
	if ok {
		require.NotEqual(t, []byte("Secret123"), other)
	}

	_, err = c.SealPassword([]byte("Secret123"), "")
	require.Error(t, err)
}
