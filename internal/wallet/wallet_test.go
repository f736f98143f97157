package wallet

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// stubDecrypter returns phrase when the password matches.
type stubDecrypter struct {
	ciphertext string
	password   string
	phrase     string
}

func (s stubDecrypter) Decrypt(ciphertext string, password []byte) (string, bool) {
	if ciphertext != s.ciphertext || string(password) != s.password {
		return "", false
	}
	return s.phrase, true
}

func TestParseChain(t *testing.T) {
	c, err := ParseChain("")
	require.NoError(t, err)
	require.Equal(t, ChainEVM, c)

	c, err = ParseChain("solana")
	require.NoError(t, err)
	require.Equal(t, ChainSolana, c)

	_, err = ParseChain("dogecoin")
	require.EqualError(t, err, `unsupported chain "dogecoin"`)
}

func TestFactory_FromMnemonic_EVMVector(t *testing.T) {
	f, err := NewFactory(ChainEVM, nil)
	require.NoError(t, err)

	w, err := f.FromMnemonic(testMnemonic)
	require.NoError(t, err)

	// m/44'/60'/0'/0/0 of the all-zero entropy phrase
	require.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", w.Address())
	require.Len(t, w.PublicKey(), 65)
	require.True(t, strings.HasPrefix(w.PublicKeyHex(), "0x04"))

	// input is normalized before derivation
	w2, err := f.FromMnemonic("  " + strings.ToUpper(testMnemonic))
	require.NoError(t, err)
	require.Equal(t, w.Address(), w2.Address())
}

func TestFactory_FromMnemonic_Invalid(t *testing.T) {
	f, err := NewFactory(ChainEVM, nil)
	require.NoError(t, err)

	phrases := []string{
		strings.Repeat("abandon ", 10) + "about",           // 11 words
		strings.TrimSpace(strings.Repeat("notaword ", 12)), // not in wordlist
		strings.TrimSpace(strings.Repeat("abandon ", 12)),  // bad checksum
		strings.Repeat("abandon ", 23) + "art",             // valid 24 words, wrong size
		"",
	}
	for _, p := range phrases {
		_, err := f.FromMnemonic(p)
		require.ErrorIs(t, err, ErrInvalidMnemonic, p)
	}
}

func TestFactory_CreateRandom(t *testing.T) {
	f, err := NewFactory(ChainEVM, nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		w, mnemonic, err := f.CreateRandom()
		require.NoError(t, err)
		require.Len(t, strings.Fields(mnemonic), 12)
		require.True(t, common.IsHexAddress(w.Address()))
		require.False(t, seen[mnemonic])
		seen[mnemonic] = true

		again, err := f.FromMnemonic(mnemonic)
		require.NoError(t, err)
		require.Equal(t, w.Address(), again.Address())
	}
}

func TestFactory_Solana(t *testing.T) {
	f, err := NewFactory(ChainSolana, nil)
	require.NoError(t, err)
	require.Equal(t, ChainSolana, f.Chain())

	w, err := f.FromMnemonic(testMnemonic)
	require.NoError(t, err)
	require.Len(t, w.PublicKey(), 32)
	require.GreaterOrEqual(t, len(w.Address()), 32)
	require.LessOrEqual(t, len(w.Address()), 44)

	w2, err := f.FromMnemonic(testMnemonic)
	require.NoError(t, err)
	require.Equal(t, w.Address(), w2.Address())

	evm, err := NewFactory(ChainEVM, nil)
	require.NoError(t, err)
	we, err := evm.FromMnemonic(testMnemonic)
	require.NoError(t, err)
	require.NotEqual(t, we.Address(), w.Address())
}

func TestFactory_SolanaRejectsNonHardenedPath(t *testing.T) {
	f, err := NewFactoryWithPath(ChainSolana, "m/44'/501'/0'/0", nil)
	require.NoError(t, err)

	_, err = f.FromMnemonic(testMnemonic)
	require.EqualError(t, err, "ed25519 derivation requires hardened path elements")
}

func TestFactory_InvalidPath(t *testing.T) {
	_, err := NewFactoryWithPath(ChainEVM, "m/not/a/path", nil)
	require.Error(t, err)
}

func TestFactory_RestoreFromEncrypted(t *testing.T) {
	dec := stubDecrypter{ciphertext: "ct", password: "correct1", phrase: testMnemonic}
	f, err := NewFactory(ChainEVM, dec)
	require.NoError(t, err)

	w := f.RestoreFromEncrypted("ct", []byte("correct1"))
	require.NotNil(t, w)
	require.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", w.Address())

	require.Nil(t, f.RestoreFromEncrypted("ct", []byte("wrong1")))
	require.Nil(t, f.RestoreFromEncrypted("", []byte("correct1")))

	w, phrase := f.RestoreMnemonic("ct", []byte("correct1"))
	require.NotNil(t, w)
	require.Equal(t, testMnemonic, phrase)

	// decrypts fine but the payload is not a 12-word phrase
	bad := stubDecrypter{ciphertext: "ct", password: "pw", phrase: "hello world"}
	f, err = NewFactory(ChainEVM, bad)
	require.NoError(t, err)
	require.Nil(t, f.RestoreFromEncrypted("ct", []byte("pw")))

	f, err = NewFactory(ChainEVM, nil)
	require.NoError(t, err)
	require.Nil(t, f.RestoreFromEncrypted("ct", []byte("correct1")))
}

func TestWallet_SignAndVerify(t *testing.T) {
	for _, chain := range []Chain{ChainEVM, ChainSolana} {
		t.Run(string(chain), func(t *testing.T) {
			f, err := NewFactory(chain, nil)
			require.NoError(t, err)
			w, _, err := f.CreateRandom()
			require.NoError(t, err)

			msg := []byte("login:1700000000")
			sig, err := w.SignMessage(msg)
			require.NoError(t, err)

			assert.True(t, VerifySignature(chain, w.Address(), msg, sig))
			assert.False(t, VerifySignature(chain, w.Address(), []byte("other"), sig))

			w.Zero()
			_, err = w.SignMessage(msg)
			require.EqualError(t, err, "wallet is locked")
		})
	}
}

func TestWallet_EVMSignatureV(t *testing.T) {
	f, err := NewFactory(ChainEVM, nil)
	require.NoError(t, err)
	w, err := f.FromMnemonic(testMnemonic)
	require.NoError(t, err)

	sig, err := w.SignMessage([]byte("hello"))
	require.NoError(t, err)
	require.Len(t, sig, 65)
	require.Contains(t, []byte{27, 28}, sig[64])
}
