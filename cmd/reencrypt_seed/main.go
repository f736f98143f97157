// One-off: upgrade a stored seed record from the legacy "Salted__" format to
// the scrypt + AES-GCM envelope. The mnemonic and password do not change.
// Usage: go run ./cmd/reencrypt_seed --identity <id>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/seedkeeper/internal/config"
	"github.com/AlexZinkM/seedkeeper/internal/crypto"
	"github.com/AlexZinkM/seedkeeper/internal/keystore"
	"github.com/AlexZinkM/seedkeeper/internal/storage"

	"github.com/urfave/cli/v2"
)

var errWrongPassword = errors.New("wrong password or corrupted record")

func main() {
	app := &cli.App{
		Name:  "reencrypt_seed",
		Usage: "rewrite a legacy seed record in the scrypt format",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "identity",
				Usage: "identity whose record to upgrade (defaults to the only stored one)",
			},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			backend, err := storage.Open(cfg.StorageURI)
			if err != nil {
				return err
			}
			defer backend.Close()
			store := keystore.New(backend)

			id := cCtx.String("identity")
			if id == "" {
				ids, err := store.StoredIdentities()
				if err != nil {
					return err
				}
				if len(ids) != 1 {
					return fmt.Errorf("found %d stored identities, pass --identity", len(ids))
				}
				id = ids[0]
			}

			cipher, err := crypto.NewSeedCipher(cfg.AppSalt, crypto.FormatScrypt)
			if err != nil {
				return err
			}
			cipher = cipher.WithScryptN(cfg.ScryptN)

			pw, err := config.PromptPassword("Password: ")
			if err != nil {
				return err
			}
			defer clear(pw)

			upgraded, err := reencrypt(store, cipher, id, pw)
			if err != nil {
				return err
			}
			if !upgraded {
				fmt.Println("record is already in the scrypt format")
				return nil
			}
			fmt.Println("record upgraded")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// reencrypt rewrites the record of id with cipher. The new record is decrypted
// once more before it replaces the old one. It reports false when the record
// was already hardened.
func reencrypt(store *keystore.Store, cipher *crypto.SeedCipher, id string, password []byte) (bool, error) {
	old, ok, err := store.Seed(id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("no seed record for %q", id)
	}
	if crypto.IsHardened(old) {
		return false, nil
	}

	mnemonic, ok := cipher.Decrypt(old, password)
	if !ok {
		return false, errWrongPassword
	}
	next, err := cipher.Encrypt(mnemonic, password)
	if err != nil {
		return false, err
	}
	if check, ok := cipher.Decrypt(next, password); !ok || check != mnemonic {
		return false, errors.New("re-encrypted record failed verification")
	}
	return true, store.SetSeed(id, next)
}
