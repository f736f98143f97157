// Command seedkeeper runs the wallet custody API or drives the onboarding
// flows from a terminal. Configuration is read from the environment, see
// internal/config.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/seedkeeper/custody"
	"github.com/AlexZinkM/seedkeeper/internal/api"
	"github.com/AlexZinkM/seedkeeper/internal/client"
	"github.com/AlexZinkM/seedkeeper/internal/config"
	"github.com/AlexZinkM/seedkeeper/internal/crypto"
	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/keystore"
	"github.com/AlexZinkM/seedkeeper/internal/logging"
	"github.com/AlexZinkM/seedkeeper/internal/storage"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// @title        seedkeeper API
// @version      1.0
// @description  Self-custodial wallet onboarding, unlock and seed recovery.
// @BasePath     /

var version = "dev"

var flagSavePassword = &cli.BoolFlag{
	Name:  "save-password",
	Value: false,
	Usage: "escrow the password with the backend, encrypted to the wallet address",
}

var flagYes = &cli.BoolFlag{
	Name:  "yes",
	Value: false,
	Usage: "confirm irreversible deletion",
}

func main() {
	app := &cli.App{
		Name:           "seedkeeper",
		Usage:          "Self-custodial wallet onboarding and recovery",
		Version:        version,
		DefaultCommand: "status",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the HTTP API",
				Action: serve,
			},
			{
				Name:   "status",
				Usage:  "print identity, wallet and backup state",
				Action: withService(status),
			},
			{
				Name:   "create",
				Usage:  "create a new wallet and back up its recovery phrase",
				Flags:  []cli.Flag{flagSavePassword},
				Action: withService(createWallet),
			},
			{
				Name:   "import",
				Usage:  "import a wallet from a recovery phrase",
				Flags:  []cli.Flag{flagSavePassword},
				Action: withService(importWallet),
			},
			{
				Name:   "unlock",
				Usage:  "check the password and print the wallet address",
				Action: withService(unlock),
			},
			{
				Name:   "show-seed",
				Usage:  "print the recovery phrase after password check",
				Action: withService(showSeed),
			},
			{
				Name:   "reset-password",
				Usage:  "set a new password using the recovery phrase",
				Action: withService(resetPassword),
			},
			{
				Name:   "clear",
				Usage:  "irrecoverably delete every wallet on this device",
				Flags:  []cli.Flag{flagYes},
				Action: withService(clearAll),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type instance struct {
	cfg *config.Config
	log zerolog.Logger
	svc *custody.Service
}

// setup wires storage, crypto, identity and backend from the environment.
func setup() (*instance, func(), error) {
	if err := config.Init(); err != nil {
		return nil, nil, err
	}
	cfg := config.Get()
	log := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		JSON:    cfg.LogJSON,
		Service: "seedkeeper",
		Version: version,
	})

	backend, err := storage.Open(config.GetStorageURI())
	if err != nil {
		return nil, nil, err
	}

	cipher, err := crypto.NewSeedCipher(cfg.AppSalt, crypto.Format(cfg.SeedCipherFormat))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	cipher = cipher.WithScryptN(cfg.ScryptN)

	chain, err := wallet.ParseChain(cfg.WalletChain)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	factory, err := wallet.NewFactory(chain, cipher)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	mode, err := identity.ParseMode(cfg.PlatformMode)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	platform := identity.StaticProvider{
		Mode:      mode,
		AccountID: cfg.PlatformAccountID,
		UserName:  cfg.PlatformUserName,
	}
	opts := custody.Options{
		Store:             keystore.New(backend),
		Cipher:            cipher,
		Factory:           factory,
		Platform:          platform,
		MinPasswordLength: cfg.MinPasswordLength,
		RefreshInterval:   cfg.SessionRefreshInterval,
		Log:               log,
	}
	if cfg.BackendEnabled() {
		opts.Backend = client.NewBackendClient(cfg.BackendURL, cfg.BackendTimeout)
	}

	svc, err := custody.New(opts)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	log.Debug().
		Str("storage", backend.Name()).
		Str("chain", string(chain)).
		Str("mode", string(mode)).
		Bool("backend", cfg.BackendEnabled()).
		Msg("Service configured")

	cleanup := func() {
		svc.Close()
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage")
		}
	}
	return &instance{cfg: cfg, log: log, svc: svc}, cleanup, nil
}

func withService(action func(*cli.Context, *instance) error) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		a, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		return action(cCtx, a)
	}
}

func serve(cCtx *cli.Context) error {
	a, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(a.svc, a.log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-exit:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("Graceful HTTP server shutdown failed")
	}
	a.log.Info().Msg("HTTP server stopped")
	return nil
}

func status(cCtx *cli.Context, a *instance) error {
	st, err := a.svc.Status()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func clearAll(cCtx *cli.Context, a *instance) error {
	if !cCtx.Bool(flagYes.Name) {
		return errors.New("this deletes every wallet on the device; rerun with --yes to confirm")
	}
	removed, err := a.svc.ClearAll()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d keys\n", removed)
	return nil
}
