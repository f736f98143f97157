package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/seedkeeper/internal/config"
	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/mismatch"
	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/onboarding"

	"github.com/urfave/cli/v2"
)

const maxAttempts = 3

// run is one terminal-driven wizard.
type run struct {
	ctx   context.Context
	a     *instance
	id    string
	state model.OnboardingState
	in    *bufio.Reader
}

func begin(cCtx *cli.Context, a *instance, entry onboarding.Entry) (*run, error) {
	st, err := a.svc.StartOnboarding(entry)
	if err != nil {
		return nil, explain(err)
	}
	return &run{ctx: cCtx.Context, a: a, id: st.ID, state: st, in: bufio.NewReader(os.Stdin)}, nil
}

func (r *run) step(transition func(*onboarding.Wizard) error) error {
	st, err := r.a.svc.Step(r.ctx, r.id, transition)
	r.state = st
	return explain(err)
}

func createWallet(cCtx *cli.Context, a *instance) error {
	r, err := begin(cCtx, a, onboarding.EntryWelcome)
	if err != nil {
		return err
	}
	if err := r.step(func(w *onboarding.Wizard) error { return w.ChooseCreate() }); err != nil {
		return err
	}
	if err := r.newPassword(cCtx.Bool(flagSavePassword.Name)); err != nil {
		return err
	}
	if err := r.backup(); err != nil {
		return err
	}
	return r.printAddress()
}

func importWallet(cCtx *cli.Context, a *instance) error {
	r, err := begin(cCtx, a, onboarding.EntryWelcome)
	if err != nil {
		return err
	}
	if err := r.step(func(w *onboarding.Wizard) error { return w.ChooseImport() }); err != nil {
		return err
	}
	phrase, err := config.PromptPassword("Enter recovery phrase: ")
	if err != nil {
		return err
	}
	defer clear(phrase)
	if err := r.step(func(w *onboarding.Wizard) error { return w.SubmitMnemonic(string(phrase)) }); err != nil {
		return err
	}
	if err := r.newPassword(cCtx.Bool(flagSavePassword.Name)); err != nil {
		return err
	}
	return r.printAddress()
}

func unlock(cCtx *cli.Context, a *instance) error {
	r, err := begin(cCtx, a, onboarding.EntryUnlock)
	if err != nil {
		return err
	}
	if err := r.password(); err != nil {
		return err
	}
	if onboarding.Step(r.state.Step) == onboarding.StepSeedBackup {
		fmt.Println("Your recovery phrase has not been backed up yet.")
		if err := r.backup(); err != nil {
			return err
		}
	}
	return r.printAddress()
}

func showSeed(cCtx *cli.Context, a *instance) error {
	r, err := begin(cCtx, a, onboarding.EntryViewSeed)
	if err != nil {
		return err
	}
	if err := r.password(); err != nil {
		return err
	}
	printWords(r.state.Mnemonic)
	return r.step(func(w *onboarding.Wizard) error { return w.ConfirmSeedSaved() })
}

func resetPassword(cCtx *cli.Context, a *instance) error {
	r, err := begin(cCtx, a, onboarding.EntryUnlock)
	if err != nil {
		return err
	}
	if err := r.step(func(w *onboarding.Wizard) error { return w.RequestReset() }); err != nil {
		return err
	}
	phrase, err := config.PromptPassword("Enter recovery phrase: ")
	if err != nil {
		return err
	}
	defer clear(phrase)
	pw, err := config.PromptNewPassword()
	if err != nil {
		return err
	}
	defer clear(pw)
	if err := r.step(func(w *onboarding.Wizard) error {
		return w.SubmitReset(r.ctx, string(phrase), string(pw), string(pw))
	}); err != nil {
		return err
	}
	fmt.Println("Password changed. Confirm your recovery phrase once more.")
	if err := r.backup(); err != nil {
		return err
	}
	return r.printAddress()
}

func (r *run) newPassword(save bool) error {
	pw, err := config.PromptNewPassword()
	if err != nil {
		return err
	}
	defer clear(pw)
	return r.step(func(w *onboarding.Wizard) error {
		return w.SubmitPassword(r.ctx, string(pw), string(pw), save)
	})
}

// password asks for the unlock password until it is accepted.
func (r *run) password() error {
	for attempt := 1; ; attempt++ {
		pw, err := config.PromptPassword("Password: ")
		if err != nil {
			return err
		}
		err = r.step(func(w *onboarding.Wizard) error { return w.SubmitUnlock(string(pw)) })
		clear(pw)
		if err == nil || !onboarding.IsUserInputError(err) || attempt == maxAttempts {
			return err
		}
		fmt.Fprintln(os.Stderr, err)
	}
}

// backup shows the phrase and asks for the challenge words.
func (r *run) backup() error {
	printWords(r.state.Mnemonic)
	fmt.Print("Write these words down, then press Enter to continue...")
	if _, err := r.in.ReadString('\n'); err != nil {
		return err
	}
	fmt.Print("\033[2J\033[H")

	if err := r.step(func(w *onboarding.Wizard) error { return w.ConfirmSeedSaved() }); err != nil {
		return err
	}
	for attempt := 1; ; attempt++ {
		words := make([]string, 0, len(r.state.Challenge))
		for _, pos := range r.state.Challenge {
			fmt.Printf("Word #%d: ", pos+1)
			line, err := r.in.ReadString('\n')
			if err != nil {
				return err
			}
			words = append(words, strings.TrimSpace(line))
		}
		err := r.step(func(w *onboarding.Wizard) error { return w.SubmitConfirmation(words) })
		if err == nil || !onboarding.IsUserInputError(err) || attempt == maxAttempts {
			return err
		}
		fmt.Fprintln(os.Stderr, err)
	}
}

func (r *run) printAddress() error {
	w, ok := r.a.svc.Unlocked()
	if !ok {
		return errors.New("wallet is not unlocked")
	}
	fmt.Printf("Wallet %s (%s)\n", w.Address(), w.Chain())
	return nil
}

func printWords(words []string) {
	for i, word := range words {
		fmt.Printf("%2d. %s\n", i+1, word)
	}
}

// explain adds the way out to errors a user can only resolve by hand.
func explain(err error) error {
	var mErr *mismatch.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mErr):
		return fmt.Errorf("%w\nthis device holds %s but the account is registered to %s; run `show-seed` to check the phrase or `clear --yes` to start over",
			err, mErr.Local, mErr.Registered)
	case errors.Is(err, identity.ErrIdentityConflict):
		return fmt.Errorf("%w: run `clear --yes` and import the wallet you want to keep", err)
	case errors.Is(err, onboarding.ErrWalletExists):
		return fmt.Errorf("%w: use `unlock`, or `clear --yes` to start over", err)
	case errors.Is(err, onboarding.ErrNoWallet):
		return fmt.Errorf("%w: use `create` or `import`", err)
	}
	return err
}
