// Package onboarding implements the create / import / unlock / reset /
// backup wizard that drives all local wallet custody.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/AlexZinkM/seedkeeper/internal/backup"
	"github.com/AlexZinkM/seedkeeper/internal/common"
	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/keystore"
	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/wallet"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// DefaultMinPasswordLength applies to both the creation and reset flows.
const DefaultMinPasswordLength = 6

// SeedEncrypter turns a mnemonic into an EncryptedSeedRecord.
type SeedEncrypter interface {
	Encrypt(mnemonic string, password []byte) (string, error)
}

// Registrar announces a new or changed wallet to the backend. Failures are
// logged and never roll back local state.
type Registrar interface {
	Register(ctx context.Context, w *wallet.Wallet, password []byte) error
}

// Deps are the collaborators of a Wizard.
type Deps struct {
	Store     *keystore.Store
	Cipher    SeedEncrypter
	Factory   *wallet.Factory
	Resolver  *identity.Resolver
	Tracker   *backup.Tracker
	Registrar Registrar // optional
	Platform  identity.Platform

	MinPasswordLength int
	Random            io.Reader // challenge source, crypto/rand when nil
	Log               zerolog.Logger
}

// Result is what a finished wizard hands back to its caller.
type Result struct {
	Outcome  Outcome
	Identity string
	Wallet   *wallet.Wallet // nil when a view-only wizard was closed before unlocking
}

// data accumulated across steps
type data struct {
	choice    Choice
	mnemonic  string
	wallet    *wallet.Wallet
	challenge []int
	readOnly  bool
	flow      Outcome // reported when seed-confirm succeeds
}

// Wizard is one run of the onboarding state machine. Transitions are
// serialized: a call made while another one is still running fails with
// ErrBusy instead of queueing.
type Wizard struct {
	deps  Deps
	entry Entry
	busy  atomic.Bool

	mu       sync.Mutex
	identity string
	step     Step
	history  []Step
	data     data
	result   *Result
	lastErr  string
}

// Start resolves the identity, refuses devices holding more than one wallet
// and positions a new wizard at the first step of entry.
func Start(deps Deps, entry Entry) (*Wizard, error) {
	if deps.MinPasswordLength <= 0 {
		deps.MinPasswordLength = DefaultMinPasswordLength
	}

	w := &Wizard{deps: deps, entry: entry}

	id, err := deps.Resolver.Resolve(deps.Platform, "")
	if err != nil {
		return nil, w.internal("resolve identity", err)
	}
	if id == "" {
		return nil, ErrNoIdentity
	}
	w.identity = id

	if err := w.checkConflict(); err != nil {
		return nil, err
	}

	_, hasSeed, err := deps.Store.Seed(id)
	if err != nil {
		return nil, w.internal("read seed", err)
	}

	switch entry {
	case EntryWelcome:
		if hasSeed {
			return nil, ErrWalletExists
		}
		w.step = StepWelcome
	case EntryUnlock, EntryViewSeed:
		if !hasSeed {
			return nil, ErrNoWallet
		}
		w.step = StepDecrypt
	default:
		return nil, fmt.Errorf("unknown entry point %q", entry)
	}

	deps.Log.Debug().
		Str("entry", string(entry)).
		Str("identity", common.ShortID(id)).
		Msg("Onboarding started")
	return w, nil
}

// ChooseCreate picks "create a new wallet" on the welcome screen.
func (w *Wizard) ChooseCreate() error {
	return w.choose(ChoiceCreate, StepPassword)
}

// ChooseImport picks "import an existing wallet" on the welcome screen.
func (w *Wizard) ChooseImport() error {
	return w.choose(ChoiceImport, StepImportWallet)
}

func (w *Wizard) choose(choice Choice, next Step) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepWelcome); err != nil {
		return err
	}
	if w.data.choice != choice {
		w.resetData()
		w.data.choice = choice
	}
	w.advance(next)
	return nil
}

// SubmitMnemonic validates the phrase typed on the import screen.
func (w *Wizard) SubmitMnemonic(mnemonic string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepImportWallet); err != nil {
		return err
	}
	wal, err := w.deps.Factory.FromMnemonic(mnemonic)
	if err != nil {
		return w.fail(inputError("mnemonic", wallet.ErrInvalidMnemonic))
	}
	w.setWallet(wal, common.NormalizeMnemonic(mnemonic))
	w.advance(StepPassword)
	return nil
}

// SubmitPassword encrypts and stores the pending mnemonic. On the create
// path the mnemonic is generated here, once; going back and resubmitting
// re-encrypts the same phrase. Import completes the wizard, create moves on
// to seed-backup.
func (w *Wizard) SubmitPassword(ctx context.Context, password, confirm string, savePassword bool) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	wal, pw, err := w.storePassword(password, confirm, savePassword)
	if err != nil {
		return err
	}
	defer clear(pw)

	w.register(ctx, wal, pw)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.data.choice == ChoiceImport {
		w.complete(OutcomeImported)
		return nil
	}
	w.data.flow = OutcomeCreated
	w.advance(StepSeedBackup)
	return nil
}

func (w *Wizard) storePassword(password, confirm string, savePassword bool) (*wallet.Wallet, []byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepPassword); err != nil {
		return nil, nil, err
	}
	if err := w.checkPassword(password, confirm); err != nil {
		return nil, nil, w.fail(err)
	}
	if err := w.checkConflict(); err != nil {
		return nil, nil, err
	}

	switch w.data.choice {
	case ChoiceCreate:
		if w.data.mnemonic == "" {
			wal, mnemonic, err := w.deps.Factory.CreateRandom()
			if err != nil {
				return nil, nil, w.internal("create wallet", err)
			}
			w.setWallet(wal, mnemonic)
		}
	case ChoiceImport:
		if w.data.mnemonic == "" {
			return nil, nil, ErrWrongStep
		}
	default:
		return nil, nil, ErrWrongStep
	}

	pw := []byte(password)
	if err := w.persistSeed(pw); err != nil {
		clear(pw)
		return nil, nil, err
	}
	if err := w.deps.Store.SetSavePasswordPreference(savePassword); err != nil {
		clear(pw)
		return nil, nil, w.internal("save password preference", err)
	}
	if w.data.choice == ChoiceCreate {
		// a fresh phrase the user has never seen is never backed up
		if err := w.deps.Store.RemoveBackupFlag(w.identity); err != nil {
			clear(pw)
			return nil, nil, w.internal("reset backup flag", err)
		}
	}

	w.deps.Log.Info().
		Str("choice", string(w.data.choice)).
		Str("identity", common.ShortID(w.identity)).
		Msg("Wallet stored")
	return w.data.wallet, pw, nil
}

// persistSeed encrypts the pending mnemonic under the current identity and
// then adopts the wallet address as identity, migrating the record.
func (w *Wizard) persistSeed(password []byte) error {
	ct, err := w.deps.Cipher.Encrypt(w.data.mnemonic, password)
	if err != nil {
		return w.internal("encrypt seed", err)
	}
	if err := w.deps.Store.SetSeed(w.identity, ct); err != nil {
		return w.internal("store seed", err)
	}
	id, err := w.deps.Resolver.Adopt(w.deps.Platform, w.identity, w.data.wallet.Address())
	if err != nil {
		return w.internal("adopt wallet identity", err)
	}
	w.identity = id
	return nil
}

// SubmitUnlock decrypts the stored seed. A wrong password, a corrupt record
// and a missing record all produce the same ErrInvalidPassword input error
// and leave the wizard on the decrypt step.
func (w *Wizard) SubmitUnlock(password string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepDecrypt); err != nil {
		return err
	}
	if err := w.checkConflict(); err != nil {
		return err
	}

	ct, _, err := w.deps.Store.Seed(w.identity)
	if err != nil {
		return w.internal("read seed", err)
	}
	pw := []byte(password)
	defer clear(pw)
	wal, mnemonic := w.deps.Factory.RestoreMnemonic(ct, pw)
	if wal == nil {
		w.deps.Log.Debug().Str("identity", common.ShortID(w.identity)).Msg("Unlock rejected")
		return w.fail(inputError("password", ErrInvalidPassword))
	}
	w.setWallet(wal, mnemonic)

	id, err := w.deps.Resolver.Adopt(w.deps.Platform, w.identity, wal.Address())
	if err != nil {
		return w.internal("adopt wallet identity", err)
	}
	w.identity = id

	if w.entry == EntryViewSeed {
		w.data.readOnly = true
		w.data.flow = OutcomeViewed
		w.advance(StepSeedBackup)
		return nil
	}

	needed, err := w.deps.Tracker.IsBackupNeeded(w.identity, true)
	if err != nil {
		return w.internal("read backup flag", err)
	}
	if needed {
		w.data.flow = OutcomeBackedUp
		w.advance(StepSeedBackup)
		return nil
	}
	w.complete(OutcomeUnlocked)
	return nil
}

// ConfirmSeedSaved is the "I've saved it" button of seed-backup. In
// read-only mode it closes the wizard; otherwise it draws the challenge
// positions, once, and moves to seed-confirm.
func (w *Wizard) ConfirmSeedSaved() error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepSeedBackup); err != nil {
		return err
	}
	if w.data.readOnly {
		w.complete(OutcomeViewed)
		return nil
	}
	if w.data.challenge == nil {
		idx, err := PickChallengeIndices(w.deps.Random, common.MnemonicWords, common.ChallengeWords)
		if err != nil {
			return w.internal("pick challenge", err)
		}
		w.data.challenge = idx
	}
	w.advance(StepSeedConfirm)
	return nil
}

// SubmitConfirmation checks the retyped words, given in challenge order.
// A miss keeps the same positions. Success is the only place a backup flag
// becomes true.
func (w *Wizard) SubmitConfirmation(words []string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepSeedConfirm); err != nil {
		return err
	}
	phrase := common.MnemonicWordList(w.data.mnemonic)
	if len(words) != len(w.data.challenge) {
		return w.fail(inputError("words", ErrConfirmationMismatch))
	}
	for i, pos := range w.data.challenge {
		if pos >= len(phrase) || !common.SameWord(words[i], phrase[pos]) {
			return w.fail(inputError("words", ErrConfirmationMismatch))
		}
	}

	if err := w.deps.Tracker.MarkBackedUp(w.identity); err != nil {
		return w.internal("mark backed up", err)
	}
	w.deps.Log.Info().Str("identity", common.ShortID(w.identity)).Msg("Seed backup confirmed")
	w.complete(w.data.flow)
	return nil
}

// RequestReset leaves the decrypt step for reset-password.
func (w *Wizard) RequestReset() error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepDecrypt); err != nil {
		return err
	}
	w.advance(StepResetPassword)
	return nil
}

// SubmitReset stores a, possibly different, mnemonic under a new password.
// The record ends up under the identity derived from that mnemonic, the old
// identity's entries are removed, and the backup flag is cleared so the
// wizard continues with seed-backup.
func (w *Wizard) SubmitReset(ctx context.Context, mnemonic, password, confirm string) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	wal, pw, err := w.storeReset(mnemonic, password, confirm)
	if err != nil {
		return err
	}
	defer clear(pw)

	w.register(ctx, wal, pw)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.data.flow = OutcomePasswordReset
	w.advance(StepSeedBackup)
	return nil
}

func (w *Wizard) storeReset(mnemonic, password, confirm string) (*wallet.Wallet, []byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepResetPassword); err != nil {
		return nil, nil, err
	}
	wal, err := w.deps.Factory.FromMnemonic(mnemonic)
	if err != nil {
		return nil, nil, w.fail(inputError("mnemonic", wallet.ErrInvalidMnemonic))
	}
	if err := w.checkPassword(password, confirm); err != nil {
		wal.Zero()
		return nil, nil, w.fail(err)
	}
	if err := w.checkConflict(); err != nil {
		wal.Zero()
		return nil, nil, err
	}

	w.setWallet(wal, common.NormalizeMnemonic(mnemonic))
	w.data.challenge = nil
	// a reset entered from view-seed must still be confirmed
	w.data.readOnly = false

	previous := w.identity
	if err := w.deps.Tracker.MarkNotBackedUp(w.identity); err != nil {
		return nil, nil, w.internal("reset backup flag", err)
	}
	pw := []byte(password)
	if err := w.persistSeed(pw); err != nil {
		clear(pw)
		return nil, nil, err
	}

	w.deps.Log.Info().
		Str("from", common.ShortID(previous)).
		Str("to", common.ShortID(w.identity)).
		Msg("Password reset")
	return wal, pw, nil
}

// Back returns to the previous step without repeating its side effects.
// Stored records stay where they are: after a create, going back to welcome
// and importing replaces the created wallet's record with the imported one.
func (w *Wizard) Back() error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result != nil {
		return ErrFinished
	}
	if len(w.history) == 0 {
		return ErrNoHistory
	}
	w.step = w.history[len(w.history)-1]
	w.history = w.history[:len(w.history)-1]
	w.lastErr = ""
	return nil
}

// Close dismisses a view-only wizard.
func (w *Wizard) Close() error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result != nil {
		return ErrFinished
	}
	if w.entry != EntryViewSeed || w.data.flow == OutcomePasswordReset {
		return ErrWrongStep
	}
	w.complete(OutcomeViewed)
	return nil
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Identity returns the identity the wizard currently writes under.
func (w *Wizard) Identity() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.identity
}

// Result returns the outcome once the wizard finished.
func (w *Wizard) Result() (*Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.result != nil
}

// Snapshot renders the wizard for a UI.
func (w *Wizard) Snapshot() model.OnboardingState {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := model.OnboardingState{
		Entry:     string(w.entry),
		Step:      string(w.step),
		History:   make([]string, 0, len(w.history)),
		Choice:    string(w.data.choice),
		Identity:  w.identity,
		ReadOnly:  w.data.readOnly,
		Busy:      w.busy.Load(),
		Done:      w.result != nil,
		LastError: w.lastErr,
	}
	for _, st := range w.history {
		s.History = append(s.History, string(st))
	}
	if w.data.wallet != nil {
		s.Address = w.data.wallet.Address()
	}
	if w.result != nil {
		s.Outcome = string(w.result.Outcome)
		return s
	}
	switch w.step {
	case StepSeedBackup:
		s.Mnemonic = common.MnemonicWordList(w.data.mnemonic)
	case StepSeedConfirm:
		s.Challenge = append([]int(nil), w.data.challenge...)
	}
	return s
}

func (w *Wizard) begin() error {
	if !w.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (w *Wizard) end() {
	w.busy.Store(false)
}

func (w *Wizard) expect(step Step) error {
	if w.result != nil {
		return ErrFinished
	}
	if w.step != step {
		return fmt.Errorf("%w: at %s, need %s", ErrWrongStep, w.step, step)
	}
	return nil
}

func (w *Wizard) advance(next Step) {
	w.history = append(w.history, w.step)
	w.step = next
	w.lastErr = ""
}

func (w *Wizard) complete(outcome Outcome) {
	w.result = &Result{Outcome: outcome, Identity: w.identity, Wallet: w.data.wallet}
	w.data.mnemonic = ""
	w.data.challenge = nil
	w.lastErr = ""
	w.deps.Log.Info().
		Str("outcome", string(outcome)).
		Str("identity", common.ShortID(w.identity)).
		Msg("Onboarding finished")
}

func (w *Wizard) setWallet(wal *wallet.Wallet, mnemonic string) {
	if w.data.wallet != nil && w.data.wallet != wal {
		w.data.wallet.Zero()
	}
	w.data.wallet = wal
	w.data.mnemonic = mnemonic
}

func (w *Wizard) resetData() {
	if w.data.wallet != nil {
		w.data.wallet.Zero()
	}
	w.data = data{}
}

func (w *Wizard) checkPassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < w.deps.MinPasswordLength {
		return inputError("password", fmt.Errorf("%w: minimum %d characters", ErrPasswordTooShort, w.deps.MinPasswordLength))
	}
	if password != confirm {
		return inputError("confirm", ErrPasswordMismatch)
	}
	return nil
}

func (w *Wizard) checkConflict() error {
	err := w.deps.Resolver.DetectConflict(w.deps.Platform, w.identity)
	if err == nil {
		return nil
	}
	if errors.Is(err, identity.ErrIdentityConflict) {
		return err
	}
	return w.internal("check identities", err)
}

func (w *Wizard) register(ctx context.Context, wal *wallet.Wallet, password []byte) {
	if w.deps.Registrar == nil || wal == nil {
		return
	}
	if err := w.deps.Registrar.Register(ctx, wal, password); err != nil {
		w.deps.Log.Warn().
			Err(err).
			Str("address", wal.Address()).
			Msg("Backend registration failed, keeping local wallet")
	}
}

// fail records a user input error for the snapshot.
func (w *Wizard) fail(err error) error {
	w.lastErr = err.Error()
	return err
}

func (w *Wizard) internal(op string, err error) error {
	w.deps.Log.Error().Err(err).Str("op", op).Msg("Onboarding step failed")
	w.lastErr = "something went wrong, please try again"
	return fmt.Errorf("%w: failed to %s", ErrInternal, op)
}
