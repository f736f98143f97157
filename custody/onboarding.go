package custody

import (
	"context"

	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/onboarding"

	"github.com/google/uuid"
)

// StartOnboarding begins a wizard at entry, superseding any unfinished one.
// While an address mismatch is unresolved only EntryViewSeed is allowed.
func (s *Service) StartOnboarding(entry onboarding.Entry) (model.OnboardingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mismatch != nil && entry != onboarding.EntryViewSeed {
		return model.OnboardingState{}, s.mismatch
	}

	w, err := onboarding.Start(onboarding.Deps{
		Store:             s.opts.Store,
		Cipher:            s.opts.Cipher,
		Factory:           s.opts.Factory,
		Resolver:          s.resolver,
		Tracker:           s.tracker,
		Registrar:         s,
		Platform:          s.opts.Platform.Platform(),
		MinPasswordLength: s.opts.MinPasswordLength,
		Log:               s.log.With().Str("component", "onboarding").Logger(),
	}, entry)
	if err != nil {
		return model.OnboardingState{}, err
	}

	s.wizard, s.wizardID = w, uuid.NewString()
	st := w.Snapshot()
	st.ID = s.wizardID
	return st, nil
}

// Onboarding returns the state of wizard id.
func (s *Service) Onboarding(id string) (model.OnboardingState, error) {
	w, err := s.lookup(id)
	if err != nil {
		return model.OnboardingState{}, err
	}
	st := w.Snapshot()
	st.ID = id
	return st, nil
}

// Step runs one transition of wizard id. When the transition finishes the
// wizard its result is installed as the current session, which may surface
// a *mismatch.Error.
func (s *Service) Step(ctx context.Context, id string, transition func(*onboarding.Wizard) error) (model.OnboardingState, error) {
	w, err := s.lookup(id)
	if err != nil {
		return model.OnboardingState{}, err
	}

	stepErr := transition(w)
	st := w.Snapshot()
	st.ID = id
	if stepErr != nil {
		return st, stepErr
	}
	if res, done := w.Result(); done {
		if err := s.finish(ctx, id, res); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (s *Service) lookup(id string) (*onboarding.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil || id == "" || id != s.wizardID {
		return nil, ErrNoWizard
	}
	return s.wizard, nil
}

func (s *Service) finish(ctx context.Context, id string, res *onboarding.Result) error {
	s.mu.Lock()
	if id != s.wizardID {
		s.mu.Unlock()
		if res.Wallet != nil {
			res.Wallet.Zero()
		}
		return ErrNoWizard
	}
	s.wizard, s.wizardID = nil, ""

	if res.Wallet == nil {
		s.mu.Unlock()
		return nil
	}
	if res.Outcome == onboarding.OutcomeViewed && s.wallet != nil {
		// showing the seed of an already unlocked session
		if res.Wallet != s.wallet {
			res.Wallet.Zero()
		}
		s.mu.Unlock()
		return nil
	}

	if s.wallet != nil && s.wallet != res.Wallet {
		s.wallet.Zero()
	}
	s.wallet, s.identity = res.Wallet, res.Identity
	s.log.Info().
		Str("outcome", string(res.Outcome)).
		Str("address", res.Wallet.Address()).
		Msg("Wallet unlocked")
	s.mu.Unlock()

	return s.verifyRegistration(ctx, res.Wallet)
}
