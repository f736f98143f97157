package onboarding

// Step is a wizard screen.
type Step string

const (
	StepWelcome       Step = "welcome"
	StepPassword      Step = "password"
	StepImportWallet  Step = "import-wallet"
	StepSeedBackup    Step = "seed-backup"
	StepSeedConfirm   Step = "seed-confirm"
	StepDecrypt       Step = "decrypt"
	StepResetPassword Step = "reset-password"
)

// Choice is the action picked on the welcome screen.
type Choice string

const (
	ChoiceNone   Choice = ""
	ChoiceCreate Choice = "create"
	ChoiceImport Choice = "import"
)

// Entry selects where a wizard starts.
type Entry string

const (
	// EntryWelcome starts the create/import flow for a device without a wallet.
	EntryWelcome Entry = "welcome"
	// EntryUnlock decrypts the stored seed and routes to the backup flow
	// when the seed was never confirmed.
	EntryUnlock Entry = "unlock"
	// EntryViewSeed decrypts the stored seed and shows it read-only.
	EntryViewSeed Entry = "view-seed"
)

// ParseEntry validates an entry point name. The empty string selects
// EntryWelcome.
func ParseEntry(s string) (Entry, bool) {
	switch Entry(s) {
	case EntryWelcome, "":
		return EntryWelcome, true
	case EntryUnlock:
		return EntryUnlock, true
	case EntryViewSeed:
		return EntryViewSeed, true
	}
	return "", false
}

// Outcome describes how a finished wizard ended.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeImported      Outcome = "imported"
	OutcomeUnlocked      Outcome = "unlocked"
	OutcomeBackedUp      Outcome = "backed-up"
	OutcomeViewed        Outcome = "viewed"
	OutcomePasswordReset Outcome = "password-reset"
)
