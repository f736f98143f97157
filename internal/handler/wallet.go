package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/seedkeeper/custody"
	"github.com/AlexZinkM/seedkeeper/internal/identity"
	"github.com/AlexZinkM/seedkeeper/internal/mismatch"
	"github.com/AlexZinkM/seedkeeper/internal/model"
	"github.com/AlexZinkM/seedkeeper/internal/onboarding"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// WalletHandler serves the wallet session and the onboarding wizard
type WalletHandler struct {
	svc *custody.Service
	log zerolog.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(svc *custody.Service, log zerolog.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, log: log}
}

// RegisterRoutes mounts the wallet, onboarding and secrets endpoints.
func (h *WalletHandler) RegisterRoutes(r chi.Router) {
	r.Get("/wallet/status", h.Status)
	r.Get("/wallet", h.Wallet)
	r.Post("/wallet/lock", h.Lock)
	r.Delete("/wallet", h.ClearAll)

	r.Post("/onboarding", h.StartOnboarding)
	r.Route("/onboarding/{id}", func(r chi.Router) {
		r.Get("/", h.GetOnboarding)
		r.Post("/create", h.ChooseCreate)
		r.Post("/import", h.ChooseImport)
		r.Post("/mnemonic", h.SubmitMnemonic)
		r.Post("/password", h.SubmitPassword)
		r.Post("/unlock", h.SubmitUnlock)
		r.Post("/seed-saved", h.ConfirmSeedSaved)
		r.Post("/confirm", h.SubmitConfirmation)
		r.Post("/reset-request", h.RequestReset)
		r.Post("/reset", h.SubmitReset)
		r.Post("/back", h.Back)
		r.Post("/close", h.Close)
	})

	r.Post("/secrets/encrypt", h.EncryptSecret)
	r.Post("/secrets/decrypt", h.DecryptSecret)
}

// Status handles GET /wallet/status
// @Summary      Wallet status
// @Description  Identity, stored wallet, backup, lock, conflict and mismatch state of this device
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Wallet handles GET /wallet
// @Summary      Unlocked wallet
// @Description  Address, public key and address QR code (base64 PNG) of the unlocked wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletInfo
// @Failure      403  {object}  model.ErrorResponse
// @Router       /wallet [get]
func (h *WalletHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.AddressQR()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Lock handles POST /wallet/lock
// @Summary      Lock wallet
// @Description  Wipes the unlocked key from memory and ends the backend session
// @Tags         wallet
// @Success      204
// @Router       /wallet/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.svc.Lock()
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll handles DELETE /wallet
// @Summary      Delete all data
// @Description  Irrecoverably removes every wallet key from this device
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ClearResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /wallet [delete]
func (h *WalletHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.ClearAll()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ClearResponse{Removed: removed})
}

// StartOnboarding handles POST /onboarding
// @Summary      Start wizard
// @Description  Starts the onboarding wizard at welcome, unlock or view-seed
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        request  body      model.StartOnboardingRequest  true  "Entry point"
// @Success      201      {object}  model.OnboardingState
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      423      {object}  model.ErrorResponse
// @Router       /onboarding [post]
func (h *WalletHandler) StartOnboarding(w http.ResponseWriter, r *http.Request) {
	var req model.StartOnboardingRequest
	if !decode(w, r, &req) {
		return
	}
	entry, ok := onboarding.ParseEntry(req.Entry)
	if !ok {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "unknown entry point", Code: model.CodeBadRequest})
		return
	}
	st, err := h.svc.StartOnboarding(entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// GetOnboarding handles GET /onboarding/{id}
// @Summary      Wizard state
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Failure      404  {object}  model.ErrorResponse
// @Router       /onboarding/{id} [get]
func (h *WalletHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Onboarding(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ChooseCreate handles POST /onboarding/{id}/create
// @Summary      Choose create
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Router       /onboarding/{id}/create [post]
func (h *WalletHandler) ChooseCreate(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.ChooseCreate() })
}

// ChooseImport handles POST /onboarding/{id}/import
// @Summary      Choose import
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Router       /onboarding/{id}/import [post]
func (h *WalletHandler) ChooseImport(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.ChooseImport() })
}

// SubmitMnemonic handles POST /onboarding/{id}/mnemonic
// @Summary      Submit mnemonic to import
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Wizard id"
// @Param        request  body      model.MnemonicRequest  true  "12-word phrase"
// @Success      200      {object}  model.OnboardingState
// @Failure      400      {object}  model.ErrorResponse
// @Router       /onboarding/{id}/mnemonic [post]
func (h *WalletHandler) SubmitMnemonic(w http.ResponseWriter, r *http.Request) {
	var req model.MnemonicRequest
	if !decode(w, r, &req) {
		return
	}
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.SubmitMnemonic(req.Mnemonic) })
}

// SubmitPassword handles POST /onboarding/{id}/password
// @Summary      Set password
// @Description  Encrypts and stores the wallet. Create continues to seed-backup, import completes.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Wizard id"
// @Param        request  body      model.PasswordRequest  true  "Password"
// @Success      200      {object}  model.OnboardingState
// @Failure      400      {object}  model.ErrorResponse
// @Router       /onboarding/{id}/password [post]
func (h *WalletHandler) SubmitPassword(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordRequest
	if !decode(w, r, &req) {
		return
	}
	h.step(w, r, func(wz *onboarding.Wizard) error {
		return wz.SubmitPassword(r.Context(), req.Password, req.Confirm, req.SavePassword)
	})
}

// SubmitUnlock handles POST /onboarding/{id}/unlock
// @Summary      Unlock
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Wizard id"
// @Param        request  body      model.UnlockRequest  true  "Password"
// @Success      200      {object}  model.OnboardingState
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /onboarding/{id}/unlock [post]
func (h *WalletHandler) SubmitUnlock(w http.ResponseWriter, r *http.Request) {
	var req model.UnlockRequest
	if !decode(w, r, &req) {
		return
	}
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.SubmitUnlock(req.Password) })
}

// ConfirmSeedSaved handles POST /onboarding/{id}/seed-saved
// @Summary      Seed saved
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Router       /onboarding/{id}/seed-saved [post]
func (h *WalletHandler) ConfirmSeedSaved(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.ConfirmSeedSaved() })
}

// SubmitConfirmation handles POST /onboarding/{id}/confirm
// @Summary      Confirm seed words
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Wizard id"
// @Param        request  body      model.ConfirmationRequest  true  "Words at the challenge positions"
// @Success      200      {object}  model.OnboardingState
// @Failure      400      {object}  model.ErrorResponse
// @Router       /onboarding/{id}/confirm [post]
func (h *WalletHandler) SubmitConfirmation(w http.ResponseWriter, r *http.Request) {
	var req model.ConfirmationRequest
	if !decode(w, r, &req) {
		return
	}
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.SubmitConfirmation(req.Words) })
}

// RequestReset handles POST /onboarding/{id}/reset-request
// @Summary      Forgot password
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Router       /onboarding/{id}/reset-request [post]
func (h *WalletHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.RequestReset() })
}

// SubmitReset handles POST /onboarding/{id}/reset
// @Summary      Reset password
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Wizard id"
// @Param        request  body      model.ResetRequest  true  "Mnemonic and new password"
// @Success      200      {object}  model.OnboardingState
// @Failure      400      {object}  model.ErrorResponse
// @Router       /onboarding/{id}/reset [post]
func (h *WalletHandler) SubmitReset(w http.ResponseWriter, r *http.Request) {
	var req model.ResetRequest
	if !decode(w, r, &req) {
		return
	}
	h.step(w, r, func(wz *onboarding.Wizard) error {
		return wz.SubmitReset(r.Context(), req.Mnemonic, req.Password, req.Confirm)
	})
}

// Back handles POST /onboarding/{id}/back
// @Summary      Previous step
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Router       /onboarding/{id}/back [post]
func (h *WalletHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.Back() })
}

// Close handles POST /onboarding/{id}/close
// @Summary      Close view-only wizard
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard id"
// @Success      200  {object}  model.OnboardingState
// @Router       /onboarding/{id}/close [post]
func (h *WalletHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(wz *onboarding.Wizard) error { return wz.Close() })
}

// EncryptSecret handles POST /secrets/encrypt
// @Summary      Encrypt a secret
// @Description  Encrypts text on the encryption network under an access condition, signed by the unlocked wallet
// @Tags         secrets
// @Accept       json
// @Produce      json
// @Param        request  body      model.EncryptSecretRequest  true  "Plaintext and condition"
// @Success      200      {object}  model.EncryptSecretResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      403      {object}  model.ErrorResponse
// @Router       /secrets/encrypt [post]
func (h *WalletHandler) EncryptSecret(w http.ResponseWriter, r *http.Request) {
	var req model.EncryptSecretRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Condition.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeBadRequest})
		return
	}
	ct, err := h.svc.EncryptSecret(r.Context(), []byte(req.Plaintext), req.Condition)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EncryptSecretResponse{Ciphertext: base64.StdEncoding.EncodeToString(ct)})
}

// DecryptSecret handles POST /secrets/decrypt
// @Summary      Decrypt a secret
// @Tags         secrets
// @Accept       json
// @Produce      json
// @Param        request  body      model.DecryptSecretRequest  true  "Base64 ciphertext"
// @Success      200      {object}  model.DecryptSecretResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      403      {object}  model.ErrorResponse
// @Router       /secrets/decrypt [post]
func (h *WalletHandler) DecryptSecret(w http.ResponseWriter, r *http.Request) {
	var req model.DecryptSecretRequest
	if !decode(w, r, &req) {
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Ciphertext)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "ciphertext must be base64", Code: model.CodeBadRequest})
		return
	}
	pt, err := h.svc.DecryptSecret(r.Context(), data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.DecryptSecretResponse{Plaintext: string(pt)})
}

func (h *WalletHandler) step(w http.ResponseWriter, r *http.Request, transition func(*onboarding.Wizard) error) {
	st, err := h.svc.Step(r.Context(), chi.URLParam(r, "id"), transition)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// writeError maps domain errors to status codes. Unexpected errors are
// logged and reported without detail.
func (h *WalletHandler) writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, model.CodeInternal
	msg := err.Error()

	switch {
	case onboarding.IsUserInputError(err):
		status, code = http.StatusBadRequest, model.CodeUserInput
	case errors.Is(err, onboarding.ErrBusy):
		status, code = http.StatusConflict, model.CodeBusy
	case errors.Is(err, onboarding.ErrWrongStep), errors.Is(err, onboarding.ErrNoHistory), errors.Is(err, onboarding.ErrFinished):
		status, code = http.StatusConflict, model.CodeWrongStep
	case errors.Is(err, onboarding.ErrWalletExists):
		status, code = http.StatusConflict, model.CodeWalletExists
	case errors.Is(err, onboarding.ErrNoWallet):
		status, code = http.StatusNotFound, model.CodeNoWallet
	case errors.Is(err, onboarding.ErrNoIdentity):
		status, code = http.StatusBadRequest, model.CodeNoIdentity
	case errors.Is(err, identity.ErrIdentityConflict):
		status, code = http.StatusLocked, model.CodeIdentityConflict
	case mismatch.IsMismatchError(err):
		status, code = http.StatusConflict, model.CodeMismatch
	case errors.Is(err, custody.ErrNoWizard):
		status, code = http.StatusNotFound, model.CodeNoWizard
	case errors.Is(err, custody.ErrLocked):
		status, code = http.StatusForbidden, model.CodeLocked
	case errors.Is(err, custody.ErrNoEncryptionService):
		status, code = http.StatusNotImplemented, model.CodeNotConfigured
	default:
		h.log.Error().Err(err).Msg("Request failed")
		msg = "internal error"
	}
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body", Code: model.CodeBadRequest})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
