package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/seedkeeper/internal/model"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const defaultBackendTimeout = 15 * time.Second

// ErrUnauthorized is returned when the backend rejects the access token or
// the login signature.
var ErrUnauthorized = errors.New("unauthorized")

// TransientError is a network failure or a 5xx answer. Callers treat it as
// retryable and never roll back local wallet state because of it.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransientError checks if err is a transient network error
func IsTransientError(err error) bool {
	var e *TransientError
	return errors.As(err, &e)
}

// BackendClient client for the backend account API
type BackendClient struct {
	baseURL string
	client  *http.Client
}

// NewBackendClient creates a new backend client. A zero timeout selects the
// default of 15 seconds.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}
	return &BackendClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoginWithSignature exchanges a signed login message for session tokens.
func (c *BackendClient) LoginWithSignature(ctx context.Context, address, message string, signature []byte) (*model.Tokens, error) {
	req := model.LoginRequest{
		Address:   address,
		Message:   message,
		Signature: hexutil.Encode(signature),
	}
	var tokens model.Tokens
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", req, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, errors.New("failed to login: empty access token")
	}
	return &tokens, nil
}

// RefreshToken rotates the session tokens.
func (c *BackendClient) RefreshToken(ctx context.Context, refreshToken string) (*model.Tokens, error) {
	var tokens model.Tokens
	err := c.do(ctx, "refresh token", http.MethodPost, "/auth/refresh", "", model.RefreshRequest{RefreshToken: refreshToken}, &tokens)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// RegisterPublicKey records the wallet's public key, and optionally the
// escrowed password blob, for the authenticated account.
func (c *BackendClient) RegisterPublicKey(ctx context.Context, accessToken string, req model.RegisterKeyRequest) error {
	return c.do(ctx, "register public key", http.MethodPost, "/wallet/register", accessToken, req, nil)
}

// GetRegisteredAddress returns the address the backend holds for accountID,
// or "" when none is registered.
func (c *BackendClient) GetRegisteredAddress(ctx context.Context, accessToken, accountID string) (string, error) {
	var resp model.RegisteredAddressResponse
	err := c.do(ctx, "get registered address", http.MethodGet, "/wallet/registered/"+url.PathEscape(accountID), accessToken, nil, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return resp.Address, nil
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("status %d", e.status)
	}
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func (c *BackendClient) do(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to %s: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransientError{Op: "failed to " + op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("failed to %s: %w", op, ErrUnauthorized)
	case resp.StatusCode >= 500:
		return &TransientError{Op: "failed to " + op, Err: readStatus(resp)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("failed to %s: %w", op, readStatus(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

func readStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	var er model.ErrorResponse
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	return &statusError{status: resp.StatusCode, body: msg}
}
