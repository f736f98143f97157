package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlexZinkM/seedkeeper/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) (*BackendClient, *[]model.RegisterKeyRequest) {
	t.Helper()
	var registered []model.RegisterKeyRequest

	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Signature != "0x0102" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(model.Tokens{AccessToken: "access-" + req.Address, RefreshToken: "refresh"})
	})
	r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req model.RefreshRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken == "boom" {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(model.ErrorResponse{Error: "upstream down"})
			return
		}
		json.NewEncoder(w).Encode(model.Tokens{AccessToken: "access-2", RefreshToken: "refresh-2"})
	})
	r.Post("/wallet/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req model.RegisterKeyRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		registered = append(registered, req)
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/wallet/registered/{accountID}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "accountID")
		if id != "42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(model.RegisteredAddressResponse{AccountID: id, Address: "0xabc"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewBackendClient(srv.URL+"/", time.Second), &registered
}

func TestLoginWithSignature(t *testing.T) {
	c, _ := newBackend(t)

	tokens, err := c.LoginWithSignature(context.Background(), "0xabc", "login", []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, "access-0xabc", tokens.AccessToken)

	_, err = c.LoginWithSignature(context.Background(), "0xabc", "login", []byte{9})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.False(t, IsTransientError(err))
}

func TestRefreshToken(t *testing.T) {
	c, _ := newBackend(t)

	tokens, err := c.RefreshToken(context.Background(), "refresh")
	require.NoError(t, err)
	require.Equal(t, "refresh-2", tokens.RefreshToken)

	_, err = c.RefreshToken(context.Background(), "boom")
	require.Error(t, err)
	require.True(t, IsTransientError(err))
	require.Contains(t, err.Error(), "upstream down")
}

func TestRegisterPublicKey(t *testing.T) {
	c, registered := newBackend(t)

	req := model.RegisterKeyRequest{Address: "0xabc", PublicKey: "0x04", Chain: "evm", Signature: "0x01"}
	require.NoError(t, c.RegisterPublicKey(context.Background(), "good", req))
	require.Equal(t, []model.RegisterKeyRequest{req}, *registered)

	require.ErrorIs(t, c.RegisterPublicKey(context.Background(), "bad", req), ErrUnauthorized)
}

func TestGetRegisteredAddress(t *testing.T) {
	c, _ := newBackend(t)

	addr, err := c.GetRegisteredAddress(context.Background(), "good", "42")
	require.NoError(t, err)
	require.Equal(t, "0xabc", addr)

	addr, err = c.GetRegisteredAddress(context.Background(), "good", "7")
	require.NoError(t, err)
	require.Empty(t, addr)
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewBackendClient(url, time.Second)
	_, err := c.LoginWithSignature(context.Background(), "0xabc", "login", []byte{1})
	require.True(t, IsTransientError(err))

	var te *TransientError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "failed to login", te.Op)
}
