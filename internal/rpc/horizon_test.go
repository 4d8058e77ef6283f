// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHorizon starts a Horizon server that knows one account.
func newHorizon(t *testing.T, known string, sequence string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := strings.TrimPrefix(r.URL.Path, "/accounts/")
		if r.Method != http.MethodGet || id != known {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"type":   "https://stellar.org/horizon-errors/not_found",
				"title":  "Resource Missing",
				"status": 404,
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         known,
			"account_id": known,
			"sequence":   sequence,
		})
	}))
	t.Cleanup(srv.Close)

	cfg := TestnetConfig
	cfg.SorobanRPCURL = "http://127.0.0.1:1"
	cfg.HorizonURL = srv.URL
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestHorizonAccounts(t *testing.T) {
	addr := keypair.MustRandom().Address()
	c := newHorizon(t, addr, "4294967301")

	loader, err := c.Accounts(AccountSourceHorizon)
	require.NoError(t, err)
	require.IsType(t, HorizonAccounts{}, loader)

	acc, err := loader.GetAccount(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, addr, acc.AccountID)
	assert.Equal(t, int64(4294967301), acc.Sequence)
}

func TestHorizonAccountsNotFound(t *testing.T) {
	c := newHorizon(t, keypair.MustRandom().Address(), "1")

	loader, err := c.Accounts(AccountSourceHorizon)
	require.NoError(t, err)

	_, err = loader.GetAccount(context.Background(), keypair.MustRandom().Address())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountsSelection(t *testing.T) {
	c, err := NewClient(NetworkConfig{
		NetworkPassphrase: TestnetConfig.NetworkPassphrase,
		SorobanRPCURL:     "http://127.0.0.1:1",
	})
	require.NoError(t, err)

	for _, source := range []string{"", AccountSourceRPC} {
		loader, err := c.Accounts(source)
		require.NoError(t, err)
		assert.Same(t, c, loader)
	}

	_, err = c.Accounts(AccountSourceHorizon)
	assert.ErrorContains(t, err, "horizon url")

	_, err = c.Accounts("ledger")
	assert.ErrorContains(t, err, "unknown account source")
}
