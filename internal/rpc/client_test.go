// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

// newNode starts a JSON-RPC server answering each method with handler's result.
func newNode(t *testing.T, handler func(method string, params json.RawMessage) (any, *Error)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.Version)

		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = map[string]any{"code": rpcErr.Code, "message": rpcErr.Message}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	cfg := TestnetConfig
	cfg.SorobanRPCURL = srv.URL
	cfg.HorizonURL = ""
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestSendTransaction(t *testing.T) {
	c := newNode(t, func(method string, params json.RawMessage) (any, *Error) {
		assert.Equal(t, "sendTransaction", method)
		var p transactionParams
		require.NoError(t, json.Unmarshal(params, &p))
		assert.Equal(t, "AAAA", p.Transaction)
		return map[string]any{"status": "PENDING", "hash": "abc", "latestLedger": 10}, nil
	})

	resp, err := c.SendTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, SendStatusPending, resp.Status)
	assert.Equal(t, "abc", resp.Hash)
}

func TestSimulateTransactionParsesStringFee(t *testing.T) {
	c := newNode(t, func(method string, _ json.RawMessage) (any, *Error) {
		return map[string]any{
			"transactionData": "data",
			"minResourceFee":  "58181",
			"results":         []map[string]any{{"auth": []string{}, "xdr": "AAAAAQ=="}},
			"latestLedger":    5,
		}, nil
	})

	resp, err := c.SimulateTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, int64(58181), resp.MinResourceFee)
	assert.Equal(t, "data", resp.TransactionData)
	require.Len(t, resp.Results, 1)
}

func TestRPCErrorIsTyped(t *testing.T) {
	c := newNode(t, func(string, json.RawMessage) (any, *Error) {
		return nil, &Error{Code: -32602, Message: "invalid hash"}
	})

	_, err := c.GetTransaction(context.Background(), "zz")
	var rpcErr *Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, "getTransaction", rpcErr.Method)
	assert.False(t, IsTransient(err))
}

func TestServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := TestnetConfig
	cfg.SorobanRPCURL = srv.URL
	c, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = c.SendTransaction(context.Background(), "AAAA")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestGetAccount(t *testing.T) {
	kp := keypair.MustRandom()
	var aid xdr.AccountId
	require.NoError(t, aid.SetAddress(kp.Address()))
	entry, err := xdr.MarshalBase64(xdr.LedgerEntryData{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.AccountEntry{AccountId: aid, SeqNum: 4242},
	})
	require.NoError(t, err)

	c := newNode(t, func(method string, params json.RawMessage) (any, *Error) {
		assert.Equal(t, "getLedgerEntries", method)
		var p ledgerEntriesParams
		require.NoError(t, json.Unmarshal(params, &p))
		require.Len(t, p.Keys, 1)
		return map[string]any{"entries": []map[string]any{{"key": p.Keys[0], "xdr": entry, "lastModifiedLedgerSeq": 3}}, "latestLedger": 9}, nil
	})

	acc, err := c.GetAccount(context.Background(), kp.Address())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), acc.AccountID)
	assert.Equal(t, int64(4242), acc.Sequence)
}

func TestGetAccountNotFound(t *testing.T) {
	c := newNode(t, func(string, json.RawMessage) (any, *Error) {
		return map[string]any{"entries": []any{}, "latestLedger": 9}, nil
	})

	_, err := c.GetAccount(context.Background(), keypair.MustRandom().Address())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCheckNetwork(t *testing.T) {
	c := newNode(t, func(method string, _ json.RawMessage) (any, *Error) {
		switch method {
		case "getNetwork":
			return map[string]any{"passphrase": TestnetConfig.NetworkPassphrase, "protocolVersion": 23}, nil
		case "getVersionInfo":
			return map[string]any{"version": "23.0.4-abcdef", "protocolVersion": 23}, nil
		}
		return nil, &Error{Code: -32601, Message: "method not found"}
	})

	info, err := c.CheckNetwork(context.Background(), "22.0.0")
	require.NoError(t, err)
	assert.Equal(t, uint32(23), info.ProtocolVersion)

	_, err = c.CheckNetwork(context.Background(), "24.0.0")
	assert.ErrorContains(t, err, "older than required")
}

func TestCheckNetworkPassphraseMismatch(t *testing.T) {
	c := newNode(t, func(string, json.RawMessage) (any, *Error) {
		return map[string]any{"passphrase": MainnetConfig.NetworkPassphrase}, nil
	})

	_, err := c.CheckNetwork(context.Background(), "")
	assert.ErrorContains(t, err, "configured for")
}

func TestPreset(t *testing.T) {
	cfg, err := Preset("public")
	require.NoError(t, err)
	assert.Equal(t, MainnetConfig, cfg)

	_, err = Preset("devnet")
	assert.Error(t, err)
}
