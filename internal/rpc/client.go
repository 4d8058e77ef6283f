// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/metrics"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/telemetry"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/stellar/go/clients/horizonclient"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NetworkConfig represents a Stellar network configuration
type NetworkConfig struct {
	Name              string `yaml:"name"`
	HorizonURL        string `yaml:"horizon_url"`
	NetworkPassphrase string `yaml:"passphrase"`
	SorobanRPCURL     string `yaml:"rpc_url"`
	// AccountSource selects where sequence numbers are loaded from:
	// AccountSourceRPC (default) or AccountSourceHorizon.
	AccountSource string `yaml:"account_source"`
}

// Predefined network configurations
var (
	TestnetConfig = NetworkConfig{
		Name:              "testnet",
		HorizonURL:        "https://horizon-testnet.stellar.org/",
		NetworkPassphrase: "Test SDF Network ; September 2015",
		SorobanRPCURL:     "https://soroban-testnet.stellar.org",
	}

	MainnetConfig = NetworkConfig{
		Name:              "mainnet",
		HorizonURL:        "https://horizon.stellar.org/",
		NetworkPassphrase: "Public Global Stellar Network ; September 2015",
		SorobanRPCURL:     "https://mainnet.sorobanrpc.com",
	}

	FuturenetConfig = NetworkConfig{
		Name:              "futurenet",
		HorizonURL:        "https://horizon-futurenet.stellar.org/",
		NetworkPassphrase: "Test SDF Future Network ; October 2022",
		SorobanRPCURL:     "https://rpc-futurenet.stellar.org",
	}
)

// Preset returns the predefined configuration for a network name.
func Preset(name string) (NetworkConfig, error) {
	switch name {
	case "testnet":
		return TestnetConfig, nil
	case "mainnet", "public":
		return MainnetConfig, nil
	case "futurenet":
		return FuturenetConfig, nil
	default:
		return NetworkConfig{}, fmt.Errorf("unknown network: %s (use 'testnet', 'mainnet', or 'futurenet')", name)
	}
}

// Client handles interactions with a Soroban RPC node and, when configured,
// the network's Horizon server.
type Client struct {
	Horizon *horizonclient.Client
	Config  NetworkConfig

	http    *http.Client
	metrics *metrics.Metrics
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for RPC calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithMetrics records per-call metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new RPC client for the given network
func NewClient(config NetworkConfig, opts ...Option) (*Client, error) {
	if config.SorobanRPCURL == "" {
		return nil, fmt.Errorf("soroban rpc URL is required")
	}
	if config.NetworkPassphrase == "" {
		return nil, fmt.Errorf("network passphrase is required")
	}

	c := &Client{
		Config: config,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if config.HorizonURL != "" {
		c.Horizon = &horizonclient.Client{
			HorizonURL: config.HorizonURL,
			HTTP:       c.http,
		}
	}
	return c, nil
}

// GetNetworkPassphrase returns the network passphrase for this client
func (c *Client) GetNetworkPassphrase() string {
	return c.Config.NetworkPassphrase
}

// call performs one JSON-RPC 2.0 request and decodes its result into out.
func (c *Client) call(ctx context.Context, method string, params, out any) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "rpc."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("rpc.method", method)))
	start := time.Now()
	defer func() {
		c.metrics.ObserveRPC(method, start, err)
		telemetry.End(span, err)
	}()

	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.SorobanRPCURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Logger.Debug("Sending RPC request", "method", method)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &TransportError{Method: method, Err: err}
		}
		return fmt.Errorf("%s: %w", method, err)
	}

	if err := json2.DecodeClientResponse(resp.Body, out); err != nil {
		var rpcErr *json2.Error
		if errors.As(err, &rpcErr) {
			return &Error{Method: method, Code: int(rpcErr.Code), Message: rpcErr.Message}
		}
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	return nil
}
