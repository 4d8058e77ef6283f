// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/amount"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TRUSTLESS_"

// Load builds the configuration from defaults, the optional .env files
// (".env" when none are named), the optional YAML file at path and
// TRUSTLESS_* environment variables, in that order, then validates it.
// ${VAR} references in the YAML file are expanded from the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.resolveNetwork(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"NETWORK":            &c.Network.Name,
		"RPC_URL":            &c.Network.SorobanRPCURL,
		"HORIZON_URL":        &c.Network.HorizonURL,
		"NETWORK_PASSPHRASE": &c.Network.NetworkPassphrase,
		"ACCOUNT_SOURCE":     &c.Network.AccountSource,
		"MIN_RPC_VERSION":    &c.MinRPCVersion,
		"CONTRACT_ID":        &c.Escrow.ContractID,
		"DEPLOYER_ID":        &c.Escrow.DeployerID,
		"TOKEN_ID":           &c.Escrow.TokenID,
		"ISSUER_ADDRESS":     &c.Escrow.IssuerAddress,
		"WASM_HASH":          &c.Escrow.WasmHash,
		"TRUST_ASSET_CODE":   &c.Escrow.TrustAssetCode,
		"TRUST_ASSET_ISSUER": &c.Escrow.TrustAssetIssuer,
		"LOG_LEVEL":          &c.Log.Level,
		"OTLP_ENDPOINT":      &c.Telemetry.Endpoint,
		"METRICS_LISTEN":     &c.Metrics.Listen,
		"WALLET_SECRET":      &c.WalletSecret,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_POLL_ATTEMPTS":  &c.Tx.MaxPollAttempts,
		"TOKEN_DECIMALS":     &c.Escrow.TokenDecimals,
		"RETRY_MAX_ATTEMPTS": &c.Retry.MaxAttempts,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "BASE_FEE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sBASE_FEE: %w", envPrefix, err)
		}
		c.Tx.BaseFee = n
	}

	durations := map[string]*time.Duration{
		"TIMEOUT":       &c.Tx.Timeout,
		"POLL_INTERVAL": &c.Tx.PollInterval,
		"POLL_TIMEOUT":  &c.Tx.PollTimeout,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
	}
	return nil
}

// resolveNetwork fills unset network fields from the named preset. Custom
// network names must set every field themselves.
func (c *Config) resolveNetwork() error {
	preset, err := rpc.Preset(c.Network.Name)
	if err != nil {
		logger.Logger.Debug("Using custom network", "name", c.Network.Name)
		return nil
	}
	if c.Network.SorobanRPCURL == "" {
		c.Network.SorobanRPCURL = preset.SorobanRPCURL
	}
	if c.Network.HorizonURL == "" {
		c.Network.HorizonURL = preset.HorizonURL
	}
	if c.Network.NetworkPassphrase == "" {
		c.Network.NetworkPassphrase = preset.NetworkPassphrase
	}
	return nil
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Network.NetworkPassphrase == "" {
		errs = append(errs, errors.New("network passphrase is required"))
	}
	if u, err := url.Parse(c.Network.SorobanRPCURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid rpc url %q", c.Network.SorobanRPCURL))
	}
	switch c.Network.AccountSource {
	case "", rpc.AccountSourceRPC:
	case rpc.AccountSourceHorizon:
		if c.Network.HorizonURL == "" {
			errs = append(errs, errors.New("account source horizon requires network.horizon_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown account source %q", c.Network.AccountSource))
	}
	if c.Tx.BaseFee < 100 {
		errs = append(errs, fmt.Errorf("base fee %d is below the network minimum of 100", c.Tx.BaseFee))
	}
	if c.Tx.Timeout < time.Second {
		errs = append(errs, fmt.Errorf("timeout %s must be at least 1s", c.Tx.Timeout))
	}
	if c.Tx.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.Tx.MaxPollAttempts < 0 || c.Tx.PollTimeout < 0 {
		errs = append(errs, errors.New("poll bounds must not be negative"))
	}
	if c.Tx.MaxPollAttempts == 0 && c.Tx.PollTimeout == 0 {
		errs = append(errs, errors.New("polling needs max_poll_attempts or poll_timeout"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry max attempts must be at least 1"))
	}
	if _, err := amount.NewScale(c.Escrow.TokenDecimals); err != nil {
		errs = append(errs, err)
	}
	for name, addr := range map[string]string{
		"contract_id":        c.Escrow.ContractID,
		"deployer_id":        c.Escrow.DeployerID,
		"token_id":           c.Escrow.TokenID,
		"issuer_address":     c.Escrow.IssuerAddress,
		"trust_asset_issuer": c.Escrow.TrustAssetIssuer,
	} {
		if addr != "" && !scval.ValidAddress(addr) {
			errs = append(errs, fmt.Errorf("escrow.%s %q is not a valid address", name, addr))
		}
	}
	if c.Escrow.WasmHash != "" {
		if b, err := hex.DecodeString(c.Escrow.WasmHash); err != nil || len(b) != 32 {
			errs = append(errs, errors.New("escrow.wasm_hash must be 64 hex characters"))
		}
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
