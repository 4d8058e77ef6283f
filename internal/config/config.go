// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package config loads the process configuration. A *Config is built once
// at startup and passed to constructors; nothing reads the environment
// after Load returns.
package config

import (
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/amount"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/escrow"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/telemetry"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/txn"
)

type Config struct {
	Network       rpc.NetworkConfig `yaml:"network"`
	MinRPCVersion string            `yaml:"min_rpc_version"`
	Tx            TxConfig          `yaml:"tx"`
	Retry         RetryConfig       `yaml:"retry"`
	Escrow        EscrowConfig      `yaml:"escrow"`
	Log           LogConfig         `yaml:"log"`
	Telemetry     telemetry.Config  `yaml:"telemetry"`
	Metrics       MetricsConfig     `yaml:"metrics"`

	// WalletSecret signs read calls, approvals and deployments. It is only
	// taken from the environment.
	WalletSecret string `yaml:"-"`
}

type TxConfig struct {
	BaseFee         int64         `yaml:"base_fee"`
	Timeout         time.Duration `yaml:"timeout"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxPollAttempts int           `yaml:"max_poll_attempts"`
	PollTimeout     time.Duration `yaml:"poll_timeout"`
}

type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

type EscrowConfig struct {
	ContractID       string `yaml:"contract_id"`
	DeployerID       string `yaml:"deployer_id"`
	TokenID          string `yaml:"token_id"`
	IssuerAddress    string `yaml:"issuer_address"`
	WasmHash         string `yaml:"wasm_hash"`
	TrustAssetCode   string `yaml:"trust_asset_code"`
	TrustAssetIssuer string `yaml:"trust_asset_issuer"`
	// TokenDecimals is the token's declared precision; every amount
	// crossing the boundary is scaled by 10^TokenDecimals.
	TokenDecimals int `yaml:"token_decimals"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	// Listen, when set, serves /metrics on this address while a command runs.
	Listen string `yaml:"listen"`
}

// Default returns the built-in configuration: testnet, a 100 stroop base
// fee, 30s envelope timeout, 1s polling bounded by 30 attempts and 60s,
// 7 token decimals and 3 transport attempts.
func Default() *Config {
	return &Config{
		Network:       rpc.NetworkConfig{Name: "testnet"},
		MinRPCVersion: "21.0.0",
		Tx: TxConfig{
			BaseFee:         txn.DefaultBaseFee,
			Timeout:         txn.DefaultTimeout,
			PollInterval:    txn.DefaultPollInterval,
			MaxPollAttempts: txn.DefaultMaxPollAttempts,
			PollTimeout:     txn.DefaultPollTimeout,
		},
		Retry: RetryConfig{
			MaxAttempts:     txn.DefaultRetryPolicy.MaxAttempts,
			InitialInterval: txn.DefaultRetryPolicy.InitialInterval,
			MaxInterval:     txn.DefaultRetryPolicy.MaxInterval,
		},
		Escrow: EscrowConfig{
			TrustAssetCode: "USDC",
			TokenDecimals:  amount.DefaultDecimals,
		},
		Log:       LogConfig{Level: "info"},
		Telemetry: telemetry.Config{ServiceName: "trustless"},
	}
}

// TxOptions returns the pipeline options.
func (c *Config) TxOptions() txn.Options {
	return txn.Options{
		NetworkPassphrase: c.Network.NetworkPassphrase,
		BaseFee:           c.Tx.BaseFee,
		Timeout:           c.Tx.Timeout,
		PollInterval:      c.Tx.PollInterval,
		MaxPollAttempts:   c.Tx.MaxPollAttempts,
		PollTimeout:       c.Tx.PollTimeout,
		Retry: txn.RetryPolicy{
			MaxAttempts:     c.Retry.MaxAttempts,
			InitialInterval: c.Retry.InitialInterval,
			MaxInterval:     c.Retry.MaxInterval,
		},
	}
}

// EscrowSettings returns the escrow service settings. The config must have
// passed Validate.
func (c *Config) EscrowSettings() escrow.Settings {
	return escrow.Settings{
		ContractID:       c.Escrow.ContractID,
		DeployerID:       c.Escrow.DeployerID,
		TokenID:          c.Escrow.TokenID,
		IssuerAddress:    c.Escrow.IssuerAddress,
		WasmHash:         c.Escrow.WasmHash,
		TrustAssetCode:   c.Escrow.TrustAssetCode,
		TrustAssetIssuer: c.Escrow.TrustAssetIssuer,
		Scale:            amount.MustScale(c.Escrow.TokenDecimals),
	}
}
