// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package escrow drives the escrow and deployer contracts through the
// transaction pipeline and maps their results to domain records.
package escrow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/amount"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/txn"
	"github.com/stellar/go/keypair"
)

// Executor runs transactions. *txn.Pipeline implements it.
type Executor interface {
	Execute(ctx context.Context, kp *keypair.Full, ops ...txn.Operation) (*txn.FinalityResult, error)
	BuildUnsigned(ctx context.Context, source string, ops ...txn.Operation) (string, error)
	SubmitSigned(ctx context.Context, signedXDR string) (*txn.FinalityResult, error)
}

// Settings names the deployed contracts and the token they move.
type Settings struct {
	// ContractID is the escrow contract; also passed to the contract as
	// the custody address for fund, complete and refund.
	ContractID string
	// DeployerID is the contract that deploys and initializes escrows.
	DeployerID string
	// TokenID is the token contract the escrow holds.
	TokenID string
	// IssuerAddress is recorded as issuer on every new escrow.
	IssuerAddress string
	// WasmHash is the hex hash of the installed escrow contract code.
	WasmHash string
	// TrustAssetCode and TrustAssetIssuer name the classic asset backing
	// TokenID, for trustlines.
	TrustAssetCode   string
	TrustAssetIssuer string
	// Scale converts between decimal amounts and token units.
	Scale amount.Scale
}

// Service exposes the escrow flows. Write flows addressed to an end user
// return unsigned envelope XDR for the user to sign; read flows and
// deployment are signed by the service wallet.
type Service struct {
	exec     Executor
	settings Settings
	wallet   *keypair.Full
	rand     io.Reader
}

// NewService returns a service. wallet may be nil when only unsigned
// flows are used.
func NewService(exec Executor, settings Settings, wallet *keypair.Full) *Service {
	return &Service{exec: exec, settings: settings, wallet: wallet, rand: rand.Reader}
}

// InitParams describes a new escrow.
type InitParams struct {
	// Contract overrides Settings.ContractID.
	Contract        string
	EngagementID    string
	Description     string
	ServiceProvider string
	Amount          string
	Signer          string
}

// Call addresses an existing escrow.
type Call struct {
	// Contract overrides Settings.ContractID.
	Contract     string
	EngagementID string
	Signer       string
}

func (s *Service) contract(override string) string {
	if override != "" {
		return override
	}
	return s.settings.ContractID
}

func (s *Service) initArgs(p InitParams) ([]scval.Value, error) {
	if p.EngagementID == "" {
		return nil, &txn.AssemblyError{Reason: "engagement id is required"}
	}
	units, err := s.settings.Scale.ToMicro(p.Amount)
	if err != nil {
		return nil, &txn.AssemblyError{Reason: "invalid amount", Err: err}
	}
	price, err := scval.U128FromBig(units)
	if err != nil {
		return nil, &txn.AssemblyError{Reason: "invalid amount", Err: err}
	}
	return []scval.Value{
		scval.String(p.EngagementID),
		scval.String(p.Description),
		scval.Address(s.settings.IssuerAddress),
		scval.Address(p.ServiceProvider),
		price,
		scval.Address(p.Signer),
	}, nil
}

// Initialize builds an unsigned initialize_escrow envelope for p.Signer.
func (s *Service) Initialize(ctx context.Context, p InitParams) (string, error) {
	args, err := s.initArgs(p)
	if err != nil {
		return "", err
	}
	return s.exec.BuildUnsigned(ctx, p.Signer, txn.Invocation{
		Contract: s.contract(p.Contract),
		Function: "initialize_escrow",
		Args:     args,
	})
}

// Fund builds an unsigned fund_escrow envelope.
func (s *Service) Fund(ctx context.Context, c Call) (string, error) {
	return s.custody(ctx, "fund_escrow", c)
}

// Complete builds an unsigned complete_escrow envelope.
func (s *Service) Complete(ctx context.Context, c Call) (string, error) {
	return s.custody(ctx, "complete_escrow", c)
}

// Refund builds an unsigned refund_remaining_funds envelope.
func (s *Service) Refund(ctx context.Context, c Call) (string, error) {
	return s.custody(ctx, "refund_remaining_funds", c)
}

// Cancel builds an unsigned cancel_escrow envelope.
func (s *Service) Cancel(ctx context.Context, c Call) (string, error) {
	return s.exec.BuildUnsigned(ctx, c.Signer, txn.Invocation{
		Contract: s.contract(c.Contract),
		Function: "cancel_escrow",
		Args:     []scval.Value{scval.String(c.EngagementID), scval.Address(c.Signer)},
	})
}

// custody builds a call that moves tokens between the signer and the
// escrow contract.
func (s *Service) custody(ctx context.Context, fn string, c Call) (string, error) {
	return s.exec.BuildUnsigned(ctx, c.Signer, txn.Invocation{
		Contract: s.contract(c.Contract),
		Function: fn,
		Args: []scval.Value{
			scval.String(c.EngagementID),
			scval.Address(c.Signer),
			scval.Address(s.settings.TokenID),
			scval.Address(s.settings.ContractID),
		},
	})
}

// Get reads an escrow by engagement id.
func (s *Service) Get(ctx context.Context, contract, engagementID string) (*Escrow, error) {
	res, err := s.read(ctx, txn.Invocation{
		Contract: s.contract(contract),
		Function: "get_escrow_by_id",
		Args:     []scval.Value{scval.String(engagementID)},
	})
	if err != nil {
		return nil, err
	}
	data, err := res.LastEvent()
	if err != nil {
		return nil, err
	}
	return DecodeEscrow(data, s.settings.Scale)
}

// Balance reads the token balance of address.
func (s *Service) Balance(ctx context.Context, address string) (amount.Decimal, error) {
	return s.readAmount(ctx, txn.Invocation{
		Contract: s.settings.ContractID,
		Function: "get_balance",
		Args:     []scval.Value{scval.Address(address), scval.Address(s.settings.TokenID)},
	})
}

// Allowance reads how much spender may move on behalf of from.
func (s *Service) Allowance(ctx context.Context, from, spender string) (amount.Decimal, error) {
	return s.readAmount(ctx, txn.Invocation{
		Contract: s.settings.ContractID,
		Function: "get_allowance",
		Args: []scval.Value{
			scval.Address(from),
			scval.Address(spender),
			scval.Address(s.settings.TokenID),
		},
	})
}

func (s *Service) readAmount(ctx context.Context, inv txn.Invocation) (amount.Decimal, error) {
	res, err := s.read(ctx, inv)
	if err != nil {
		return amount.Decimal{}, err
	}
	data, err := res.LastEvent()
	if err != nil {
		return amount.Decimal{}, err
	}
	return DecodeAmount(data, s.settings.Scale)
}

// Approve lets spender move amount on behalf of from. The service wallet
// signs and is passed to the contract as the paying wallet.
func (s *Service) Approve(ctx context.Context, from, spender, value string) (*txn.FinalityResult, error) {
	if s.wallet == nil {
		return nil, errNoWallet
	}
	hi, lo, err := s.settings.Scale.ToI128(value)
	if err != nil {
		return nil, &txn.AssemblyError{Reason: "invalid amount", Err: err}
	}
	return s.exec.Execute(ctx, s.wallet, txn.Invocation{
		Contract: s.settings.ContractID,
		Function: "approve_amounts",
		Args: []scval.Value{
			scval.Address(from),
			scval.Address(spender),
			scval.I128{Hi: hi, Lo: lo},
			scval.Address(s.settings.TokenID),
			scval.Address(s.wallet.Address()),
		},
	})
}

// EstablishTrustline adds a trustline to the configured asset for kp's
// account, signed by kp.
func (s *Service) EstablishTrustline(ctx context.Context, kp *keypair.Full) (*txn.FinalityResult, error) {
	return s.exec.Execute(ctx, kp, txn.ChangeTrust{
		Code:   s.settings.TrustAssetCode,
		Issuer: s.settings.TrustAssetIssuer,
	})
}

// Deploy creates and initializes a new escrow contract through the
// deployer, signed by the service wallet.
func (s *Service) Deploy(ctx context.Context, p InitParams) (*Deployment, error) {
	if s.wallet == nil {
		return nil, errNoWallet
	}
	wasm, err := hex.DecodeString(s.settings.WasmHash)
	if err != nil || len(wasm) != 32 {
		return nil, &txn.AssemblyError{Reason: "wasm hash must be 32 hex-encoded bytes"}
	}
	args, err := s.initArgs(p)
	if err != nil {
		return nil, err
	}
	salt := make([]byte, 32)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	res, err := s.exec.Execute(ctx, s.wallet, txn.Invocation{
		Contract: s.settings.DeployerID,
		Function: "deploy",
		Args: []scval.Value{
			scval.Bytes(wasm),
			scval.Bytes(salt),
			scval.Symbol("initialize_escrow"),
			scval.Vec(args),
		},
	})
	if err != nil {
		return nil, err
	}
	ret, err := res.ReturnValue()
	if err != nil {
		return nil, err
	}
	dep, err := DecodeDeployment(ret)
	if err != nil {
		return nil, err
	}
	logger.Logger.Info("Escrow deployed", "contract", dep.ContractID, "engagement", dep.EngagementID, "hash", res.Hash)
	return dep, nil
}

// SubmitSigned submits an envelope the user signed and waits for it.
func (s *Service) SubmitSigned(ctx context.Context, signedXDR string) (*txn.FinalityResult, error) {
	return s.exec.SubmitSigned(ctx, signedXDR)
}

// read runs a view call signed by the service wallet. The contract reports
// results through events, so the call is submitted like any other.
func (s *Service) read(ctx context.Context, inv txn.Invocation) (*txn.FinalityResult, error) {
	if s.wallet == nil {
		return nil, errNoWallet
	}
	return s.exec.Execute(ctx, s.wallet, inv)
}

var errNoWallet = &txn.AssemblyError{Reason: "service wallet is not configured"}
