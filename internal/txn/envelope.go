// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"errors"
	"fmt"
	"time"

	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

const (
	// DefaultTimeout bounds how long an assembled envelope stays valid.
	DefaultTimeout = 30 * time.Second
	// DefaultBaseFee is the inclusion fee floor in stroops.
	DefaultBaseFee = txnbuild.MinBaseFee
)

var (
	ErrEnvelopeSubmitted = errors.New("envelope already submitted")
	ErrEnvelopeSigned    = errors.New("envelope already signed")
)

// Envelope is a transaction under construction. It is owned by a single
// flow: Prepare and Sign mutate it in place, and it is frozen once Submit
// has sent it.
type Envelope struct {
	source     string
	sequence   int64
	baseFee    int64
	passphrase string
	timeout    time.Duration
	operations []Operation
	built      []txnbuild.Operation

	resourceFee int64
	prepared    bool
	submitted   bool
	tx          *txnbuild.Transaction
}

// AssembleOption overrides a per-envelope default.
type AssembleOption func(*Envelope)

// WithFee sets the base fee in stroops. Values below the network minimum
// are raised to it.
func WithFee(fee int64) AssembleOption {
	return func(e *Envelope) {
		if fee <= 0 {
			return
		}
		if fee < DefaultBaseFee {
			fee = DefaultBaseFee
		}
		e.baseFee = fee
	}
}

// WithTimeout sets how long the envelope stays valid after assembly. The
// ledger works in whole seconds, so shorter values are ignored.
func WithTimeout(d time.Duration) AssembleOption {
	return func(e *Envelope) {
		if d >= time.Second {
			e.timeout = d
		}
	}
}

// Assembler produces unsigned envelopes for one network.
type Assembler struct {
	passphrase string
	baseFee    int64
	timeout    time.Duration
}

// NewAssembler returns an assembler with the given defaults; zero values
// fall back to DefaultBaseFee and DefaultTimeout.
func NewAssembler(passphrase string, baseFee int64, timeout time.Duration) Assembler {
	if baseFee < DefaultBaseFee {
		baseFee = DefaultBaseFee
	}
	if timeout < time.Second {
		timeout = DefaultTimeout
	}
	return Assembler{passphrase: passphrase, baseFee: baseFee, timeout: timeout}
}

// Assemble builds an unsigned envelope for account. The account must carry
// the current ledger sequence number; the envelope uses the next one.
func (a Assembler) Assemble(account txnbuild.SimpleAccount, ops []Operation, opts ...AssembleOption) (*Envelope, error) {
	if a.passphrase == "" {
		return nil, &AssemblyError{Reason: "network passphrase is not configured"}
	}
	if len(ops) == 0 {
		return nil, &AssemblyError{Reason: "no operations"}
	}
	var aid xdr.AccountId
	if err := aid.SetAddress(account.AccountID); err != nil {
		return nil, &AssemblyError{Reason: "invalid source account", Err: err}
	}

	env := &Envelope{
		source:     account.AccountID,
		sequence:   account.Sequence,
		baseFee:    a.baseFee,
		passphrase: a.passphrase,
		timeout:    a.timeout,
		operations: append([]Operation(nil), ops...),
	}
	for _, opt := range opts {
		opt(env)
	}

	invocations := 0
	for i, op := range ops {
		built, err := op.build()
		if err != nil {
			return nil, &AssemblyError{Reason: fmt.Sprintf("operation %d (%s)", i, op.Name()), Err: err}
		}
		if isInvocation(built) {
			invocations++
		}
		env.built = append(env.built, built)
	}
	if invocations > 0 && len(ops) > 1 {
		return nil, &AssemblyError{Reason: "a contract invocation must be the only operation in its envelope"}
	}

	if err := env.build(); err != nil {
		return nil, err
	}
	return env, nil
}

// build (re)creates the transaction from the sequence snapshot, so repeated
// builds always target the same sequence number. txnbuild adds the resource
// fee of attached soroban data to the base fee.
func (e *Envelope) build() error {
	account := txnbuild.SimpleAccount{AccountID: e.source, Sequence: e.sequence}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		Operations:           e.built,
		BaseFee:              e.baseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(int64(e.timeout / time.Second)),
		},
	})
	if err != nil {
		return &AssemblyError{Reason: "build transaction", Err: err}
	}
	e.tx = tx
	return nil
}

// EnvelopeFromXDR wraps an externally built (and usually externally signed)
// transaction so it can be submitted and polled.
func EnvelopeFromXDR(b64, passphrase string) (*Envelope, error) {
	generic, err := txnbuild.TransactionFromXDR(b64)
	if err != nil {
		return nil, &AssemblyError{Reason: "parse transaction envelope", Err: err}
	}
	tx, ok := generic.Transaction()
	if !ok {
		return nil, &AssemblyError{Reason: "fee-bump envelopes are not supported"}
	}
	return &Envelope{
		source:     tx.SourceAccount().AccountID,
		sequence:   tx.SequenceNumber() - 1,
		baseFee:    tx.BaseFee(),
		passphrase: passphrase,
		prepared:   true,
		tx:         tx,
	}, nil
}

// Source is the account that pays for and sequences the envelope.
func (e *Envelope) Source() string { return e.source }

// Sequence is the sequence number the transaction will consume.
func (e *Envelope) Sequence() int64 { return e.tx.SequenceNumber() }

// Fee is the maximum total fee in stroops, including any resource fee
// merged in by Prepare.
func (e *Envelope) Fee() int64 { return e.tx.MaxFee() }

// ResourceFee is the simulated resource fee merged in by Prepare.
func (e *Envelope) ResourceFee() int64 { return e.resourceFee }

// Operations returns the operations the envelope was assembled from. It is
// empty for envelopes parsed from XDR.
func (e *Envelope) Operations() []Operation { return append([]Operation(nil), e.operations...) }

// Signatures returns the number of signatures attached.
func (e *Envelope) Signatures() int { return len(e.tx.Signatures()) }

// Prepared reports whether simulation results have been merged in.
func (e *Envelope) Prepared() bool { return e.prepared }

// Submitted reports whether the envelope has been sent to the node.
func (e *Envelope) Submitted() bool { return e.submitted }

// Hash returns the hex transaction hash for the envelope's network.
func (e *Envelope) Hash() (string, error) {
	return e.tx.HashHex(e.passphrase)
}

// Base64 returns the envelope XDR.
func (e *Envelope) Base64() (string, error) {
	return e.tx.Base64()
}

func (e *Envelope) hasInvocation() bool {
	for _, op := range e.tx.Operations() {
		if isInvocation(op) {
			return true
		}
	}
	return false
}
