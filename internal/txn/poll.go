// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/decoder"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
	"github.com/stellar/go/xdr"
)

const (
	DefaultPollInterval    = time.Second
	DefaultMaxPollAttempts = 30
	DefaultPollTimeout     = time.Minute
)

// FinalityStatus is the ledger's verdict on a submitted transaction.
type FinalityStatus int

const (
	FinalityNotFound FinalityStatus = iota
	FinalitySuccess
	FinalityFailed
)

func (s FinalityStatus) String() string {
	switch s {
	case FinalityNotFound:
		return "not_found"
	case FinalitySuccess:
		return "success"
	case FinalityFailed:
		return "failed"
	default:
		return fmt.Sprintf("FinalityStatus(%d)", int(s))
	}
}

// FinalityResult carries the raw outcome of a transaction as reported by
// getTransaction. Only the decode helpers look inside the XDR fields.
type FinalityResult struct {
	Status              FinalityStatus
	Hash                string
	Ledger              uint32
	CreatedAt           time.Time
	ResultMetaXDR       string
	ResultXDR           string
	EnvelopeXDR         string
	DiagnosticEventsXDR []string
	Attempts            int
}

// Meta parses the transaction metadata.
func (r *FinalityResult) Meta() (xdr.TransactionMeta, error) {
	return decoder.DecodeMeta(r.ResultMetaXDR)
}

// LastEvent decodes the data of the last contract event the transaction
// emitted.
func (r *FinalityResult) LastEvent() (scval.Value, error) {
	meta, err := r.Meta()
	if err != nil {
		return nil, err
	}
	return decoder.LastEventData(meta)
}

// ReturnValue decodes the value returned by the invoked contract function.
func (r *FinalityResult) ReturnValue() (scval.Value, error) {
	meta, err := r.Meta()
	if err != nil {
		return nil, err
	}
	return decoder.ReturnValue(meta)
}

// Poller waits for submitted transactions to become final.
type Poller struct {
	node        Node
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration

	// after is time.After; tests replace it to count delays.
	after func(time.Duration) <-chan time.Time
}

// NewPoller returns a poller that re-queries every interval until the
// transaction is final, maxAttempts queries were made or timeout elapsed.
// A zero maxAttempts or timeout disables that bound, but not both: without
// either, maxAttempts falls back to DefaultMaxPollAttempts. The caller's
// context always applies.
func NewPoller(node Node, interval time.Duration, maxAttempts int, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	if timeout < 0 {
		timeout = 0
	}
	if maxAttempts == 0 && timeout == 0 {
		maxAttempts = DefaultMaxPollAttempts
	}
	return &Poller{
		node:        node,
		interval:    interval,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		after:       time.After,
	}
}

// Status queries the transaction once.
func (p *Poller) Status(ctx context.Context, hash string) (*FinalityResult, error) {
	resp, err := p.node.GetTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}
	return toFinality(hash, resp)
}

// Await queries hash immediately and then once per interval while the node
// reports NOT_FOUND. It returns the first Success or Failed result, or a
// *PollTimeoutError when a bound is exhausted first. Transient transport
// errors count as an attempt and polling continues.
func (p *Poller) Await(ctx context.Context, hash string) (*FinalityResult, error) {
	start := time.Now()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	for attempt := 1; ; attempt++ {
		resp, err := p.node.GetTransaction(ctx, hash)
		switch {
		case ctx.Err() != nil:
			return nil, p.stopped(hash, attempt, start, ctx.Err())
		case err != nil && !rpc.IsTransient(err):
			return nil, err
		case err != nil:
			logger.Logger.Warn("Transient error while polling", "hash", hash, "attempt", attempt, "error", err)
		case resp.Status != rpc.TxStatusNotFound:
			res, err := toFinality(hash, resp)
			if err != nil {
				return nil, err
			}
			res.Attempts = attempt
			logger.Logger.Info("Transaction final", "hash", hash, "status", res.Status, "ledger", res.Ledger, "attempts", attempt)
			return res, nil
		}

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return nil, &PollTimeoutError{Hash: hash, Attempts: attempt, Elapsed: time.Since(start), Err: ErrMaxPollAttempts}
		}
		logger.Logger.Debug("Transaction not found yet", "hash", hash, "attempt", attempt)

		select {
		case <-ctx.Done():
			return nil, p.stopped(hash, attempt, start, ctx.Err())
		case <-p.after(p.interval):
		}
	}
}

func (p *Poller) stopped(hash string, attempts int, start time.Time, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return &PollTimeoutError{Hash: hash, Attempts: attempts, Elapsed: time.Since(start), Err: cause}
	}
	return fmt.Errorf("await %s: %w", hash, cause)
}

func toFinality(hash string, resp *rpc.TransactionResponse) (*FinalityResult, error) {
	res := &FinalityResult{
		Hash:                hash,
		Ledger:              resp.Ledger,
		ResultMetaXDR:       resp.ResultMetaXdr,
		ResultXDR:           resp.ResultXdr,
		EnvelopeXDR:         resp.EnvelopeXdr,
		DiagnosticEventsXDR: resp.DiagnosticEventsXDR,
	}
	if resp.CreatedAt > 0 {
		res.CreatedAt = time.Unix(resp.CreatedAt, 0).UTC()
	}
	switch resp.Status {
	case rpc.TxStatusSuccess:
		res.Status = FinalitySuccess
	case rpc.TxStatusFailed:
		res.Status = FinalityFailed
	case rpc.TxStatusNotFound:
		res.Status = FinalityNotFound
	default:
		return nil, fmt.Errorf("transaction %s: unexpected status %q", hash, resp.Status)
	}
	return res, nil
}
