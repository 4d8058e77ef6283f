// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/contracterr"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/decoder"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/metrics"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/telemetry"
	"github.com/stellar/go/keypair"
	"go.opentelemetry.io/otel/attribute"
)

// Options configures a Pipeline. Zero values take the package defaults.
type Options struct {
	NetworkPassphrase string
	BaseFee           int64
	Timeout           time.Duration
	PollInterval      time.Duration
	// MaxPollAttempts and PollTimeout bound Await. Either may be zero to
	// drop that bound; when both are zero both defaults apply.
	MaxPollAttempts int
	PollTimeout     time.Duration
	Retry           RetryPolicy
}

// Pipeline runs the full transaction flow against one network:
// assemble, prepare, sign, submit and await finality.
type Pipeline struct {
	accounts  AccountSource
	assembler Assembler
	preparer  *Preparer
	submitter *Submitter
	poller    *Poller
	metrics   *metrics.Metrics
	network   string
}

// NewPipeline wires the pipeline steps. m may be nil.
func NewPipeline(node Node, accounts AccountSource, opts Options, m *metrics.Metrics) *Pipeline {
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy
	}
	if opts.MaxPollAttempts <= 0 && opts.PollTimeout <= 0 {
		opts.MaxPollAttempts = DefaultMaxPollAttempts
		opts.PollTimeout = DefaultPollTimeout
	}
	return &Pipeline{
		accounts:  accounts,
		assembler: NewAssembler(opts.NetworkPassphrase, opts.BaseFee, opts.Timeout),
		preparer:  NewPreparer(node, retry),
		submitter: NewSubmitter(node, retry),
		poller:    NewPoller(node, opts.PollInterval, opts.MaxPollAttempts, opts.PollTimeout),
		metrics:   m,
		network:   opts.NetworkPassphrase,
	}
}

// Execute signs ops with kp, which is also the source account, and waits
// for the transaction to become final. A transaction that failed on-chain
// returns its result together with a *FinalityFailedError.
func (p *Pipeline) Execute(ctx context.Context, kp *keypair.Full, ops ...Operation) (*FinalityResult, error) {
	if kp == nil {
		return nil, &AssemblyError{Reason: "no signing key"}
	}
	ctx, span := telemetry.Tracer().Start(ctx, "txn.execute")
	span.SetAttributes(attribute.String("source", kp.Address()), attribute.Int("operations", len(ops)))
	res, err := p.execute(ctx, kp, ops)
	telemetry.End(span, err)
	return res, err
}

func (p *Pipeline) execute(ctx context.Context, kp *keypair.Full, ops []Operation) (*FinalityResult, error) {
	env, err := p.Assemble(ctx, kp.Address(), ops...)
	if err != nil {
		return nil, err
	}
	if err := p.step(ctx, "prepare", func(ctx context.Context) error {
		return p.preparer.Prepare(ctx, env)
	}); err != nil {
		return nil, err
	}
	if err := p.step(ctx, "sign", func(context.Context) error {
		return Sign(env, kp)
	}); err != nil {
		return nil, err
	}
	return p.finish(ctx, env)
}

// Assemble loads source's sequence number and builds an unsigned envelope.
func (p *Pipeline) Assemble(ctx context.Context, source string, ops ...Operation) (*Envelope, error) {
	var env *Envelope
	err := p.step(ctx, "assemble", func(ctx context.Context) error {
		account, err := p.accounts.GetAccount(ctx, source)
		if err != nil {
			return &AssemblyError{Reason: "load source account", Err: err}
		}
		env, err = p.assembler.Assemble(account, ops)
		return err
	})
	return env, err
}

// BuildUnsigned assembles and prepares ops for source and returns the
// envelope XDR for the account holder to sign elsewhere.
func (p *Pipeline) BuildUnsigned(ctx context.Context, source string, ops ...Operation) (string, error) {
	env, err := p.Assemble(ctx, source, ops...)
	if err != nil {
		return "", err
	}
	if err := p.step(ctx, "prepare", func(ctx context.Context) error {
		return p.preparer.Prepare(ctx, env)
	}); err != nil {
		return "", err
	}
	return env.Base64()
}

// SubmitSigned submits an envelope signed elsewhere and waits for it to
// become final.
func (p *Pipeline) SubmitSigned(ctx context.Context, signedXDR string) (*FinalityResult, error) {
	env, err := EnvelopeFromXDR(signedXDR, p.network)
	if err != nil {
		return nil, err
	}
	return p.finish(ctx, env)
}

// Status queries a transaction once without waiting.
func (p *Pipeline) Status(ctx context.Context, hash string) (*FinalityResult, error) {
	return p.poller.Status(ctx, hash)
}

// Await waits for a previously submitted transaction, e.g. after a
// *PollTimeoutError.
func (p *Pipeline) Await(ctx context.Context, hash string) (*FinalityResult, error) {
	var res *FinalityResult
	err := p.step(ctx, "await", func(ctx context.Context) error {
		var err error
		res, err = p.poller.Await(ctx, hash)
		if res != nil {
			p.metrics.ObservePolls(res.Attempts)
		}
		if err != nil {
			return err
		}
		return Classify(res)
	})
	p.observeContractError(err)
	return res, err
}

func (p *Pipeline) finish(ctx context.Context, env *Envelope) (*FinalityResult, error) {
	var sub SubmissionResult
	err := p.step(ctx, "submit", func(ctx context.Context) error {
		var err error
		sub, err = p.submitter.Submit(ctx, env)
		return err
	})
	if err != nil {
		p.observeContractError(err)
		return nil, err
	}
	return p.Await(ctx, sub.Hash)
}

func (p *Pipeline) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := telemetry.Tracer().Start(ctx, "txn."+name)
	err := fn(ctx)
	telemetry.End(span, err)
	p.metrics.ObserveStep(name, err)
	return err
}

func (p *Pipeline) observeContractError(err error) {
	var t translated
	if errors.As(err, &t) && t.translation().Code != 0 {
		p.metrics.ObserveContractError(strconv.Itoa(t.translation().Code))
	}
}

// Classify returns a *FinalityFailedError for a failed transaction and nil
// otherwise. The failure text is assembled from the result code and any
// contract errors in the diagnostic events, then translated.
func Classify(res *FinalityResult) error {
	if res == nil || res.Status != FinalityFailed {
		return nil
	}
	diagnostic := decoder.FailureText(res.ResultXDR, res.DiagnosticEventsXDR, res.ResultMetaXDR)
	return &FinalityFailedError{
		Hash:        res.Hash,
		Ledger:      res.Ledger,
		ResultCode:  decoder.ResultCode(res.ResultXDR),
		Diagnostic:  diagnostic,
		Translation: contracterr.Translate(diagnostic),
	}
}
