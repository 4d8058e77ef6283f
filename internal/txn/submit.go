// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/contracterr"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/decoder"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/logger"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
)

// SubmissionStatus is the node's immediate verdict on an envelope.
type SubmissionStatus int

const (
	SubmissionPending SubmissionStatus = iota
	SubmissionDuplicate
	SubmissionRejected
)

func (s SubmissionStatus) String() string {
	switch s {
	case SubmissionPending:
		return "pending"
	case SubmissionDuplicate:
		return "duplicate"
	case SubmissionRejected:
		return "rejected"
	default:
		return fmt.Sprintf("SubmissionStatus(%d)", int(s))
	}
}

// SubmissionResult is the outcome of sending an envelope. RawError holds the
// base64 TransactionResult of a rejection.
type SubmissionResult struct {
	Status   SubmissionStatus
	Hash     string
	RawError string
}

// Submitter sends signed envelopes to the node.
type Submitter struct {
	node  Node
	retry RetryPolicy
}

func NewSubmitter(node Node, retry RetryPolicy) *Submitter {
	return &Submitter{node: node, retry: retry}
}

// Submit sends env and classifies the reply. A duplicate is treated like a
// pending submission with the existing hash. A rejection returns both the
// result and a *SubmissionError; the transaction must not be polled.
// Transport failures and TRY_AGAIN_LATER are retried per the retry policy.
func (s *Submitter) Submit(ctx context.Context, env *Envelope) (SubmissionResult, error) {
	if env.submitted {
		return SubmissionResult{}, ErrEnvelopeSubmitted
	}
	if env.Signatures() == 0 {
		return SubmissionResult{}, &AssemblyError{Reason: "envelope is not signed"}
	}
	hash, err := env.Hash()
	if err != nil {
		return SubmissionResult{}, &AssemblyError{Reason: "hash envelope", Err: err}
	}
	b64, err := env.Base64()
	if err != nil {
		return SubmissionResult{}, &AssemblyError{Reason: "encode envelope", Err: err}
	}

	env.submitted = true

	var resp *rpc.SendTransactionResponse
	err = s.retry.do(ctx, "submit", func() error {
		r, err := s.node.SendTransaction(ctx, b64)
		if err != nil {
			return err
		}
		if r.Status == rpc.SendStatusTryAgainLater {
			return errTryAgainLater
		}
		resp = r
		return nil
	})
	if errors.Is(err, errTryAgainLater) {
		return SubmissionResult{Hash: hash}, &SubmissionError{Status: rpc.SendStatusTryAgainLater, Hash: hash}
	}
	if err != nil {
		return SubmissionResult{Hash: hash}, &SubmissionError{Hash: hash, Err: err}
	}

	if resp.Hash != "" && resp.Hash != hash {
		return SubmissionResult{Hash: resp.Hash}, &SubmissionError{
			Status: resp.Status,
			Hash:   hash,
			Err:    fmt.Errorf("node reported hash %s", resp.Hash),
		}
	}

	switch resp.Status {
	case rpc.SendStatusPending:
		logger.Logger.Info("Transaction submitted", "hash", hash)
		return SubmissionResult{Status: SubmissionPending, Hash: hash}, nil
	case rpc.SendStatusDuplicate:
		logger.Logger.Info("Transaction already known to node", "hash", hash)
		return SubmissionResult{Status: SubmissionDuplicate, Hash: hash}, nil
	case rpc.SendStatusError:
		diagnostic := decoder.FailureText(resp.ErrorResultXDR, resp.DiagnosticEventsXDR, "")
		subErr := &SubmissionError{
			Status:      resp.Status,
			Hash:        hash,
			ResultCode:  decoder.ResultCode(resp.ErrorResultXDR),
			Diagnostic:  diagnostic,
			Translation: contracterr.Translate(diagnostic),
		}
		logger.Logger.Warn("Transaction rejected", "hash", hash, "result", subErr.ResultCode)
		return SubmissionResult{Status: SubmissionRejected, Hash: hash, RawError: resp.ErrorResultXDR}, subErr
	default:
		return SubmissionResult{Hash: hash}, &SubmissionError{
			Status: resp.Status,
			Hash:   hash,
			Err:    fmt.Errorf("unexpected status %q", resp.Status),
		}
	}
}
