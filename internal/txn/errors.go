// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/contracterr"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/rpc"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
)

// ErrMaxPollAttempts is the cause of a PollTimeoutError raised by the
// attempt bound rather than the deadline.
var ErrMaxPollAttempts = errors.New("maximum poll attempts reached")

// AssemblyError reports an envelope that could not be built: an empty or
// malformed operation list, a bad source account or a stale sequence.
type AssemblyError struct {
	Reason string
	Err    error
}

func (e *AssemblyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assemble: %s: %v", e.Reason, e.Err)
	}
	return "assemble: " + e.Reason
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// PreparationError reports a failed simulation. The invocation would revert
// or its resources could not be estimated; nothing was submitted.
type PreparationError struct {
	Diagnostic  string
	Translation contracterr.Translation
	Err         error
}

func (e *PreparationError) Error() string {
	switch {
	case e.Err != nil:
		return "prepare: " + e.Err.Error()
	case e.Translation.Known:
		return fmt.Sprintf("prepare: contract error %d: %s", e.Translation.Code, e.Translation.Message)
	default:
		return "prepare: simulation failed: " + e.Diagnostic
	}
}

func (e *PreparationError) Unwrap() error { return e.Err }

// SubmissionError reports an envelope the node refused to accept.
type SubmissionError struct {
	Status      string
	Hash        string
	ResultCode  string
	Diagnostic  string
	Translation contracterr.Translation
	Err         error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit %s: %v", e.Hash, e.Err)
	}
	msg := fmt.Sprintf("submit %s: status %s", e.Hash, e.Status)
	if e.ResultCode != "" {
		msg += " (" + e.ResultCode + ")"
	}
	if e.Translation.Known {
		msg += ": " + e.Translation.Message
	}
	return msg
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PollTimeoutError reports that a submitted transaction did not reach
// finality within the poll bounds. The transaction may still land; callers
// can re-poll Hash with a fresh deadline.
type PollTimeoutError struct {
	Hash     string
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not final after %d attempts in %s: %v",
		e.Hash, e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *PollTimeoutError) Unwrap() error { return e.Err }

// FinalityFailedError reports a transaction that was included in a ledger
// but failed to execute.
type FinalityFailedError struct {
	Hash        string
	Ledger      uint32
	ResultCode  string
	Diagnostic  string
	Translation contracterr.Translation
}

func (e *FinalityFailedError) Error() string {
	msg := fmt.Sprintf("transaction %s failed in ledger %d", e.Hash, e.Ledger)
	if e.ResultCode != "" {
		msg += " (" + e.ResultCode + ")"
	}
	return msg + ": " + e.Translation.Message
}

type translated interface {
	translation() contracterr.Translation
}

func (e *PreparationError) translation() contracterr.Translation    { return e.Translation }
func (e *SubmissionError) translation() contracterr.Translation     { return e.Translation }
func (e *FinalityFailedError) translation() contracterr.Translation { return e.Translation }

// Describe resolves a terminal error to an HTTP-style status code and a
// message safe to show to a caller. Raw XDR never appears in the message.
func Describe(err error) (int, string) {
	if err == nil {
		return http.StatusOK, "ok"
	}

	var (
		assembly *AssemblyError
		prep     *PreparationError
		sub      *SubmissionError
		timeout  *PollTimeoutError
		failed   *FinalityFailedError
		decode   *scval.DecodeError
		rpcErr   *rpc.Error
	)
	switch {
	case errors.As(err, &assembly):
		return http.StatusBadRequest, "invalid transaction: " + assembly.Reason
	case errors.As(err, &prep):
		if prep.Err != nil {
			return transportStatus(prep.Err), "transaction simulation unavailable"
		}
		return http.StatusUnprocessableEntity, contractMessage(prep.Translation, "transaction simulation failed")
	case errors.As(err, &sub):
		if sub.Err != nil {
			return transportStatus(sub.Err), "transaction submission unavailable"
		}
		if sub.Status == rpc.SendStatusTryAgainLater {
			return http.StatusServiceUnavailable, "network is congested, try again later"
		}
		return http.StatusUnprocessableEntity, contractMessage(sub.Translation, "transaction rejected: "+orDefault(sub.ResultCode, sub.Status))
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, fmt.Sprintf("transaction %s is not final yet", timeout.Hash)
	case errors.As(err, &failed):
		return http.StatusUnprocessableEntity, failed.Translation.Message
	case errors.As(err, &decode):
		return http.StatusBadGateway, "unexpected ledger response: " + decode.Error()
	case errors.As(err, &rpcErr):
		return http.StatusBadGateway, "ledger node error: " + rpcErr.Message
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "request cancelled"
	case rpc.IsTransient(err):
		return http.StatusServiceUnavailable, "ledger node unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func transportStatus(err error) int {
	if rpc.IsTransient(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func contractMessage(t contracterr.Translation, fallback string) string {
	if t.Code != 0 {
		return t.Message
	}
	return fallback
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
