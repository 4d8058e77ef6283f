// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package rpc

// Status values reported by sendTransaction.
const (
	SendStatusPending       = "PENDING"
	SendStatusDuplicate     = "DUPLICATE"
	SendStatusTryAgainLater = "TRY_AGAIN_LATER"
	SendStatusError         = "ERROR"
)

// Status values reported by getTransaction.
const (
	TxStatusSuccess  = "SUCCESS"
	TxStatusFailed   = "FAILED"
	TxStatusNotFound = "NOT_FOUND"
)

type transactionParams struct {
	Transaction string `json:"transaction"`
}

type hashParams struct {
	Hash string `json:"hash"`
}

type ledgerEntriesParams struct {
	Keys []string `json:"keys"`
}

// SimulateHostFunctionResult is the outcome of one simulated host function.
type SimulateHostFunctionResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

// RestorePreamble is present when archived entries must be restored first.
type RestorePreamble struct {
	TransactionData string `json:"transactionData"`
	MinResourceFee  int64  `json:"minResourceFee,string"`
}

// SimulateTransactionResponse is the simulateTransaction result. Error is
// set, and the resource fields empty, when the invocation would fail.
type SimulateTransactionResponse struct {
	Error           string                       `json:"error,omitempty"`
	TransactionData string                       `json:"transactionData,omitempty"`
	MinResourceFee  int64                        `json:"minResourceFee,string,omitempty"`
	Results         []SimulateHostFunctionResult `json:"results,omitempty"`
	Events          []string                     `json:"events,omitempty"`
	RestorePreamble *RestorePreamble             `json:"restorePreamble,omitempty"`
	LatestLedger    uint32                       `json:"latestLedger"`
}

// SendTransactionResponse is the sendTransaction result.
type SendTransactionResponse struct {
	Status              string   `json:"status"`
	Hash                string   `json:"hash"`
	LatestLedger        uint32   `json:"latestLedger"`
	ErrorResultXDR      string   `json:"errorResultXdr,omitempty"`
	DiagnosticEventsXDR []string `json:"diagnosticEventsXdr,omitempty"`
}

// TransactionResponse is the getTransaction result and contains the raw XDR
// fields needed to classify and decode the outcome.
type TransactionResponse struct {
	Status              string   `json:"status"`
	TxHash              string   `json:"txHash,omitempty"`
	LatestLedger        uint32   `json:"latestLedger"`
	Ledger              uint32   `json:"ledger,omitempty"`
	CreatedAt           int64    `json:"createdAt,string,omitempty"`
	ApplicationOrder    int32    `json:"applicationOrder,omitempty"`
	FeeBump             bool     `json:"feeBump,omitempty"`
	EnvelopeXdr         string   `json:"envelopeXdr,omitempty"`
	ResultXdr           string   `json:"resultXdr,omitempty"`
	ResultMetaXdr       string   `json:"resultMetaXdr,omitempty"`
	DiagnosticEventsXDR []string `json:"diagnosticEventsXdr,omitempty"`
}

// LedgerEntryResult is one entry of a getLedgerEntries reply.
type LedgerEntryResult struct {
	Key                string  `json:"key"`
	XDR                string  `json:"xdr"`
	LastModifiedLedger uint32  `json:"lastModifiedLedgerSeq"`
	LiveUntilLedgerSeq *uint32 `json:"liveUntilLedgerSeq,omitempty"`
}

// LedgerEntriesResponse is the getLedgerEntries result.
type LedgerEntriesResponse struct {
	Entries      []LedgerEntryResult `json:"entries"`
	LatestLedger uint32              `json:"latestLedger"`
}

// NetworkResponse is the getNetwork result.
type NetworkResponse struct {
	FriendbotURL    string `json:"friendbotUrl,omitempty"`
	Passphrase      string `json:"passphrase"`
	ProtocolVersion int    `json:"protocolVersion"`
}

// VersionInfoResponse is the getVersionInfo result.
type VersionInfoResponse struct {
	Version            string `json:"version"`
	CommitHash         string `json:"commitHash"`
	BuildTimestamp     string `json:"buildTimestamp"`
	CaptiveCoreVersion string `json:"captiveCoreVersion"`
	ProtocolVersion    uint32 `json:"protocolVersion"`
}
