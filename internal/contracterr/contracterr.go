// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package contracterr maps escrow contract error codes to user messages.
//
// The host reports a contract-raised error as the substring
// "Error(Contract, #<N>)" inside simulation diagnostics and failure
// traces, where N is the contract's decimal error code. That grammar is the
// only one recognised here.
package contracterr

import (
	"regexp"
	"strconv"
)

// UnknownMessage is returned for any text that does not carry a known code.
const UnknownMessage = "Unknown error occurred in the contract"

var codePattern = regexp.MustCompile(`Error\(Contract, #(\d+)\)`)

var messages = map[int]string{
	1:  "Escrow not funded",
	2:  "Amount cannot be zero",
	3:  "Escrow already initialized",
	4:  "Only the signer can fund the escrow",
	5:  "Escrow already funded",
	6:  "This escrow is already fully funded",
	7:  "The signer does not have sufficient funds",
	8:  "Not enough allowance to fund this escrow",
	9:  "Only the signer can complete the escrow",
	10: "Escrow already completed",
	11: "The signer does not have sufficient funds to complete this escrow",
	12: "Only the service provider can cancel the escrow",
	13: "The escrow has already been cancelled",
	14: "Only the signer can request a refund",
	15: "The escrow must be cancelled to refund the amounts",
	16: "No funds available to refund",
	17: "The contract has no balance to repay",
	18: "Escrow not found",
	19: "Only the service provider can claim escrow earnings",
	20: "The escrow must be completed to claim earnings",
	21: "The escrow balance must be equal to the amount of earnings defined for the escrow",
	22: "The contract does not have sufficient funds",
}

// Translation is the result of inspecting raw error text.
type Translation struct {
	// Code is the contract error code, or 0 when none was found.
	Code int
	// Known reports whether Code is in the table.
	Known   bool
	Message string
}

// Translate extracts the first contract error code from raw and looks it up.
// It never fails: unrecognised input yields UnknownMessage.
func Translate(raw string) Translation {
	code, ok := ExtractCode(raw)
	if !ok {
		return Translation{Message: UnknownMessage}
	}
	if msg, ok := messages[code]; ok {
		return Translation{Code: code, Known: true, Message: msg}
	}
	return Translation{Code: code, Message: UnknownMessage}
}

// ExtractCode returns N from the first "Error(Contract, #N)" in raw.
func ExtractCode(raw string) (int, bool) {
	m := codePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return code, true
}

// Format renders a contract error code in the host's textual form.
func Format(code uint32) string {
	return "Error(Contract, #" + strconv.FormatUint(uint64(code), 10) + ")"
}
