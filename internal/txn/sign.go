// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package txn

import (
	"github.com/stellar/go/keypair"
)

// Sign appends kp's signature to env. Ed25519 signatures are
// deterministic, so signing twice with the same key appends an identical
// entry; duplicates are left for the ledger to judge.
func Sign(env *Envelope, kp *keypair.Full) error {
	if env.submitted {
		return ErrEnvelopeSubmitted
	}
	if kp == nil {
		return &AssemblyError{Reason: "no signing key"}
	}
	signed, err := env.tx.Sign(env.passphrase, kp)
	if err != nil {
		return &AssemblyError{Reason: "sign envelope", Err: err}
	}
	env.tx = signed
	return nil
}

// ParseSecret decodes an S... secret seed. The secret itself never appears
// in the returned error.
func ParseSecret(secret string) (*keypair.Full, error) {
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return nil, &AssemblyError{Reason: "invalid signing secret"}
	}
	return kp, nil
}
