// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package escrow

import (
	"encoding/hex"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/amount"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/scval"
)

const eventRoot = "event.data"

// Escrow is the escrow state reported by the contract.
type Escrow struct {
	EngagementID    string         `json:"engagement_id"`
	Description     string         `json:"description"`
	Issuer          string         `json:"issuer"`
	Signer          string         `json:"signer"`
	ServiceProvider string         `json:"service_provider"`
	Amount          amount.Decimal `json:"amount"`
	Balance         amount.Decimal `json:"balance"`
	Cancelled       bool           `json:"cancelled"`
	Completed       bool           `json:"completed"`
}

// Deployment identifies an escrow contract created by the deployer.
type Deployment struct {
	ContractID   string `json:"contract_id"`
	EngagementID string `json:"engagement_id"`
}

// DecodeEscrow maps the data of the event emitted by get_escrow_by_id. The
// contract emits either the escrow map itself or a vector whose element 1
// is the map. engagement_id is required; other fields default to zero when
// absent but must have the right type when present.
func DecodeEscrow(data scval.Value, scale amount.Scale) (*Escrow, error) {
	payload, path := data, eventRoot
	if vec, ok := data.(scval.Vec); ok {
		item, err := scval.At(vec, 1, path)
		if err != nil {
			return nil, err
		}
		payload, path = item, scval.Index(path, 1)
	}
	m, err := scval.As[scval.Map](payload, path)
	if err != nil {
		return nil, err
	}

	out := &Escrow{}
	id, err := scval.Lookup(m, "engagement_id", path)
	if err != nil {
		return nil, err
	}
	if out.EngagementID, err = identifier(id, scval.Field(path, "engagement_id")); err != nil {
		return nil, err
	}

	fields := []struct {
		key    string
		decode func(v scval.Value, path string) error
	}{
		{"description", func(v scval.Value, p string) (err error) {
			out.Description, err = scval.Text(v, p)
			return err
		}},
		{"issuer", func(v scval.Value, p string) (err error) {
			out.Issuer, err = address(v, p)
			return err
		}},
		{"signer", func(v scval.Value, p string) (err error) {
			out.Signer, err = address(v, p)
			return err
		}},
		{"service_provider", func(v scval.Value, p string) (err error) {
			out.ServiceProvider, err = address(v, p)
			return err
		}},
		{"amount", func(v scval.Value, p string) (err error) {
			out.Amount, err = decimal(v, p, scale)
			return err
		}},
		{"balance", func(v scval.Value, p string) (err error) {
			out.Balance, err = decimal(v, p, scale)
			return err
		}},
		{"cancelled", func(v scval.Value, p string) error {
			b, err := scval.As[scval.Bool](v, p)
			out.Cancelled = bool(b)
			return err
		}},
		{"completed", func(v scval.Value, p string) error {
			b, err := scval.As[scval.Bool](v, p)
			out.Completed = bool(b)
			return err
		}},
	}
	for _, f := range fields {
		v, ok := m.Get(f.key)
		if !ok {
			continue
		}
		if err := f.decode(v, scval.Field(path, f.key)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeAmount maps the data of the event emitted by get_balance and
// get_allowance: a vector whose element 2 is the amount.
func DecodeAmount(data scval.Value, scale amount.Scale) (amount.Decimal, error) {
	vec, err := scval.As[scval.Vec](data, eventRoot)
	if err != nil {
		return amount.Decimal{}, err
	}
	v, err := scval.At(vec, 2, eventRoot)
	if err != nil {
		return amount.Decimal{}, err
	}
	return decimal(v, scval.Index(eventRoot, 2), scale)
}

// DecodeDeployment maps the deployer's return value, a
// (contract_id, engagement_id) pair.
func DecodeDeployment(ret scval.Value) (*Deployment, error) {
	const root = "returnValue"
	vec, err := scval.As[scval.Vec](ret, root)
	if err != nil {
		return nil, err
	}
	first, err := scval.At(vec, 0, root)
	if err != nil {
		return nil, err
	}
	second, err := scval.At(vec, 1, root)
	if err != nil {
		return nil, err
	}
	contract, err := scval.As[scval.Address](first, scval.Index(root, 0))
	if err != nil {
		return nil, err
	}
	id, err := scval.Text(second, scval.Index(root, 1))
	if err != nil {
		return nil, err
	}
	return &Deployment{ContractID: string(contract), EngagementID: id}, nil
}

// identifier hex-encodes a raw identifier. Text identifiers are encoded
// from their UTF-8 bytes.
func identifier(v scval.Value, path string) (string, error) {
	switch t := v.(type) {
	case scval.Bytes:
		return hex.EncodeToString(t), nil
	case scval.String:
		return hex.EncodeToString([]byte(t)), nil
	default:
		return "", &scval.DecodeError{Expected: "bytes|string", Actual: kindOf(v), Path: path}
	}
}

func address(v scval.Value, path string) (string, error) {
	switch t := v.(type) {
	case scval.Address:
		return string(t), nil
	case scval.String:
		if scval.ValidAddress(string(t)) {
			return string(t), nil
		}
	}
	return "", &scval.DecodeError{Expected: "address", Actual: kindOf(v), Path: path}
}

func decimal(v scval.Value, path string, scale amount.Scale) (amount.Decimal, error) {
	switch t := v.(type) {
	case scval.U128:
		return scale.FromU128(t.Hi, t.Lo), nil
	case scval.I128:
		return scale.FromI128(t.Hi, t.Lo), nil
	case scval.U64:
		return scale.FromU128(0, uint64(t)), nil
	case scval.I64:
		return scale.FromI128(int64(t)>>63, uint64(t)), nil
	default:
		return amount.Decimal{}, &scval.DecodeError{Expected: "u128|i128", Actual: kindOf(v), Path: path}
	}
}

func kindOf(v scval.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}
