// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"github.com/blinklabs-io/gohaze/keys"
	"github.com/blinklabs-io/gohaze/ledger/common"
)

// ErrAlreadySigned is returned when signing a transaction that already
// carries a signature
var ErrAlreadySigned = common.PreconditionError{
	Field:  "signature",
	Reason: "transaction is already signed",
}

// Signer produces signatures for a single account
type Signer interface {
	Address() common.Address
	Sign(msg []byte) common.Signature
}

// SignTransaction computes the signing payload of tx and attaches the
// signature. The signer must own the from address.
func SignTransaction(tx Transaction, signer Signer) error {
	if err := Validate(tx); err != nil {
		return err
	}
	h := tx.Header()
	if h.IsSigned() {
		return ErrAlreadySigned
	}
	if signer.Address() != h.From {
		return common.NewPreconditionError(
			"from",
			"signer address %s does not match %s",
			signer.Address(),
			h.From,
		)
	}
	payload, err := SigningPayload(tx)
	if err != nil {
		return err
	}
	sig := signer.Sign(payload)
	h.Signature = &sig
	return nil
}

// VerifyTransaction reports whether tx carries a valid signature by its from
// address. An unsigned transaction is not valid. An error is returned only
// when the payload cannot be built.
func VerifyTransaction(tx Transaction) (bool, error) {
	payload, err := SigningPayload(tx)
	if err != nil {
		return false, err
	}
	h := tx.Header()
	if h.Signature == nil {
		return false, nil
	}
	return keys.VerifyAddress(h.From, payload, *h.Signature), nil
}
