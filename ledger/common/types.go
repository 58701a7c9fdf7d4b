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

package common

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressSize   = 32
	HashSize      = 32
	SignatureSize = 64

	// AddressBech32Prefix is the human-readable part used when rendering
	// addresses in bech32 form
	AddressBech32Prefix = "haze"
)

// Address is the raw 32-byte Ed25519 public key of an account. It is never a
// hash of the key.
type Address [AddressSize]byte

// NewAddress copies data into an Address. The input must be exactly AddressSize bytes.
func NewAddress(data []byte) (Address, error) {
	var a Address
	if len(data) != AddressSize {
		return a, NewPreconditionError(
			"address",
			"expected %d bytes, got %d",
			AddressSize,
			len(data),
		)
	}
	copy(a[:], data)
	return a, nil
}

// NewAddressFromHex decodes a 64-character hex string into an Address
func NewAddressFromHex(field string, s string) (Address, error) {
	var a Address
	if err := DecodeHexInto(field, s, a[:]); err != nil {
		return a, err
	}
	return a, nil
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return MalformedWireValueError{Field: "address", Reason: "expected hex string", Err: err}
	}
	tmp, err := NewAddressFromHex("address", s)
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// Bech32 renders the address in bech32 form with the given prefix
func (a Address) Bech32(prefix string) string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(prefix, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

// NewAddressFromBech32 parses a bech32-encoded address and returns its prefix
func NewAddressFromBech32(s string) (string, Address, error) {
	var a Address
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", a, MalformedWireValueError{Field: "address", Value: s, Err: err}
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", a, MalformedWireValueError{Field: "address", Value: s, Err: err}
	}
	if len(decoded) != AddressSize {
		return "", a, MalformedWireValueError{
			Field:  "address",
			Value:  s,
			Reason: fmt.Sprintf("expected %d bytes, got %d", AddressSize, len(decoded)),
		}
	}
	copy(a[:], decoded)
	return hrp, a, nil
}

// Hash is a 32-byte identifier used for assets and digests
type Hash [HashSize]byte

func NewHash(data []byte) (Hash, error) {
	var h Hash
	if len(data) != HashSize {
		return h, NewPreconditionError(
			"hash",
			"expected %d bytes, got %d",
			HashSize,
			len(data),
		)
	}
	copy(h[:], data)
	return h, nil
}

func NewHashFromHex(field string, s string) (Hash, error) {
	var h Hash
	if err := DecodeHexInto(field, s, h[:]); err != nil {
		return h, err
	}
	return h, nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return MalformedWireValueError{Field: "hash", Reason: "expected hex string", Err: err}
	}
	tmp, err := NewHashFromHex("hash", s)
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}

// Signature is a 64-byte Ed25519 signature
type Signature [SignatureSize]byte

func NewSignature(data []byte) (Signature, error) {
	var s Signature
	if len(data) != SignatureSize {
		return s, NewPreconditionError(
			"signature",
			"expected %d bytes, got %d",
			SignatureSize,
			len(data),
		)
	}
	copy(s[:], data)
	return s, nil
}

func NewSignatureFromHex(field string, str string) (Signature, error) {
	var s Signature
	if err := DecodeHexInto(field, str, s[:]); err != nil {
		return s, err
	}
	return s, nil
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) Bytes() []byte {
	return s[:]
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Signature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return MalformedWireValueError{Field: "signature", Reason: "expected hex string", Err: err}
	}
	tmp, err := NewSignatureFromHex("signature", str)
	if err != nil {
		return err
	}
	*s = tmp
	return nil
}
