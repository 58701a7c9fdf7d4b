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

// Package keys manages the Ed25519 key pairs that sign HAZE transactions.
//
// A key pair is derived from a 32-byte seed, which is the only input that
// needs randomness. Signing is deterministic for a given message and key. The
// account address is the raw 32-byte public key.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/gohaze/ledger/common"
)

const (
	SeedSize       = ed25519.SeedSize
	PublicKeySize  = ed25519.PublicKeySize
	PrivateKeySize = ed25519.PrivateKeySize
)

// KeyPair is an Ed25519 signing key and its public half
type KeyPair struct {
	privateKey ed25519.PrivateKey
	address    common.Address
}

// GenerateKeyPair creates a key pair from a random seed
func GenerateKeyPair() (*KeyPair, error) {
	return GenerateKeyPairFromReader(rand.Reader)
}

// GenerateKeyPairFromReader creates a key pair from a seed read from r
func GenerateKeyPairFromReader(r io.Reader) (*KeyPair, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return NewKeyPairFromSeed(seed)
}

// NewKeyPairFromSeed derives the key pair for a 32-byte seed
func NewKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, common.NewPreconditionError(
			"seed",
			"expected %d bytes, got %d",
			SeedSize,
			len(seed),
		)
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	kp := &KeyPair{
		privateKey: privateKey,
	}
	copy(kp.address[:], privateKey.Public().(ed25519.PublicKey))
	return kp, nil
}

// NewKeyPairFromHex derives the key pair for a hex-encoded seed
func NewKeyPairFromHex(seedHex string) (*KeyPair, error) {
	seed := make([]byte, SeedSize)
	if err := common.DecodeHexInto("seed", seedHex, seed); err != nil {
		return nil, err
	}
	return NewKeyPairFromSeed(seed)
}

// Address returns the account address, which is the public key itself
func (k *KeyPair) Address() common.Address {
	return k.address
}

func (k *KeyPair) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(k.address.Bytes())
}

func (k *KeyPair) Seed() []byte {
	return k.privateKey.Seed()
}

func (k *KeyPair) SeedHex() string {
	return hex.EncodeToString(k.privateKey.Seed())
}

// Sign returns the signature of msg
func (k *KeyPair) Sign(msg []byte) common.Signature {
	var sig common.Signature
	copy(sig[:], ed25519.Sign(k.privateKey, msg))
	return sig
}

// Verify reports whether sig is a valid signature of msg by publicKey.
// Malformed keys and signatures are reported as invalid rather than as errors.
func Verify(publicKey []byte, msg []byte, sig []byte) bool {
	if len(publicKey) != PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), msg, sig)
}

// VerifyAddress is Verify for an address and typed signature
func VerifyAddress(addr common.Address, msg []byte, sig common.Signature) bool {
	return Verify(addr[:], msg, sig[:])
}

// AddressFromPublicKey returns the address for a public key. No hashing is
// applied.
func AddressFromPublicKey(publicKey []byte) (common.Address, error) {
	if len(publicKey) != PublicKeySize {
		return common.Address{}, common.NewPreconditionError(
			"public key",
			"expected %d bytes, got %d",
			PublicKeySize,
			len(publicKey),
		)
	}
	return common.NewAddress(publicKey)
}

// ValidatePublicKey checks that publicKey is a usable Ed25519 point
func ValidatePublicKey(publicKey []byte) error {
	if len(publicKey) != PublicKeySize {
		return common.NewPreconditionError(
			"public key",
			"expected %d bytes, got %d",
			PublicKeySize,
			len(publicKey),
		)
	}
	p := &edwards25519.Point{}
	if _, err := p.SetBytes(publicKey); err != nil {
		return common.NewPreconditionError("public key", "not a curve point: %s", err)
	}
	isSmallOrder := (&edwards25519.Point{}).MultByCofactor(p).
		Equal(edwards25519.NewIdentityPoint()) ==
		1
	if isSmallOrder {
		return common.NewPreconditionError("public key", "small order point")
	}
	return nil
}
