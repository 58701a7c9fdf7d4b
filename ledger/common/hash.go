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
	"crypto/sha256"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// HashAlgorithm selects the digest used for local content hashes
type HashAlgorithm uint8

const (
	HashAlgorithmBlake2b256 HashAlgorithm = iota
	HashAlgorithmSha256
	HashAlgorithmBlake3
)

func (a HashAlgorithm) String() string {
	switch a {
	case HashAlgorithmBlake2b256:
		return "blake2b-256"
	case HashAlgorithmSha256:
		return "sha256"
	case HashAlgorithmBlake3:
		return "blake3"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", uint8(a))
	}
}

// ParseHashAlgorithm returns the algorithm with the given name
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	for _, a := range []HashAlgorithm{HashAlgorithmBlake2b256, HashAlgorithmSha256, HashAlgorithmBlake3} {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, NewPreconditionError("hash algorithm", "unknown algorithm %q", name)
}

// Sum computes the digest of data with the selected algorithm
func (a HashAlgorithm) Sum(data []byte) (Hash, error) {
	switch a {
	case HashAlgorithmBlake2b256:
		return Blake2b256Hash(data), nil
	case HashAlgorithmSha256:
		return Sha256Hash(data), nil
	case HashAlgorithmBlake3:
		return Blake3Hash(data), nil
	default:
		return Hash{}, NewPreconditionError("hash algorithm", "unknown algorithm %d", uint8(a))
	}
}

// Blake2b256Hash generates a Blake2b-256 hash from the provided data
func Blake2b256Hash(data []byte) Hash {
	tmpHash, err := blake2b.New(HashSize, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return Hash(tmpHash.Sum(nil))
}

// Sha256Hash generates a SHA-256 hash from the provided data
func Sha256Hash(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

// Blake3Hash generates a 32-byte BLAKE3 hash from the provided data
func Blake3Hash(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}
