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

// Package common provides the value types shared by the HAZE transaction,
// signing and quoting packages.
//
// # Key Files by Purpose
//
//   - types.go: Address, Hash and Signature fixed-length identifiers
//   - asset.go: AssetAction, DensityLevel, PermissionLevel and asset bodies
//   - wire.go: hex and decimal-string transport helpers
//   - hash.go: digest helpers used for local content hashes
//   - errors.go: the error taxonomy shared by every package
//
// # Error Taxonomy
//
// Every failure raised before bytes leave the process is one of
// ErrPreconditionViolation, ErrMalformedWireValue or ErrArithmeticDomain.
// ErrRemoteRejection is reserved for the ledger declining a transaction.
// Use errors.Is to classify and errors.As to reach the typed detail.
//
// # Addresses
//
// An Address is the raw 32-byte Ed25519 public key. No hashing is applied when
// deriving it. Hashes appear only in the advisory content hash.
package common
