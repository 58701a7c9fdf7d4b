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

// Package cbor wraps github.com/fxamacker/cbor/v2 with the deterministic
// options used for HAZE content hashes.
//
// Encode always sorts map keys in core deterministic order, so two equal
// values produce identical bytes regardless of map iteration order. The
// encoding is used only for local hashing; it is never the signed payload.
// Decode and Diagnose read such encodings back for inspection.
package cbor
