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

package cbor

import (
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

// Hash views nest four levels deep at most
const maxNestedLevels = 16

var (
	cachedDecMode     _cbor.DecMode
	cachedDiagMode    _cbor.DiagMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

func getDecModes() (_cbor.DecMode, _cbor.DiagMode, error) {
	cachedDecModeOnce.Do(func() {
		decOpts := _cbor.DecOptions{
			// Encode never produces either of these
			DupMapKey:       _cbor.DupMapKeyEnforcedAPF,
			IndefLength:     _cbor.IndefLengthForbidden,
			MaxNestedLevels: maxNestedLevels,
		}
		cachedDecMode, cachedDecModeErr = decOpts.DecMode()
		if cachedDecModeErr != nil {
			return
		}
		diagOpts := _cbor.DiagOptions{
			ByteStringEncoding: _cbor.ByteStringBase16Encoding,
			MaxNestedLevels:    maxNestedLevels,
		}
		cachedDiagMode, cachedDecModeErr = diagOpts.DiagMode()
	})
	return cachedDecMode, cachedDiagMode, cachedDecModeErr
}

// Decode decodes exactly one data item from data into dest. Trailing bytes,
// duplicate map keys and indefinite-length items are rejected.
func Decode(data []byte, dest any) error {
	dm, _, err := getDecModes()
	if err != nil {
		return err
	}
	return dm.Unmarshal(data, dest)
}

// Diagnose renders data in CBOR diagnostic notation, e.g. [1, h'dead']
func Diagnose(data []byte) (string, error) {
	_, dm, err := getDecModes()
	if err != nil {
		return "", err
	}
	return dm.Diagnose(data)
}
