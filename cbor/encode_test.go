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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gohaze/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMapKeysSorted(t *testing.T) {
	// Build the same map several times so iteration order varies
	var first []byte
	for i := 0; i < 20; i++ {
		m := map[string]string{
			"zeta":  "1",
			"alpha": "2",
			"mu":    "3",
			"b":     "4",
		}
		data, err := cbor.Encode(m)
		require.NoError(t, err)
		if first == nil {
			first = data
			continue
		}
		assert.Equal(t, first, data)
	}
	// Core deterministic ordering sorts shorter keys first
	assert.Equal(
		t,
		"a461626134626d756133647a657461613165616c7068616132",
		hex.EncodeToString(first),
	)
}

func TestEncodeList(t *testing.T) {
	testDefs := []struct {
		value       any
		expectedHex string
	}{
		{
			value:       []any{uint64(1), "a"},
			expectedHex: "82016161",
		},
		{
			value:       []any{[]byte{0xde, 0xad}, nil},
			expectedHex: "8242deadf6",
		},
		{
			value:       []any{true, uint8(4)},
			expectedHex: "82f504",
		},
	}
	for _, testDef := range testDefs {
		data, err := cbor.Encode(testDef.value)
		require.NoError(t, err)
		assert.Equal(t, testDef.expectedHex, hex.EncodeToString(data))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	src := []any{uint64(42), "haze", []byte{1, 2, 3}, nil}
	data, err := cbor.Encode(src)
	require.NoError(t, err)
	var dest []any
	require.NoError(t, cbor.Decode(data, &dest))
	require.Len(t, dest, 4)
	assert.Equal(t, uint64(42), dest[0])
	assert.Equal(t, "haze", dest[1])
	assert.Equal(t, []byte{1, 2, 3}, dest[2])
	assert.Nil(t, dest[3])
}

func TestDecodeStrict(t *testing.T) {
	testDefs := []struct {
		name    string
		dataHex string
	}{
		{name: "trailing bytes", dataHex: "0102"},
		{name: "duplicate map key", dataHex: "a2616101616102"},
		{name: "indefinite-length array", dataHex: "9f0102ff"},
		{name: "truncated", dataHex: "8301"},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			data, err := hex.DecodeString(testDef.dataHex)
			require.NoError(t, err)
			var dest any
			assert.Error(t, cbor.Decode(data, &dest))
		})
	}
}

func TestDiagnose(t *testing.T) {
	data, err := cbor.Encode([]any{uint64(1), "a", []byte{0xde, 0xad}, nil})
	require.NoError(t, err)
	diag, err := cbor.Diagnose(data)
	require.NoError(t, err)
	assert.Equal(t, `[1, "a", h'dead', null]`, diag)

	_, err = cbor.Diagnose([]byte{0x83, 0x01})
	assert.Error(t, err)
}
