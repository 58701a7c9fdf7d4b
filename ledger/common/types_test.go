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
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddressLength(t *testing.T) {
	_, err := NewAddress(make([]byte, 31))
	assert.ErrorIs(t, err, ErrPreconditionViolation)
	_, err = NewAddress(make([]byte, 33))
	assert.ErrorIs(t, err, ErrPreconditionViolation)
	addr, err := NewAddress(bytes.Repeat([]byte{0xab}, AddressSize))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", AddressSize), addr.String())
}

func TestHexEncodingIsLowercase(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(0xa0 + i%16)
	}
	s := h.String()
	assert.Len(t, s, 64)
	assert.Equal(t, strings.ToLower(s), s)
	decoded, err := NewHashFromHex("hash", strings.ToUpper(s))
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestFixedLengthHexErrors(t *testing.T) {
	testDefs := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "odd length", input: strings.Repeat("a", 63)},
		{name: "short", input: strings.Repeat("ab", 31)},
		{name: "long", input: strings.Repeat("ab", 33)},
		{name: "non-hex", input: "g" + strings.Repeat("a", 63)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := NewAddressFromHex("to", testDef.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedWireValue)
			var wireErr MalformedWireValueError
			require.True(t, errors.As(err, &wireErr))
			assert.Equal(t, "to", wireErr.Field)
		})
	}
}

func TestSignatureJSON(t *testing.T) {
	var sig Signature
	sig[0] = 0x01
	sig[63] = 0xff
	data, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Equal(t, `"01`+strings.Repeat("00", 62)+`ff"`, string(data))
	var decoded Signature
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sig, decoded)

	err = json.Unmarshal([]byte(`"0102"`), &decoded)
	assert.ErrorIs(t, err, ErrMalformedWireValue)
	err = json.Unmarshal([]byte(`12`), &decoded)
	assert.ErrorIs(t, err, ErrMalformedWireValue)
}

func TestAddressBech32(t *testing.T) {
	addr, err := NewAddress(bytes.Repeat([]byte{0x11}, AddressSize))
	require.NoError(t, err)
	encoded := addr.Bech32(AddressBech32Prefix)
	assert.True(t, strings.HasPrefix(encoded, AddressBech32Prefix+"1"))
	hrp, decoded, err := NewAddressFromBech32(encoded)
	require.NoError(t, err)
	assert.Equal(t, AddressBech32Prefix, hrp)
	assert.Equal(t, addr, decoded)

	_, _, err = NewAddressFromBech32("haze1invalid")
	assert.ErrorIs(t, err, ErrMalformedWireValue)
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, Address{1}.IsZero())
}
