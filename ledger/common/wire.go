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
	"encoding/hex"
	"fmt"
	"strconv"
)

// DecodeHex decodes a hex string of any even length
func DecodeHex(field string, s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, MalformedWireValueError{
			Field:  field,
			Value:  s,
			Reason: "odd-length hex string",
		}
	}
	ret, err := hex.DecodeString(s)
	if err != nil {
		return nil, MalformedWireValueError{
			Field:  field,
			Value:  s,
			Reason: "invalid hex",
			Err:    err,
		}
	}
	return ret, nil
}

// DecodeHexInto decodes a hex string into dst, which fixes the expected length
func DecodeHexInto(field string, s string, dst []byte) error {
	if len(s) != len(dst)*2 {
		if len(s)%2 != 0 {
			return MalformedWireValueError{
				Field:  field,
				Value:  s,
				Reason: "odd-length hex string",
			}
		}
		return MalformedWireValueError{
			Field: field,
			Value: s,
			Reason: fmt.Sprintf(
				"expected %d hex characters, got %d",
				len(dst)*2,
				len(s),
			),
		}
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return MalformedWireValueError{
			Field:  field,
			Value:  s,
			Reason: "invalid hex",
			Err:    err,
		}
	}
	return nil
}

// DecodeUint64 parses a base-10 unsigned integer string. Signs, whitespace,
// fractions and out-of-range values are rejected.
func DecodeUint64(field string, s string) (uint64, error) {
	if s == "" {
		return 0, MalformedWireValueError{
			Field:  field,
			Reason: "empty numeric string",
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, MalformedWireValueError{
			Field:  field,
			Value:  s,
			Reason: "not an unsigned 64-bit decimal",
			Err:    err,
		}
	}
	return v, nil
}

// DecimalUint64 is a uint64 transported as a decimal string. Decoding also
// accepts a bare JSON integer, which some read endpoints still emit.
type DecimalUint64 uint64

func (d DecimalUint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(d), 10))), nil
}

func (d *DecimalUint64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return MalformedWireValueError{Reason: "null where a number is required"}
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return MalformedWireValueError{Value: s, Reason: "invalid string", Err: err}
		}
		s = unquoted
	}
	v, err := DecodeUint64("", s)
	if err != nil {
		return err
	}
	*d = DecimalUint64(v)
	return nil
}

// OptionalUint64 converts an optional transport value to its in-memory form
func OptionalUint64(d *DecimalUint64) *uint64 {
	if d == nil {
		return nil
	}
	v := uint64(*d)
	return &v
}

// OptionalDecimal converts an optional in-memory value to its transport form
func OptionalDecimal(v *uint64) *DecimalUint64 {
	if v == nil {
		return nil
	}
	d := DecimalUint64(*v)
	return &d
}
