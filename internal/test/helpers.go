package test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Filled32 returns 32 bytes all set to b, for use as an address or hash fixture
func Filled32(b byte) [32]byte {
	var ret [32]byte
	copy(ret[:], bytes.Repeat([]byte{b}, 32))
	return ret
}

// Uint64Ptr returns a pointer to v
func Uint64Ptr(v uint64) *uint64 {
	return &v
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
