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

package ledger

import (
	"bytes"
	stdbin "encoding/binary"
	"strings"

	"github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/gagliardetto/binary"
)

// SigningPayload returns the canonical byte sequence that is signed for tx.
//
// The layout is positional: the variant tag with no length prefix, then fixed
// fields in variant order (32-byte identifiers raw, enums as one byte, u64 as
// 8 bytes little-endian), variable fields at fixed positions, and finally the
// optional chain_id and valid_until_height, each omitted when unset. The
// signature is never part of the payload.
func SigningPayload(tx Transaction) ([]byte, error) {
	if err := Validate(tx); err != nil {
		return nil, err
	}
	w := newPayloadWriter()
	w.tag(tx.Tag())
	switch t := tx.(type) {
	case *TransferTx:
		w.raw(t.From[:])
		w.raw(t.To[:])
		w.u64(t.Amount)
	case *StakeTx:
		w.raw(t.From[:])
		w.raw(t.Validator[:])
		w.u64(t.Amount)
	case *ContractCallTx:
		w.raw(t.From[:])
		w.raw(t.Contract[:])
		w.raw([]byte(t.Method))
		w.byte(0)
		w.raw(t.Args)
		w.u64(t.GasLimit)
	case *DeployContractTx:
		w.raw(t.From[:])
		w.raw(t.Code)
		w.u64(t.GasLimit)
	case *AssetOpTx:
		w.raw(t.From[:])
		w.byte(byte(t.Action))
		w.raw(t.AssetId[:])
		w.raw(t.Data.Owner[:])
		w.byte(byte(t.Data.Density))
		switch t.Action {
		case common.AssetActionMerge:
			if t.OtherAssetId != nil {
				w.raw(t.OtherAssetId[:])
			}
		case common.AssetActionSplit:
			if len(t.Components) > 0 {
				w.raw([]byte(strings.Join(t.Components, ",")))
			}
		}
	case *SetPermissionsTx:
		w.raw(t.From[:])
		w.raw(t.AssetId[:])
		w.raw(t.Owner[:])
		w.bool(t.PublicRead)
		for _, p := range t.Permissions {
			w.raw(p.Grantee[:])
			w.byte(byte(p.Level))
			if p.GameId != nil {
				w.raw([]byte(*p.GameId))
			}
			w.byte(0)
			if p.ExpiresAt != nil {
				w.u64(*p.ExpiresAt)
			}
		}
	default:
		return nil, UnknownVariantError{Tx: tx}
	}
	h := tx.Header()
	w.u64(h.Fee)
	w.u64(h.Nonce)
	if h.ChainId != nil {
		w.u64(*h.ChainId)
	}
	if h.ValidUntilHeight != nil {
		w.u64(*h.ValidUntilHeight)
	}
	return w.bytes()
}

// payloadWriter appends fields in order and keeps the first write error
type payloadWriter struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

func newPayloadWriter() *payloadWriter {
	buf := bytes.NewBuffer(make([]byte, 0, 256))
	return &payloadWriter{
		buf: buf,
		enc: bin.NewBinEncoder(buf),
	}
}

func (w *payloadWriter) tag(tag string) {
	w.raw([]byte(tag))
}

// raw appends data without a length prefix
func (w *payloadWriter) raw(data []byte) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteBytes(data, false)
}

func (w *payloadWriter) byte(b byte) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteByte(b)
}

func (w *payloadWriter) bool(b bool) {
	if b {
		w.byte(1)
	} else {
		w.byte(0)
	}
}

func (w *payloadWriter) u64(v uint64) {
	if w.err != nil {
		return
	}
	w.err = w.enc.WriteUint64(v, stdbin.LittleEndian)
}

func (w *payloadWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}
