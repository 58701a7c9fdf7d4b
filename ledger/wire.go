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
	"encoding/hex"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/blinklabs-io/gohaze/ledger/common"
)

// Transport shapes. Fixed-length identifiers are lowercase hex, 64-bit
// quantities are decimal strings, and unset optionals are omitted.

type headerWire struct {
	ChainId          *common.DecimalUint64 `json:"chain_id,omitempty"`
	ValidUntilHeight *common.DecimalUint64 `json:"valid_until_height,omitempty"`
	Signature        string                `json:"signature,omitempty"`
}

type transferWire struct {
	From   string               `json:"from"`
	To     string               `json:"to"`
	Amount common.DecimalUint64 `json:"amount"`
	Fee    common.DecimalUint64 `json:"fee"`
	Nonce  common.DecimalUint64 `json:"nonce"`
	headerWire
}

type stakeWire struct {
	From      string               `json:"from"`
	Validator string               `json:"validator"`
	Amount    common.DecimalUint64 `json:"amount"`
	Fee       common.DecimalUint64 `json:"fee"`
	Nonce     common.DecimalUint64 `json:"nonce"`
	headerWire
}

type contractCallWire struct {
	From     string               `json:"from"`
	Contract string               `json:"contract"`
	Method   string               `json:"method"`
	Args     string               `json:"args"`
	GasLimit common.DecimalUint64 `json:"gas_limit"`
	Fee      common.DecimalUint64 `json:"fee"`
	Nonce    common.DecimalUint64 `json:"nonce"`
	headerWire
}

type deployContractWire struct {
	From     string               `json:"from"`
	Code     string               `json:"code"`
	GasLimit common.DecimalUint64 `json:"gas_limit"`
	Fee      common.DecimalUint64 `json:"fee"`
	Nonce    common.DecimalUint64 `json:"nonce"`
	headerWire
}

type assetOpWire struct {
	From    string               `json:"from"`
	Action  common.AssetAction   `json:"action"`
	AssetId string               `json:"asset_id"`
	Data    common.AssetData     `json:"data"`
	Fee     common.DecimalUint64 `json:"fee"`
	Nonce   common.DecimalUint64 `json:"nonce"`
	headerWire
}

type setPermissionsWire struct {
	From        string                   `json:"from"`
	AssetId     string                   `json:"asset_id"`
	Permissions []common.AssetPermission `json:"permissions"`
	PublicRead  bool                     `json:"public_read"`
	Owner       string                   `json:"owner"`
	Fee         common.DecimalUint64     `json:"fee"`
	Nonce       common.DecimalUint64     `json:"nonce"`
	headerWire
}

// MarshalTransaction encodes tx in its wire form, {"<Tag>": {...}}
func MarshalTransaction(tx Transaction) ([]byte, error) {
	if err := Validate(tx); err != nil {
		return nil, err
	}
	var body any
	switch t := tx.(type) {
	case *TransferTx:
		body = transferWire{
			From:       t.From.String(),
			To:         t.To.String(),
			Amount:     common.DecimalUint64(t.Amount),
			Fee:        common.DecimalUint64(t.Fee),
			Nonce:      common.DecimalUint64(t.Nonce),
			headerWire: newHeaderWire(&t.TxHeader),
		}
	case *StakeTx:
		body = stakeWire{
			From:       t.From.String(),
			Validator:  t.Validator.String(),
			Amount:     common.DecimalUint64(t.Amount),
			Fee:        common.DecimalUint64(t.Fee),
			Nonce:      common.DecimalUint64(t.Nonce),
			headerWire: newHeaderWire(&t.TxHeader),
		}
	case *ContractCallTx:
		body = contractCallWire{
			From:       t.From.String(),
			Contract:   t.Contract.String(),
			Method:     t.Method,
			Args:       hex.EncodeToString(t.Args),
			GasLimit:   common.DecimalUint64(t.GasLimit),
			Fee:        common.DecimalUint64(t.Fee),
			Nonce:      common.DecimalUint64(t.Nonce),
			headerWire: newHeaderWire(&t.TxHeader),
		}
	case *DeployContractTx:
		body = deployContractWire{
			From:       t.From.String(),
			Code:       hex.EncodeToString(t.Code),
			GasLimit:   common.DecimalUint64(t.GasLimit),
			Fee:        common.DecimalUint64(t.Fee),
			Nonce:      common.DecimalUint64(t.Nonce),
			headerWire: newHeaderWire(&t.TxHeader),
		}
	case *AssetOpTx:
		body = assetOpWire{
			From:       t.From.String(),
			Action:     t.Action,
			AssetId:    t.AssetId.String(),
			Data:       wireAssetData(t),
			Fee:        common.DecimalUint64(t.Fee),
			Nonce:      common.DecimalUint64(t.Nonce),
			headerWire: newHeaderWire(&t.TxHeader),
		}
	case *SetPermissionsTx:
		perms := t.Permissions
		if perms == nil {
			perms = []common.AssetPermission{}
		}
		body = setPermissionsWire{
			From:        t.From.String(),
			AssetId:     t.AssetId.String(),
			Permissions: perms,
			PublicRead:  t.PublicRead,
			Owner:       t.Owner.String(),
			Fee:         common.DecimalUint64(t.Fee),
			Nonce:       common.DecimalUint64(t.Nonce),
			headerWire:  newHeaderWire(&t.TxHeader),
		}
	default:
		return nil, UnknownVariantError{Tx: tx}
	}
	bodyData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage{tx.Tag(): bodyData})
}

// UnmarshalTransaction decodes the wire form produced by MarshalTransaction
func UnmarshalTransaction(data []byte) (Transaction, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, common.MalformedWireValueError{
			Field:  "transaction",
			Reason: "expected an object keyed by variant",
			Err:    err,
		}
	}
	if len(outer) != 1 {
		return nil, common.MalformedWireValueError{
			Field:  "transaction",
			Reason: "expected exactly one variant key",
		}
	}
	var tag string
	var body json.RawMessage
	for k, v := range outer {
		tag, body = k, v
	}
	tx, err := NewTransactionFromTag(tag)
	if err != nil {
		return nil, err
	}
	switch t := tx.(type) {
	case *TransferTx:
		var w transferWire
		if err := decodeBody(tag, body, w.fields()); err != nil {
			return nil, err
		}
		if t.TxHeader, err = w.header(w.From, w.Fee, w.Nonce); err != nil {
			return nil, err
		}
		if t.To, err = common.NewAddressFromHex("to", w.To); err != nil {
			return nil, err
		}
		t.Amount = uint64(w.Amount)
	case *StakeTx:
		var w stakeWire
		if err := decodeBody(tag, body, w.fields()); err != nil {
			return nil, err
		}
		if t.TxHeader, err = w.header(w.From, w.Fee, w.Nonce); err != nil {
			return nil, err
		}
		if t.Validator, err = common.NewAddressFromHex("validator", w.Validator); err != nil {
			return nil, err
		}
		t.Amount = uint64(w.Amount)
	case *ContractCallTx:
		var w contractCallWire
		if err := decodeBody(tag, body, w.fields()); err != nil {
			return nil, err
		}
		if t.TxHeader, err = w.header(w.From, w.Fee, w.Nonce); err != nil {
			return nil, err
		}
		if t.Contract, err = common.NewAddressFromHex("contract", w.Contract); err != nil {
			return nil, err
		}
		if t.Args, err = decodeOptionalBytes("args", w.Args); err != nil {
			return nil, err
		}
		t.Method = w.Method
		t.GasLimit = uint64(w.GasLimit)
	case *DeployContractTx:
		var w deployContractWire
		if err := decodeBody(tag, body, w.fields()); err != nil {
			return nil, err
		}
		if t.TxHeader, err = w.header(w.From, w.Fee, w.Nonce); err != nil {
			return nil, err
		}
		if t.Code, err = decodeOptionalBytes("code", w.Code); err != nil {
			return nil, err
		}
		t.GasLimit = uint64(w.GasLimit)
	case *AssetOpTx:
		var w assetOpWire
		if err := decodeBody(tag, body, w.fields()); err != nil {
			return nil, err
		}
		if t.TxHeader, err = w.header(w.From, w.Fee, w.Nonce); err != nil {
			return nil, err
		}
		if t.AssetId, err = common.NewHashFromHex("asset_id", w.AssetId); err != nil {
			return nil, err
		}
		t.Action = w.Action
		if err := t.takeAssetData(w.Data); err != nil {
			return nil, err
		}
	case *SetPermissionsTx:
		var w setPermissionsWire
		if err := decodeBody(tag, body, w.fields()); err != nil {
			return nil, err
		}
		if t.TxHeader, err = w.header(w.From, w.Fee, w.Nonce); err != nil {
			return nil, err
		}
		if t.AssetId, err = common.NewHashFromHex("asset_id", w.AssetId); err != nil {
			return nil, err
		}
		if t.Owner, err = common.NewAddressFromHex("owner", w.Owner); err != nil {
			return nil, err
		}
		t.PublicRead = w.PublicRead
		if len(w.Permissions) > 0 {
			t.Permissions = w.Permissions
		}
	default:
		return nil, UnknownVariantError{Tx: tx}
	}
	// Decoded values the payload cannot represent are malformed input
	if err := Validate(tx); err != nil {
		return nil, common.MalformedWireValueError{Field: tag, Err: err}
	}
	return tx, nil
}

// Submission is the request body accepted by the ledger's transaction endpoint
type Submission struct {
	Transaction Transaction
}

func (s Submission) MarshalJSON() ([]byte, error) {
	txData, err := MarshalTransaction(s.Transaction)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Transaction json.RawMessage `json:"transaction"`
	}{Transaction: txData})
}

func (s *Submission) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Transaction json.RawMessage `json:"transaction"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return common.MalformedWireValueError{Field: "submission", Err: err}
	}
	if len(tmp.Transaction) == 0 {
		return common.MalformedWireValueError{Field: "transaction", Reason: "missing"}
	}
	tx, err := UnmarshalTransaction(tmp.Transaction)
	if err != nil {
		return err
	}
	s.Transaction = tx
	return nil
}

func newHeaderWire(h *TxHeader) headerWire {
	ret := headerWire{
		ChainId:          common.OptionalDecimal(h.ChainId),
		ValidUntilHeight: common.OptionalDecimal(h.ValidUntilHeight),
	}
	if h.Signature != nil {
		ret.Signature = h.Signature.String()
	}
	return ret
}

func (w headerWire) header(from string, fee common.DecimalUint64, nonce common.DecimalUint64) (TxHeader, error) {
	var h TxHeader
	var err error
	if h.From, err = common.NewAddressFromHex("from", from); err != nil {
		return h, err
	}
	h.Fee = uint64(fee)
	h.Nonce = uint64(nonce)
	h.ChainId = common.OptionalUint64(w.ChainId)
	h.ValidUntilHeight = common.OptionalUint64(w.ValidUntilHeight)
	if w.Signature != "" {
		sig, err := common.NewSignatureFromHex("signature", w.Signature)
		if err != nil {
			return h, err
		}
		h.Signature = &sig
	}
	return h, nil
}

// wireField binds one key of a variant body to its destination
type wireField struct {
	name     string
	dest     any
	required bool
}

func required(name string, dest any) wireField {
	return wireField{name: name, dest: dest, required: true}
}

func optional(name string, dest any) wireField {
	return wireField{name: name, dest: dest}
}

// decodeBody decodes a variant body key by key. Every required key must be
// present and non-null, and keys outside fields are rejected.
func decodeBody(tag string, body []byte, fields []wireField) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return common.MalformedWireValueError{
			Field:  tag,
			Reason: "expected an object",
			Err:    err,
		}
	}
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.name] = struct{}{}
		value, ok := raw[f.name]
		isNull := ok && bytes.Equal(bytes.TrimSpace(value), []byte("null"))
		if !ok || isNull {
			if !f.required {
				continue
			}
			reason := "missing required field"
			if isNull {
				reason = "null where a value is required"
			}
			return common.MalformedWireValueError{Field: f.name, Reason: reason}
		}
		if err := json.Unmarshal(value, f.dest); err != nil {
			return fieldError(f.name, err)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		if _, ok := known[k]; !ok {
			return common.MalformedWireValueError{
				Field:  tag,
				Value:  k,
				Reason: "unknown field",
			}
		}
	}
	return nil
}

// fieldError names the offending key, keeping a more specific field from a
// nested decoder when there is one
func fieldError(name string, err error) error {
	var wireErr common.MalformedWireValueError
	if errors.As(err, &wireErr) {
		if wireErr.Field == "" {
			wireErr.Field = name
			return wireErr
		}
		return err
	}
	return common.MalformedWireValueError{Field: name, Err: err}
}

func (w *headerWire) fields() []wireField {
	return []wireField{
		optional("chain_id", &w.ChainId),
		optional("valid_until_height", &w.ValidUntilHeight),
		optional("signature", &w.Signature),
	}
}

func (w *transferWire) fields() []wireField {
	return append(
		[]wireField{
			required("from", &w.From),
			required("to", &w.To),
			required("amount", &w.Amount),
			required("fee", &w.Fee),
			required("nonce", &w.Nonce),
		},
		w.headerWire.fields()...,
	)
}

func (w *stakeWire) fields() []wireField {
	return append(
		[]wireField{
			required("from", &w.From),
			required("validator", &w.Validator),
			required("amount", &w.Amount),
			required("fee", &w.Fee),
			required("nonce", &w.Nonce),
		},
		w.headerWire.fields()...,
	)
}

func (w *contractCallWire) fields() []wireField {
	return append(
		[]wireField{
			required("from", &w.From),
			required("contract", &w.Contract),
			required("method", &w.Method),
			required("args", &w.Args),
			required("gas_limit", &w.GasLimit),
			required("fee", &w.Fee),
			required("nonce", &w.Nonce),
		},
		w.headerWire.fields()...,
	)
}

func (w *deployContractWire) fields() []wireField {
	return append(
		[]wireField{
			required("from", &w.From),
			required("code", &w.Code),
			required("gas_limit", &w.GasLimit),
			required("fee", &w.Fee),
			required("nonce", &w.Nonce),
		},
		w.headerWire.fields()...,
	)
}

func (w *assetOpWire) fields() []wireField {
	return append(
		[]wireField{
			required("from", &w.From),
			required("action", &w.Action),
			required("asset_id", &w.AssetId),
			required("data", &w.Data),
			required("fee", &w.Fee),
			required("nonce", &w.Nonce),
		},
		w.headerWire.fields()...,
	)
}

func (w *setPermissionsWire) fields() []wireField {
	return append(
		[]wireField{
			required("from", &w.From),
			required("asset_id", &w.AssetId),
			required("permissions", &w.Permissions),
			required("public_read", &w.PublicRead),
			required("owner", &w.Owner),
			required("fee", &w.Fee),
			required("nonce", &w.Nonce),
		},
		w.headerWire.fields()...,
	)
}

// decodeOptionalBytes decodes a hex field where empty means no bytes
func decodeOptionalBytes(field string, s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return common.DecodeHex(field, s)
}

// wireAssetData moves the typed Merge/Split extras into the metadata map
func wireAssetData(t *AssetOpTx) common.AssetData {
	data := t.Data
	if t.OtherAssetId == nil && len(t.Components) == 0 {
		return data
	}
	data.Metadata = make(map[string]string, len(t.Data.Metadata)+1)
	maps.Copy(data.Metadata, t.Data.Metadata)
	if t.OtherAssetId != nil {
		data.Metadata[MetadataKeyOtherAssetId] = t.OtherAssetId.String()
	}
	if len(t.Components) > 0 {
		data.Metadata[MetadataKeyComponents] = strings.Join(t.Components, ",")
	}
	return data
}

// takeAssetData is the inverse of wireAssetData. Only the key owned by the
// action is lifted out of the metadata map. The other reserved key stays in
// place as ordinary metadata, which the payload never signs.
func (t *AssetOpTx) takeAssetData(data common.AssetData) error {
	t.Data = data
	t.OtherAssetId = nil
	t.Components = nil
	key := reservedMetadataKey(t.Action)
	if key == "" {
		return nil
	}
	value, ok := data.Metadata[key]
	if !ok {
		return nil
	}
	metadata := maps.Clone(data.Metadata)
	delete(metadata, key)
	if len(metadata) == 0 {
		metadata = nil
	}
	t.Data.Metadata = metadata
	switch t.Action {
	case common.AssetActionMerge:
		id, err := common.NewHashFromHex(key, value)
		if err != nil {
			return err
		}
		t.OtherAssetId = &id
	case common.AssetActionSplit:
		// "a,,b" and "a," split and join back to the same signed bytes
		if value != "" {
			t.Components = strings.Split(value, ",")
		}
	}
	return nil
}
