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
	"fmt"

	"github.com/blinklabs-io/gohaze/cbor"
	"github.com/blinklabs-io/gohaze/ledger/common"
)

// ContentHash returns the Blake2b-256 content hash of tx.
//
// The hash is a local display and deduplication key. It is computed over a
// deterministic CBOR view of the transaction without its signature and is not
// guaranteed to match any hash reported by the ledger.
func ContentHash(tx Transaction) (common.Hash, error) {
	return ContentHashWith(tx, common.HashAlgorithmBlake2b256)
}

// ContentHashWith returns the content hash of tx using the given digest
func ContentHashWith(tx Transaction, algo common.HashAlgorithm) (common.Hash, error) {
	data, err := HashPreimage(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return algo.Sum(data)
}

// HashPreimage returns the CBOR bytes that ContentHash digests
func HashPreimage(tx Transaction) ([]byte, error) {
	view, err := hashView(tx)
	if err != nil {
		return nil, err
	}
	data, err := cbor.Encode(view)
	if err != nil {
		return nil, fmt.Errorf("encode hash view: %w", err)
	}
	return data, nil
}

// hashView builds the ordered field list that is serialized for hashing
func hashView(tx Transaction) ([]any, error) {
	if err := Validate(tx); err != nil {
		return nil, err
	}
	h := tx.Header()
	view := []any{tx.Tag(), h.From[:]}
	switch t := tx.(type) {
	case *TransferTx:
		view = append(view, t.To[:], t.Amount)
	case *StakeTx:
		view = append(view, t.Validator[:], t.Amount)
	case *ContractCallTx:
		view = append(view, t.Contract[:], t.Method, byteString(t.Args), t.GasLimit)
	case *DeployContractTx:
		view = append(view, byteString(t.Code), t.GasLimit)
	case *AssetOpTx:
		var other []byte
		if t.OtherAssetId != nil {
			other = t.OtherAssetId[:]
		}
		view = append(
			view,
			uint8(t.Action),
			t.AssetId[:],
			assetDataView(t.Data),
			other,
			stringList(t.Components),
		)
	case *SetPermissionsTx:
		perms := make([]any, 0, len(t.Permissions))
		for _, p := range t.Permissions {
			perms = append(perms, []any{p.Grantee[:], uint8(p.Level), p.GameId, p.ExpiresAt})
		}
		view = append(view, t.AssetId[:], t.Owner[:], t.PublicRead, perms)
	default:
		return nil, UnknownVariantError{Tx: tx}
	}
	view = append(view, h.Fee, h.Nonce, h.ChainId, h.ValidUntilHeight)
	return view, nil
}

func assetDataView(d common.AssetData) []any {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	attrs := make([]any, 0, len(d.Attributes))
	for _, a := range d.Attributes {
		attrs = append(attrs, []any{a.Name, a.Value, a.Rarity})
	}
	return []any{uint8(d.Density), metadata, attrs, d.GameId, d.Owner[:]}
}

// byteString treats nil and empty byte slices the same
func byteString(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func stringList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
