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
	"strings"

	"github.com/blinklabs-io/gohaze/ledger/common"
)

// Validate checks the preconditions the payload encoder and wire codec rely on.
// Fixed-length fields are enforced by their types; this covers the rest.
func Validate(tx Transaction) error {
	if tx == nil {
		return common.NewPreconditionError("transaction", "nil transaction")
	}
	switch t := tx.(type) {
	case *TransferTx, *StakeTx, *DeployContractTx:
		return nil
	case *ContractCallTx:
		// The method name is NUL-terminated in the payload
		if strings.IndexByte(t.Method, 0) >= 0 {
			return common.NewPreconditionError("method", "must not contain a NUL byte")
		}
		if t.Method == "" {
			return common.NewPreconditionError("method", "must not be empty")
		}
		return nil
	case *AssetOpTx:
		return validateAssetOp(t)
	case *SetPermissionsTx:
		for _, p := range t.Permissions {
			if !p.Level.Valid() {
				return common.NewPreconditionError("level", "unknown permission level %d", uint8(p.Level))
			}
			if p.GameId != nil && strings.IndexByte(*p.GameId, 0) >= 0 {
				return common.NewPreconditionError("game_id", "must not contain a NUL byte")
			}
		}
		return nil
	default:
		return UnknownVariantError{Tx: tx}
	}
}

func validateAssetOp(t *AssetOpTx) error {
	if !t.Action.Valid() {
		return common.NewPreconditionError("action", "unknown asset action %d", uint8(t.Action))
	}
	if !t.Data.Density.Valid() {
		return common.NewPreconditionError("density", "unknown density level %d", uint8(t.Data.Density))
	}
	// Merge and Split each own one reserved key, carried by the typed field.
	// Any other reserved key is ordinary metadata the payload never signs.
	if key := reservedMetadataKey(t.Action); key != "" {
		if _, ok := t.Data.Metadata[key]; ok {
			return common.NewPreconditionError(
				"metadata",
				"key %q is reserved for %s, use the typed field",
				key,
				t.Action,
			)
		}
	}
	if t.OtherAssetId != nil && t.Action != common.AssetActionMerge {
		return common.NewPreconditionError("other_asset_id", "only valid for Merge, not %s", t.Action)
	}
	if len(t.Components) > 0 {
		if t.Action != common.AssetActionSplit {
			return common.NewPreconditionError("components", "only valid for Split, not %s", t.Action)
		}
		// A lone empty component joins to "", which reads back as no components
		if len(t.Components) == 1 && t.Components[0] == "" {
			return common.NewPreconditionError("components", "single empty component")
		}
		for _, c := range t.Components {
			if strings.Contains(c, ",") {
				return common.NewPreconditionError("components", "component %q contains a comma", c)
			}
		}
	}
	return nil
}

func reservedMetadataKey(action common.AssetAction) string {
	switch action {
	case common.AssetActionMerge:
		return MetadataKeyOtherAssetId
	case common.AssetActionSplit:
		return MetadataKeyComponents
	}
	return ""
}
