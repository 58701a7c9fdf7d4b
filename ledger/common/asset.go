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
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// AssetAction discriminants. The numeric values are part of the signed payload.
const (
	AssetActionCreate    AssetAction = 0
	AssetActionUpdate    AssetAction = 1
	AssetActionCondense  AssetAction = 2
	AssetActionEvaporate AssetAction = 3
	AssetActionMerge     AssetAction = 4
	AssetActionSplit     AssetAction = 5
)

// AssetAction is the operation performed by a MistbornAsset transaction
type AssetAction uint8

var assetActionNames = map[AssetAction]string{
	AssetActionCreate:    "Create",
	AssetActionUpdate:    "Update",
	AssetActionCondense:  "Condense",
	AssetActionEvaporate: "Evaporate",
	AssetActionMerge:     "Merge",
	AssetActionSplit:     "Split",
}

func (a AssetAction) String() string {
	if name, ok := assetActionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AssetAction(%d)", uint8(a))
}

func (a AssetAction) Valid() bool {
	_, ok := assetActionNames[a]
	return ok
}

// ParseAssetAction returns the action with the given wire name
func ParseAssetAction(name string) (AssetAction, error) {
	for action, actionName := range assetActionNames {
		if actionName == name {
			return action, nil
		}
	}
	return 0, MalformedWireValueError{
		Field:  "action",
		Value:  name,
		Reason: "unknown asset action",
	}
}

func (a AssetAction) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, NewPreconditionError("action", "unknown asset action %d", uint8(a))
	}
	return json.Marshal(a.String())
}

func (a *AssetAction) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return MalformedWireValueError{Field: "action", Reason: "expected string", Err: err}
	}
	tmp, err := ParseAssetAction(name)
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// DensityLevel discriminants, in ascending size order
const (
	DensityEthereal DensityLevel = 0
	DensityLight    DensityLevel = 1
	DensityDense    DensityLevel = 2
	DensityCore     DensityLevel = 3
)

// DensityLevel is the size tier of a Mistborn asset
type DensityLevel uint8

var densityLevelNames = map[DensityLevel]string{
	DensityEthereal: "Ethereal",
	DensityLight:    "Light",
	DensityDense:    "Dense",
	DensityCore:     "Core",
}

func (d DensityLevel) String() string {
	if name, ok := densityLevelNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DensityLevel(%d)", uint8(d))
}

func (d DensityLevel) Valid() bool {
	_, ok := densityLevelNames[d]
	return ok
}

// MaxSize returns the size ceiling in bytes for the tier. The ceiling is
// enforced by the ledger, not by this package.
func (d DensityLevel) MaxSize() int {
	switch d {
	case DensityEthereal:
		return 5 * 1024
	case DensityLight:
		return 50 * 1024
	case DensityDense:
		return 5 * 1024 * 1024
	case DensityCore:
		return 50 * 1024 * 1024
	default:
		return 0
	}
}

func ParseDensityLevel(name string) (DensityLevel, error) {
	for level, levelName := range densityLevelNames {
		if levelName == name {
			return level, nil
		}
	}
	return 0, MalformedWireValueError{
		Field:  "density",
		Value:  name,
		Reason: "unknown density level",
	}
}

func (d DensityLevel) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, NewPreconditionError("density", "unknown density level %d", uint8(d))
	}
	return json.Marshal(d.String())
}

func (d *DensityLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return MalformedWireValueError{Field: "density", Reason: "expected string", Err: err}
	}
	tmp, err := ParseDensityLevel(name)
	if err != nil {
		return err
	}
	*d = tmp
	return nil
}

// PermissionLevel discriminants
const (
	// PermissionGameContract limits access to asset operations from a matching game
	PermissionGameContract PermissionLevel = 0
	// PermissionPublicRead grants read-only access
	PermissionPublicRead PermissionLevel = 1
)

type PermissionLevel uint8

func (p PermissionLevel) String() string {
	switch p {
	case PermissionGameContract:
		return "GameContract"
	case PermissionPublicRead:
		return "PublicRead"
	default:
		return fmt.Sprintf("PermissionLevel(%d)", uint8(p))
	}
}

func (p PermissionLevel) Valid() bool {
	return p == PermissionGameContract || p == PermissionPublicRead
}

func ParsePermissionLevel(name string) (PermissionLevel, error) {
	switch name {
	case "GameContract":
		return PermissionGameContract, nil
	case "PublicRead":
		return PermissionPublicRead, nil
	}
	return 0, MalformedWireValueError{
		Field:  "level",
		Value:  name,
		Reason: "unknown permission level",
	}
}

func (p PermissionLevel) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, NewPreconditionError("level", "unknown permission level %d", uint8(p))
	}
	return json.Marshal(p.String())
}

func (p *PermissionLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return MalformedWireValueError{Field: "level", Reason: "expected string", Err: err}
	}
	tmp, err := ParsePermissionLevel(name)
	if err != nil {
		return err
	}
	*p = tmp
	return nil
}

// Attribute is a named trait of an asset. Rarity is a display value only.
type Attribute struct {
	Name   string   `json:"name"`
	Value  string   `json:"value"`
	Rarity *float64 `json:"rarity,omitempty"`
}

// AssetData is the body of a MistbornAsset transaction
type AssetData struct {
	Density    DensityLevel      `json:"density"`
	Metadata   map[string]string `json:"metadata"`
	Attributes []Attribute       `json:"attributes"`
	// GameId is sent as an explicit null when unset
	GameId *string `json:"game_id"`
	Owner  Address `json:"owner"`
}

// Clone returns a deep copy of d
func (d AssetData) Clone() AssetData {
	ret := d
	ret.Metadata = maps.Clone(d.Metadata)
	ret.Attributes = slices.Clone(d.Attributes)
	for i, a := range ret.Attributes {
		ret.Attributes[i].Rarity = clonePtr(a.Rarity)
	}
	ret.GameId = clonePtr(d.GameId)
	return ret
}

func (d AssetData) MarshalJSON() ([]byte, error) {
	type tAssetData AssetData
	tmp := tAssetData(d)
	// The verifier expects an object and an array, never null
	if tmp.Metadata == nil {
		tmp.Metadata = map[string]string{}
	}
	if tmp.Attributes == nil {
		tmp.Attributes = []Attribute{}
	}
	return json.Marshal(tmp)
}

func (d *AssetData) UnmarshalJSON(data []byte) error {
	type tAssetData AssetData
	var tmp tAssetData
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	// Empty collections are held as nil in memory
	if len(tmp.Metadata) == 0 {
		tmp.Metadata = nil
	}
	if len(tmp.Attributes) == 0 {
		tmp.Attributes = nil
	}
	*d = AssetData(tmp)
	return nil
}

// AssetPermission grants a non-owner access to an asset
type AssetPermission struct {
	Grantee Address
	Level   PermissionLevel
	// GameId restricts a GameContract grant to one game
	GameId *string
	// ExpiresAt is a Unix timestamp in seconds
	ExpiresAt *uint64
}

// Clone returns a copy of p that shares no pointers with it
func (p AssetPermission) Clone() AssetPermission {
	ret := p
	ret.GameId = clonePtr(p.GameId)
	ret.ExpiresAt = clonePtr(p.ExpiresAt)
	return ret
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	tmp := *v
	return &tmp
}

type assetPermissionWire struct {
	Grantee Address         `json:"grantee"`
	Level   PermissionLevel `json:"level"`
	// Sent as explicit null when unset
	GameId    *string        `json:"game_id"`
	ExpiresAt *DecimalUint64 `json:"expires_at,omitempty"`
}

func (p AssetPermission) MarshalJSON() ([]byte, error) {
	return json.Marshal(assetPermissionWire{
		Grantee:   p.Grantee,
		Level:     p.Level,
		GameId:    p.GameId,
		ExpiresAt: OptionalDecimal(p.ExpiresAt),
	})
}

func (p *AssetPermission) UnmarshalJSON(data []byte) error {
	var tmp assetPermissionWire
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = AssetPermission{
		Grantee:   tmp.Grantee,
		Level:     tmp.Level,
		GameId:    tmp.GameId,
		ExpiresAt: OptionalUint64(tmp.ExpiresAt),
	}
	return nil
}
