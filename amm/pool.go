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

// Package amm quotes swaps and liquidity deposits against a constant-product
// pool snapshot.
//
// Quotes are computed in 256-bit integer arithmetic and truncate at every
// division in the same order as the ledger's own bookkeeping, so a quote
// matches the amount the ledger will credit for the same snapshot.
package amm

import (
	"encoding/json"

	"github.com/blinklabs-io/gohaze/ledger/common"
)

// BasisPointsDenominator is 100% expressed in basis points
const BasisPointsDenominator = 10000

// Pool is a read-only snapshot of a liquidity pool
type Pool struct {
	PoolId   string
	Asset1   string
	Asset2   string
	Reserve1 uint64
	Reserve2 uint64
	// FeeRate is in basis points
	FeeRate        uint64
	TotalLiquidity uint64
}

// Side identifies one of the two assets of a pool
type Side uint8

const (
	SideAsset1 Side = 1
	SideAsset2 Side = 2
)

func (s Side) String() string {
	switch s {
	case SideAsset1:
		return "asset1"
	case SideAsset2:
		return "asset2"
	default:
		return "unknown"
	}
}

// Validate checks the pool invariants a quote relies on
func (p Pool) Validate() error {
	if p.FeeRate > BasisPointsDenominator {
		return common.NewPreconditionError(
			"fee_rate",
			"%d exceeds %d basis points",
			p.FeeRate,
			BasisPointsDenominator,
		)
	}
	return nil
}

// SideOf returns the side of the pool holding assetId
func (p Pool) SideOf(assetId string) (Side, error) {
	switch assetId {
	case p.Asset1:
		return SideAsset1, nil
	case p.Asset2:
		return SideAsset2, nil
	}
	return 0, common.NewPreconditionError(
		"asset",
		"%q is not traded by pool %q",
		assetId,
		p.PoolId,
	)
}

// reserves returns the input and output reserves for a swap into side
func (p Pool) reserves(side Side) (uint64, uint64, error) {
	switch side {
	case SideAsset1:
		return p.Reserve1, p.Reserve2, nil
	case SideAsset2:
		return p.Reserve2, p.Reserve1, nil
	}
	return 0, 0, common.NewPreconditionError("side", "unknown pool side %d", uint8(side))
}

type poolWire struct {
	PoolId         string               `json:"pool_id"`
	Asset1         string               `json:"asset1"`
	Asset2         string               `json:"asset2"`
	Reserve1       common.DecimalUint64 `json:"reserve1"`
	Reserve2       common.DecimalUint64 `json:"reserve2"`
	FeeRate        common.DecimalUint64 `json:"fee_rate"`
	TotalLiquidity common.DecimalUint64 `json:"total_liquidity"`
}

func (p Pool) MarshalJSON() ([]byte, error) {
	return json.Marshal(poolWire{
		PoolId:         p.PoolId,
		Asset1:         p.Asset1,
		Asset2:         p.Asset2,
		Reserve1:       common.DecimalUint64(p.Reserve1),
		Reserve2:       common.DecimalUint64(p.Reserve2),
		FeeRate:        common.DecimalUint64(p.FeeRate),
		TotalLiquidity: common.DecimalUint64(p.TotalLiquidity),
	})
}

// UnmarshalJSON accepts quantities as decimal strings or bare integers
func (p *Pool) UnmarshalJSON(data []byte) error {
	var tmp poolWire
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*p = Pool{
		PoolId:         tmp.PoolId,
		Asset1:         tmp.Asset1,
		Asset2:         tmp.Asset2,
		Reserve1:       uint64(tmp.Reserve1),
		Reserve2:       uint64(tmp.Reserve2),
		FeeRate:        uint64(tmp.FeeRate),
		TotalLiquidity: uint64(tmp.TotalLiquidity),
	}
	return nil
}
