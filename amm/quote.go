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

package amm

import (
	"github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/holiman/uint256"
)

// SwapQuote is the breakdown of a swap against a pool snapshot
type SwapQuote struct {
	Side      Side
	AmountIn  uint64
	RawOutput uint64
	Fee       uint64
	AmountOut uint64
	// Reserves after the swap, input side first
	NewReserveIn  uint64
	NewReserveOut uint64
}

// QuoteSwap quotes a swap of amountIn of the asset on side.
//
// The fee is taken from the output: raw = rOut - floor(k / (rIn + in)),
// fee = floor(raw * feeRate / 10000), out = raw - fee.
func QuoteSwap(p Pool, side Side, amountIn uint64) (SwapQuote, error) {
	if err := p.Validate(); err != nil {
		return SwapQuote{}, err
	}
	reserveIn, reserveOut, err := p.reserves(side)
	if err != nil {
		return SwapQuote{}, err
	}
	if reserveIn == 0 || reserveOut == 0 {
		return SwapQuote{}, common.ArithmeticDomainError{
			Op:     "swap",
			Reason: "pool has a zero reserve",
		}
	}
	rIn := uint256.NewInt(reserveIn)
	rOut := uint256.NewInt(reserveOut)
	k := new(uint256.Int).Mul(rIn, rOut)
	newIn := new(uint256.Int).AddUint64(rIn, amountIn)
	if !newIn.IsUint64() {
		return SwapQuote{}, common.ArithmeticDomainError{
			Op:     "swap",
			Reason: "input reserve would exceed 64 bits",
		}
	}
	// floor(k / newIn) <= rOut because newIn >= rIn
	newOut := new(uint256.Int).Div(k, newIn)
	raw := new(uint256.Int).Sub(rOut, newOut)
	fee := new(uint256.Int).Mul(raw, uint256.NewInt(p.FeeRate))
	fee.Div(fee, uint256.NewInt(BasisPointsDenominator))
	out := new(uint256.Int).Sub(raw, fee)
	return SwapQuote{
		Side:          side,
		AmountIn:      amountIn,
		RawOutput:     raw.Uint64(),
		Fee:           fee.Uint64(),
		AmountOut:     out.Uint64(),
		NewReserveIn:  newIn.Uint64(),
		NewReserveOut: newOut.Uint64(),
	}, nil
}

// QuoteSwapByAsset quotes a swap of amountIn of assetIn
func QuoteSwapByAsset(p Pool, assetIn string, amountIn uint64) (SwapQuote, error) {
	side, err := p.SideOf(assetIn)
	if err != nil {
		return SwapQuote{}, err
	}
	return QuoteSwap(p, side, amountIn)
}

// QuoteLiquidity returns the liquidity units issued for depositing amount1
// and amount2. The first deposit into an empty pool receives
// isqrt(amount1 * amount2). Later deposits receive the smaller of the two
// proportional shares, each truncated on its own.
func QuoteLiquidity(p Pool, amount1 uint64, amount2 uint64) (uint64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	a1 := uint256.NewInt(amount1)
	a2 := uint256.NewInt(amount2)
	if p.TotalLiquidity == 0 {
		product := new(uint256.Int).Mul(a1, a2)
		// The root of a 128-bit product always fits in 64 bits
		return ISqrt(product).Uint64(), nil
	}
	if p.Reserve1 == 0 || p.Reserve2 == 0 {
		return 0, common.ArithmeticDomainError{
			Op:     "liquidity",
			Reason: "pool has liquidity but a zero reserve",
		}
	}
	total := uint256.NewInt(p.TotalLiquidity)
	share1 := new(uint256.Int).Mul(a1, total)
	share1.Div(share1, uint256.NewInt(p.Reserve1))
	share2 := new(uint256.Int).Mul(a2, total)
	share2.Div(share2, uint256.NewInt(p.Reserve2))
	shares := share1
	if share2.Lt(share1) {
		shares = share2
	}
	if !shares.IsUint64() {
		return 0, common.ArithmeticDomainError{
			Op:     "liquidity",
			Reason: "issued liquidity would exceed 64 bits",
		}
	}
	return shares.Uint64(), nil
}

// ISqrt returns floor(sqrt(n)) using Newton's method. Iteration stops once the
// next estimate is no smaller than the current one.
func ISqrt(n *uint256.Int) *uint256.Int {
	if n.IsZero() {
		return new(uint256.Int)
	}
	x := n.Clone()
	// (x + 1) / 2 without overflowing at the top of the range
	y := new(uint256.Int).Rsh(x, 1)
	if x.Uint64()&1 == 1 {
		y.AddUint64(y, 1)
	}
	for y.Lt(x) {
		x.Set(y)
		// y = (x + n/x) / 2
		y.Div(n, x)
		y.Add(y, x)
		y.Rsh(y, 1)
	}
	return x
}
