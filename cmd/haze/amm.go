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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gohaze/amm"
	"github.com/blinklabs-io/gohaze/cmd/common"
)

// poolSourceFlags select a pool snapshot from a file or from the ledger
type poolSourceFlags struct {
	poolId   string
	poolFile string
}

func (p *poolSourceFlags) register(flagset *flag.FlagSet) {
	flagset.StringVar(&p.poolId, "pool-id", "", "pool to fetch from the ledger")
	flagset.StringVar(&p.poolFile, "pool-file", "", "path to a JSON pool snapshot")
}

func (p *poolSourceFlags) load(ctx context.Context, f *common.GlobalFlags) (amm.Pool, error) {
	var pool amm.Pool
	switch {
	case p.poolFile != "":
		data, err := os.ReadFile(p.poolFile)
		if err != nil {
			return pool, fmt.Errorf("read pool file: %w", err)
		}
		if err := json.Unmarshal(data, &pool); err != nil {
			return pool, fmt.Errorf("parse pool file: %w", err)
		}
	case p.poolId != "":
		c, err := f.NewClient()
		if err != nil {
			return pool, err
		}
		tmpPool, err := c.Pool(ctx, p.poolId)
		if err != nil {
			return pool, err
		}
		pool = *tmpPool
	default:
		return pool, errors.New("you must specify -pool-id or -pool-file")
	}
	return pool, pool.Validate()
}

type poolFlags struct {
	flagset *flag.FlagSet
	poolId  string
}

func runPool(ctx context.Context, f *common.GlobalFlags) error {
	poolFlags := poolFlags{
		flagset: flag.NewFlagSet("pool", flag.ExitOnError),
	}
	poolFlags.flagset.StringVar(&poolFlags.poolId, "pool-id", "", "pool to show (lists all pools when empty)")
	if err := parseSubcommandFlags(f, poolFlags.flagset); err != nil {
		return err
	}
	c, err := f.NewClient()
	if err != nil {
		return err
	}
	var out any
	if poolFlags.poolId != "" {
		out, err = c.Pool(ctx, poolFlags.poolId)
	} else {
		out, err = c.Pools(ctx)
	}
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", data)
	return nil
}

type quoteSwapFlags struct {
	flagset *flag.FlagSet
	pool    poolSourceFlags
	assetIn string
	amount  uint64
}

func runQuoteSwap(ctx context.Context, f *common.GlobalFlags) error {
	swapFlags := quoteSwapFlags{
		flagset: flag.NewFlagSet("quote-swap", flag.ExitOnError),
	}
	swapFlags.pool.register(swapFlags.flagset)
	swapFlags.flagset.StringVar(&swapFlags.assetIn, "asset-in", "", "asset being sold (defaults to the pool's first asset)")
	swapFlags.flagset.Uint64Var(&swapFlags.amount, "amount", 0, "amount being sold")
	if err := parseSubcommandFlags(f, swapFlags.flagset); err != nil {
		return err
	}
	pool, err := swapFlags.pool.load(ctx, f)
	if err != nil {
		return err
	}
	assetIn := swapFlags.assetIn
	if assetIn == "" {
		assetIn = pool.Asset1
	}
	quote, err := amm.QuoteSwapByAsset(pool, assetIn, swapFlags.amount)
	if err != nil {
		return err
	}
	fmt.Printf("Pool:       %s (%s/%s)\n", pool.PoolId, pool.Asset1, pool.Asset2)
	fmt.Printf("Amount in:  %d (%s)\n", quote.AmountIn, quote.Side)
	fmt.Printf("Fee:        %d\n", quote.Fee)
	fmt.Printf("Amount out: %d\n", quote.AmountOut)
	fmt.Printf("Reserves:   %d / %d after swap\n", quote.NewReserveIn, quote.NewReserveOut)
	return nil
}

type quoteLiquidityFlags struct {
	flagset *flag.FlagSet
	pool    poolSourceFlags
	amount1 uint64
	amount2 uint64
}

func runQuoteLiquidity(ctx context.Context, f *common.GlobalFlags) error {
	liquidityFlags := quoteLiquidityFlags{
		flagset: flag.NewFlagSet("quote-liquidity", flag.ExitOnError),
	}
	liquidityFlags.pool.register(liquidityFlags.flagset)
	liquidityFlags.flagset.Uint64Var(&liquidityFlags.amount1, "amount1", 0, "deposit of the pool's first asset")
	liquidityFlags.flagset.Uint64Var(&liquidityFlags.amount2, "amount2", 0, "deposit of the pool's second asset")
	if err := parseSubcommandFlags(f, liquidityFlags.flagset); err != nil {
		return err
	}
	pool, err := liquidityFlags.pool.load(ctx, f)
	if err != nil {
		return err
	}
	shares, err := amm.QuoteLiquidity(pool, liquidityFlags.amount1, liquidityFlags.amount2)
	if err != nil {
		return err
	}
	fmt.Printf("Liquidity shares: %d\n", shares)
	return nil
}
