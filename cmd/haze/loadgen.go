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
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/blinklabs-io/gohaze/cmd/common"
	"github.com/blinklabs-io/gohaze/ledger"
	"github.com/blinklabs-io/gohaze/loadgen"
)

type loadgenFlags struct {
	flagset  *flag.FlagSet
	seeds    string
	to       string
	amount   uint64
	fee      uint64
	rate     float64
	burst    int
	total    uint64
	duration time.Duration
}

func newLoadgenFlags() *loadgenFlags {
	f := &loadgenFlags{
		flagset: flag.NewFlagSet("loadgen", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.seeds,
		"seed-files",
		"",
		"comma-separated seed files, one worker per file (defaults to the global signing key)",
	)
	f.flagset.StringVar(&f.to, "to", "", "recipient address (hex or bech32)")
	f.flagset.Uint64Var(&f.amount, "amount", 1, "amount per transfer")
	f.flagset.Uint64Var(&f.fee, "fee", 1, "fee per transfer")
	f.flagset.Float64Var(&f.rate, "rate", 10, "combined target rate in transactions per second (0 for unlimited)")
	f.flagset.IntVar(&f.burst, "burst", loadgen.DefaultBurst, "rate limiter burst size")
	f.flagset.Uint64Var(&f.total, "total", 0, "stop after this many submissions (0 for no limit)")
	f.flagset.DurationVar(&f.duration, "duration", 0, "stop after this long (0 for no limit)")
	return f
}

func (l *loadgenFlags) signers(f *common.GlobalFlags) ([]ledger.Signer, error) {
	if l.seeds == "" {
		kp, err := f.LoadKeyPair()
		if err != nil {
			return nil, err
		}
		return []ledger.Signer{kp}, nil
	}
	var ret []ledger.Signer
	for _, path := range strings.Split(l.seeds, ",") {
		kp, err := common.LoadKeyPairFile(strings.TrimSpace(path))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ret = append(ret, kp)
	}
	return ret, nil
}

func runLoadgen(ctx context.Context, f *common.GlobalFlags) error {
	loadgenFlags := newLoadgenFlags()
	if err := parseSubcommandFlags(f, loadgenFlags.flagset); err != nil {
		return err
	}
	if loadgenFlags.total == 0 && loadgenFlags.duration == 0 {
		return errors.New("you must specify -total or -duration")
	}
	to, err := parseAddress("to", loadgenFlags.to)
	if err != nil {
		return err
	}
	signers, err := loadgenFlags.signers(f)
	if err != nil {
		return err
	}
	logger := f.Logger()
	c, err := f.NewClient()
	if err != nil {
		return err
	}
	opts := []loadgen.LoadGenOptionFunc{
		loadgen.WithSigners(signers...),
		loadgen.WithRate(loadgenFlags.rate),
		loadgen.WithBurst(loadgenFlags.burst),
		loadgen.WithTotal(loadgenFlags.total),
		loadgen.WithBuildFunc(loadgen.TransferBuildFunc(to, loadgenFlags.amount, loadgenFlags.fee)),
		loadgen.WithSubmitter(c),
		loadgen.WithBuilderOptions(f.BuilderOptions()...),
		loadgen.WithLogger(logger),
	}
	store, err := f.OpenNonceStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, loadgen.WithNonceStore(store))
	} else {
		// Without a local database every worker starts from the ledger's view
		nonces := make([]uint64, 0, len(signers))
		for _, signer := range signers {
			nonce, err := c.NextNonce(ctx, signer.Address())
			if err != nil {
				return fmt.Errorf("look up nonce for %s: %w", signer.Address().String(), err)
			}
			nonces = append(nonces, nonce)
		}
		opts = append(opts, loadgen.WithStartNonces(nonces...))
	}
	gen, err := loadgen.New(opts...)
	if err != nil {
		return err
	}
	if loadgenFlags.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, loadgenFlags.duration)
		defer cancel()
	}
	stats, err := gen.Run(ctx)
	fmt.Printf("Submitted: %d\n", stats.Submitted)
	fmt.Printf("Accepted:  %d\n", stats.Accepted)
	fmt.Printf("Rejected:  %d\n", stats.Rejected)
	fmt.Printf("Failed:    %d\n", stats.Failed)
	fmt.Printf("Rate:      %.2f accepted/s over %s\n", stats.AcceptRate(), stats.Elapsed().Round(time.Millisecond))
	return err
}
