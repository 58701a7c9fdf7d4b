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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blinklabs-io/gohaze/cmd/common"
)

type subcommand struct {
	name  string
	usage string
	run   func(ctx context.Context, f *common.GlobalFlags) error
}

var subcommands = []subcommand{
	{"keygen", "generate a signing key", runKeygen},
	{"address", "show the address of a key, or decode a bech32 address", runAddress},
	{"transfer", "build and sign a transfer", runTransfer},
	{"stake", "build and sign a stake delegation", runStake},
	{"asset", "build and sign a Mistborn asset operation", runAsset},
	{"verify", "check the signature of a transaction file", runVerify},
	{"hash", "compute the local content hash of a transaction file", runHash},
	{"submit", "submit a signed transaction file", runSubmit},
	{"pool", "show one liquidity pool or list all of them", runPool},
	{"quote-swap", "quote a swap against a pool", runQuoteSwap},
	{"quote-liquidity", "quote the liquidity shares for a deposit", runQuoteLiquidity},
	{"loadgen", "submit transfers from many accounts at a target rate", runLoadgen},
}

func usage(f *common.GlobalFlags) {
	fmt.Printf("Usage: %s [global options] <subcommand> [options]\n\nSubcommands:\n", os.Args[0])
	for _, cmd := range subcommands {
		fmt.Printf("  %-16s %s\n", cmd.name, cmd.usage)
	}
	fmt.Printf("\nGlobal options:\n")
	f.Flagset.PrintDefaults()
}

func main() {
	f := common.NewGlobalFlags()
	f.Parse()

	if len(f.Flagset.Args()) == 0 {
		usage(f)
		os.Exit(1)
	}
	name := f.Flagset.Arg(0)
	for _, cmd := range subcommands {
		if cmd.name != name {
			continue
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := cmd.run(ctx, f)
		stop()
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("Unknown subcommand: %s\n", name)
	os.Exit(1)
}

// parseSubcommandFlags parses the arguments that follow the subcommand name
func parseSubcommandFlags(f *common.GlobalFlags, flagset interface{ Parse([]string) error }) error {
	if err := flagset.Parse(f.Flagset.Args()[1:]); err != nil {
		return fmt.Errorf("failed to parse subcommand args: %w", err)
	}
	return nil
}
