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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	haze "github.com/blinklabs-io/gohaze"
	"github.com/blinklabs-io/gohaze/client"
	"github.com/blinklabs-io/gohaze/ledger"
	"github.com/blinklabs-io/gohaze/noncestore"
)

type GlobalFlags struct {
	Flagset          *flag.FlagSet
	Network          string
	ApiUrl           string
	ChainId          uint64
	NoChainId        bool
	ValidUntilHeight uint64
	Timeout          time.Duration
	SeedFile         string
	NonceDb          string
	Debug            bool

	network haze.Network
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.Network,
		"network",
		"devnet",
		"specifies the named network (devnet, testnet, mainnet)",
	)
	f.Flagset.StringVar(
		&f.ApiUrl,
		"api-url",
		"",
		"ledger API base URL. this overrides the network default",
	)
	f.Flagset.Uint64Var(
		&f.ChainId,
		"chain-id",
		0,
		"chain ID bound into signed transactions. this overrides the network default",
	)
	f.Flagset.BoolVar(
		&f.NoChainId,
		"no-chain-id",
		false,
		"do not bind signed transactions to a chain",
	)
	f.Flagset.Uint64Var(
		&f.ValidUntilHeight,
		"valid-until",
		0,
		"last block height at which signed transactions are accepted (0 for none)",
	)
	f.Flagset.DurationVar(
		&f.Timeout,
		"timeout",
		client.DefaultTimeout,
		"timeout for each API request",
	)
	f.Flagset.StringVar(
		&f.SeedFile,
		"seed-file",
		"",
		"path to a file holding the 32-byte signing seed as hex (defaults to $HAZE_SEED)",
	)
	f.Flagset.StringVar(
		&f.NonceDb,
		"nonce-db",
		"",
		"path to a local nonce database used to pick and record nonces",
	)
	f.Flagset.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	return f
}

func (f *GlobalFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	f.network = haze.NetworkByName(f.Network)
	if !f.network.Valid() {
		fmt.Printf("Invalid network specified: %s\n", f.Network)
		os.Exit(1)
	}
	if f.NoChainId && f.ChainId != 0 {
		fmt.Printf("-chain-id and -no-chain-id are mutually exclusive\n")
		os.Exit(1)
	}
}

// SelectedNetwork returns the network chosen with -network
func (f *GlobalFlags) SelectedNetwork() haze.Network {
	return f.network
}

func (f *GlobalFlags) Logger() *slog.Logger {
	level := slog.LevelInfo
	if f.Debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}

// BuilderOptions returns the chain binding options for transaction builders
func (f *GlobalFlags) BuilderOptions() []ledger.BuilderOptionFunc {
	var ret []ledger.BuilderOptionFunc
	switch {
	case f.NoChainId:
	case f.ChainId != 0:
		ret = append(ret, ledger.WithChainId(f.ChainId))
	case f.network.ChainId != nil:
		ret = append(ret, ledger.WithChainId(*f.network.ChainId))
	}
	if f.ValidUntilHeight != 0 {
		ret = append(ret, ledger.WithValidUntilHeight(f.ValidUntilHeight))
	}
	return ret
}

func (f *GlobalFlags) NewClient() (*client.Client, error) {
	return client.New(
		client.WithNetwork(f.network),
		client.WithBaseURL(f.ApiUrl),
		client.WithTimeout(f.Timeout),
		client.WithLogger(f.Logger()),
	)
}

// OpenNonceStore opens the -nonce-db database. It returns nil when no path was given.
func (f *GlobalFlags) OpenNonceStore() (*noncestore.Store, error) {
	if f.NonceDb == "" {
		return nil, nil
	}
	return noncestore.Open(
		f.NonceDb,
		noncestore.WithLogger(f.Logger()),
		noncestore.WithSync(true),
	)
}
