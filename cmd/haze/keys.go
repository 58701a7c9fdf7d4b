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

	"github.com/blinklabs-io/gohaze/cmd/common"
	"github.com/blinklabs-io/gohaze/keys"
	lcommon "github.com/blinklabs-io/gohaze/ledger/common"
)

type keygenFlags struct {
	flagset *flag.FlagSet
	outFile string
}

func newKeygenFlags() *keygenFlags {
	f := &keygenFlags{
		flagset: flag.NewFlagSet("keygen", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.outFile,
		"out",
		"",
		"write the seed to this file instead of printing it",
	)
	return f
}

func runKeygen(_ context.Context, f *common.GlobalFlags) error {
	keygenFlags := newKeygenFlags()
	if err := parseSubcommandFlags(f, keygenFlags.flagset); err != nil {
		return err
	}
	kp, err := keys.GenerateKeyPair()
	if err != nil {
		return err
	}
	if keygenFlags.outFile != "" {
		if err := common.WriteSeedFile(keygenFlags.outFile, kp); err != nil {
			return err
		}
		fmt.Printf("Seed written to %s\n", keygenFlags.outFile)
	} else {
		fmt.Printf("Seed:    %s\n", kp.SeedHex())
	}
	printAddress(kp.Address())
	return nil
}

type addressFlags struct {
	flagset *flag.FlagSet
	decode  string
}

func newAddressFlags() *addressFlags {
	f := &addressFlags{
		flagset: flag.NewFlagSet("address", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.decode,
		"decode",
		"",
		"bech32 address to decode instead of showing the signing key's address",
	)
	return f
}

func runAddress(_ context.Context, f *common.GlobalFlags) error {
	addressFlags := newAddressFlags()
	if err := parseSubcommandFlags(f, addressFlags.flagset); err != nil {
		return err
	}
	if addressFlags.decode != "" {
		prefix, addr, err := lcommon.NewAddressFromBech32(addressFlags.decode)
		if err != nil {
			return err
		}
		if prefix != lcommon.AddressBech32Prefix {
			return errors.New("address prefix is not " + lcommon.AddressBech32Prefix)
		}
		printAddress(addr)
		return nil
	}
	kp, err := f.LoadKeyPair()
	if err != nil {
		return err
	}
	printAddress(kp.Address())
	return nil
}

func printAddress(addr lcommon.Address) {
	fmt.Printf("Address: %s\n", addr.String())
	fmt.Printf("Bech32:  %s\n", addr.Bech32(lcommon.AddressBech32Prefix))
}
