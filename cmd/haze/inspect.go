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

	"github.com/blinklabs-io/gohaze/cbor"
	"github.com/blinklabs-io/gohaze/cmd/common"
	"github.com/blinklabs-io/gohaze/ledger"
	lcommon "github.com/blinklabs-io/gohaze/ledger/common"
)

type txFileFlags struct {
	flagset *flag.FlagSet
	txFile  string
}

func newTxFileFlags(name string) *txFileFlags {
	f := &txFileFlags{
		flagset: flag.NewFlagSet(name, flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.txFile,
		"tx-file",
		"",
		"path to the JSON transaction file (- for stdin)",
	)
	return f
}

func (t *txFileFlags) load() (ledger.Transaction, error) {
	if t.txFile == "" {
		return nil, errors.New("you must specify -tx-file")
	}
	return common.ReadTransactionFile(t.txFile)
}

func runVerify(_ context.Context, f *common.GlobalFlags) error {
	verifyFlags := newTxFileFlags("verify")
	if err := parseSubcommandFlags(f, verifyFlags.flagset); err != nil {
		return err
	}
	tx, err := verifyFlags.load()
	if err != nil {
		return err
	}
	if !tx.Header().IsSigned() {
		return errors.New("transaction is not signed")
	}
	ok, err := ledger.VerifyTransaction(tx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("signature does not match sender %s", tx.Header().From.String())
	}
	fmt.Printf("Signature valid: type=%s from=%s nonce=%d\n", tx.Tag(), tx.Header().From.String(), tx.Header().Nonce)
	return nil
}

type hashFlags struct {
	*txFileFlags
	algorithm string
	view      bool
}

func runHash(_ context.Context, f *common.GlobalFlags) error {
	hashCmdFlags := hashFlags{txFileFlags: newTxFileFlags("hash")}
	hashCmdFlags.flagset.StringVar(
		&hashCmdFlags.algorithm,
		"algorithm",
		lcommon.HashAlgorithmBlake2b256.String(),
		"digest to use (blake2b-256, sha256, blake3)",
	)
	hashCmdFlags.flagset.BoolVar(
		&hashCmdFlags.view,
		"view",
		false,
		"also print the hashed fields in CBOR diagnostic notation",
	)
	if err := parseSubcommandFlags(f, hashCmdFlags.flagset); err != nil {
		return err
	}
	algo, err := lcommon.ParseHashAlgorithm(hashCmdFlags.algorithm)
	if err != nil {
		return err
	}
	tx, err := hashCmdFlags.load()
	if err != nil {
		return err
	}
	hash, err := ledger.ContentHashWith(tx, algo)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", hash.String())
	if hashCmdFlags.view {
		preimage, err := ledger.HashPreimage(tx)
		if err != nil {
			return err
		}
		diag, err := cbor.Diagnose(preimage)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", diag)
	}
	return nil
}

func runSubmit(ctx context.Context, f *common.GlobalFlags) error {
	submitFlags := newTxFileFlags("submit")
	if err := parseSubcommandFlags(f, submitFlags.flagset); err != nil {
		return err
	}
	tx, err := submitFlags.load()
	if err != nil {
		return err
	}
	store, err := f.OpenNonceStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	return submit(ctx, f, store, tx)
}
