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
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/blinklabs-io/gohaze/cmd/common"
	"github.com/blinklabs-io/gohaze/ledger"
	lcommon "github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/blinklabs-io/gohaze/noncestore"
)

// txFlags are shared by the subcommands that build a transaction
type txFlags struct {
	fee     uint64
	nonce   string
	submit  bool
	outFile string
}

func (t *txFlags) register(flagset *flag.FlagSet) {
	flagset.Uint64Var(&t.fee, "fee", 0, "transaction fee")
	flagset.StringVar(
		&t.nonce,
		"nonce",
		"",
		"account nonce (defaults to the nonce database, then the ledger)",
	)
	flagset.BoolVar(&t.submit, "submit", false, "submit the signed transaction")
	flagset.StringVar(
		&t.outFile,
		"out",
		"",
		"write the signed transaction to this file instead of stdout",
	)
}

// keyValueFlag collects repeated key=value arguments
type keyValueFlag map[string]string

func (k keyValueFlag) String() string {
	pairs := make([]string, 0, len(k))
	for key, value := range k {
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, ",")
}

func (k keyValueFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	k[key] = value
	return nil
}

// txSession holds what a transaction subcommand needs after flag parsing
type txSession struct {
	f       *common.GlobalFlags
	flags   *txFlags
	builder *ledger.Builder
	store   *noncestore.Store
}

func newTxSession(f *common.GlobalFlags, flags *txFlags) (*txSession, error) {
	kp, err := f.LoadKeyPair()
	if err != nil {
		return nil, err
	}
	store, err := f.OpenNonceStore()
	if err != nil {
		return nil, err
	}
	return &txSession{
		f:       f,
		flags:   flags,
		builder: ledger.NewBuilder(kp, f.BuilderOptions()...),
		store:   store,
	}, nil
}

func (s *txSession) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// nonce picks the nonce for the next transaction: -nonce, then the local
// database, then the ledger's view of the account
func (s *txSession) nonce(ctx context.Context) (uint64, error) {
	if s.flags.nonce != "" {
		return lcommon.DecodeUint64("nonce", s.flags.nonce)
	}
	addr := s.builder.Address()
	if s.store != nil {
		nonce, found, err := s.store.Get(addr)
		if err != nil {
			return 0, err
		}
		if found {
			return nonce, nil
		}
	}
	c, err := s.f.NewClient()
	if err != nil {
		return 0, fmt.Errorf("cannot look up nonce, specify -nonce: %w", err)
	}
	return c.NextNonce(ctx, addr)
}

// finish writes the signed transaction and submits it when asked
func (s *txSession) finish(ctx context.Context, tx ledger.Transaction) error {
	data, err := s.builder.Wire(tx)
	if err != nil {
		return err
	}
	hash, err := ledger.ContentHash(tx)
	if err != nil {
		return err
	}
	if s.flags.outFile != "" {
		if err := os.WriteFile(s.flags.outFile, append(data, '\n'), 0o644); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s\n", data)
	}
	fmt.Fprintf(os.Stderr, "Content hash: %s\n", hash.String())
	if !s.flags.submit {
		return nil
	}
	return submit(ctx, s.f, s.store, tx)
}

func submit(ctx context.Context, f *common.GlobalFlags, store *noncestore.Store, tx ledger.Transaction) error {
	c, err := f.NewClient()
	if err != nil {
		return err
	}
	status, err := c.SubmitTransaction(ctx, tx)
	if err != nil {
		var rejectErr lcommon.RemoteRejectionError
		if errors.As(err, &rejectErr) {
			return fmt.Errorf("transaction rejected: %s", rejectErr.Message)
		}
		return err
	}
	fmt.Fprintf(os.Stderr, "Submitted: hash=%s status=%s\n", status.Hash, status.Status)
	if store != nil {
		h := tx.Header()
		if err := store.Advance(h.From, h.Nonce); err != nil {
			return fmt.Errorf("record nonce: %w", err)
		}
	}
	return nil
}

type transferFlags struct {
	flagset *flag.FlagSet
	tx      txFlags
	to      string
	amount  uint64
}

func newTransferFlags() *transferFlags {
	f := &transferFlags{
		flagset: flag.NewFlagSet("transfer", flag.ExitOnError),
	}
	f.tx.register(f.flagset)
	f.flagset.StringVar(&f.to, "to", "", "recipient address (hex or bech32)")
	f.flagset.Uint64Var(&f.amount, "amount", 0, "amount to transfer")
	return f
}

func runTransfer(ctx context.Context, f *common.GlobalFlags) error {
	transferFlags := newTransferFlags()
	if err := parseSubcommandFlags(f, transferFlags.flagset); err != nil {
		return err
	}
	to, err := parseAddress("to", transferFlags.to)
	if err != nil {
		return err
	}
	s, err := newTxSession(f, &transferFlags.tx)
	if err != nil {
		return err
	}
	defer s.Close()
	nonce, err := s.nonce(ctx)
	if err != nil {
		return err
	}
	tx, err := s.builder.Transfer(to, transferFlags.amount, transferFlags.tx.fee, nonce)
	if err != nil {
		return err
	}
	return s.finish(ctx, tx)
}

type stakeFlags struct {
	flagset   *flag.FlagSet
	tx        txFlags
	validator string
	amount    uint64
}

func newStakeFlags() *stakeFlags {
	f := &stakeFlags{
		flagset: flag.NewFlagSet("stake", flag.ExitOnError),
	}
	f.tx.register(f.flagset)
	f.flagset.StringVar(&f.validator, "validator", "", "validator address (hex or bech32)")
	f.flagset.Uint64Var(&f.amount, "amount", 0, "amount to stake")
	return f
}

func runStake(ctx context.Context, f *common.GlobalFlags) error {
	stakeFlags := newStakeFlags()
	if err := parseSubcommandFlags(f, stakeFlags.flagset); err != nil {
		return err
	}
	validator, err := parseAddress("validator", stakeFlags.validator)
	if err != nil {
		return err
	}
	s, err := newTxSession(f, &stakeFlags.tx)
	if err != nil {
		return err
	}
	defer s.Close()
	nonce, err := s.nonce(ctx)
	if err != nil {
		return err
	}
	tx, err := s.builder.Stake(validator, stakeFlags.amount, stakeFlags.tx.fee, nonce)
	if err != nil {
		return err
	}
	return s.finish(ctx, tx)
}

type assetFlags struct {
	flagset      *flag.FlagSet
	tx           txFlags
	action       string
	assetId      string
	owner        string
	density      string
	gameId       string
	otherAssetId string
	components   string
	metadata     keyValueFlag
	attributes   keyValueFlag
}

func newAssetFlags() *assetFlags {
	f := &assetFlags{
		flagset:    flag.NewFlagSet("asset", flag.ExitOnError),
		metadata:   keyValueFlag{},
		attributes: keyValueFlag{},
	}
	f.tx.register(f.flagset)
	f.flagset.StringVar(
		&f.action,
		"action",
		lcommon.AssetActionCreate.String(),
		"asset action (Create, Update, Condense, Evaporate, Merge, Split)",
	)
	f.flagset.StringVar(&f.assetId, "asset-id", "", "asset ID as 64 hex characters")
	f.flagset.StringVar(&f.owner, "owner", "", "asset owner (defaults to the signing account)")
	f.flagset.StringVar(
		&f.density,
		"density",
		lcommon.DensityEthereal.String(),
		"density level (Ethereal, Light, Dense, Core)",
	)
	f.flagset.StringVar(&f.gameId, "game-id", "", "game the asset belongs to")
	f.flagset.StringVar(&f.otherAssetId, "other-asset-id", "", "asset merged into -asset-id (Merge only)")
	f.flagset.StringVar(&f.components, "components", "", "comma-separated components (Split only)")
	f.flagset.Var(f.metadata, "metadata", "metadata entry as key=value (repeatable)")
	f.flagset.Var(f.attributes, "attribute", "attribute as name=value (repeatable)")
	return f
}

func (a *assetFlags) transaction(owner lcommon.Address) (ledger.AssetOpTx, error) {
	var ret ledger.AssetOpTx
	action, err := lcommon.ParseAssetAction(a.action)
	if err != nil {
		return ret, err
	}
	density, err := lcommon.ParseDensityLevel(a.density)
	if err != nil {
		return ret, err
	}
	assetId, err := lcommon.NewHashFromHex("asset-id", a.assetId)
	if err != nil {
		return ret, err
	}
	if a.owner != "" {
		owner, err = parseAddress("owner", a.owner)
		if err != nil {
			return ret, err
		}
	}
	ret = ledger.AssetOpTx{
		Action:  action,
		AssetId: assetId,
		Data: lcommon.AssetData{
			Density: density,
			Owner:   owner,
		},
	}
	if len(a.metadata) > 0 {
		ret.Data.Metadata = a.metadata
	}
	for _, name := range slices.Sorted(maps.Keys(a.attributes)) {
		ret.Data.Attributes = append(
			ret.Data.Attributes,
			lcommon.Attribute{Name: name, Value: a.attributes[name]},
		)
	}
	if a.gameId != "" {
		ret.Data.GameId = &a.gameId
	}
	if a.otherAssetId != "" {
		other, err := lcommon.NewHashFromHex("other-asset-id", a.otherAssetId)
		if err != nil {
			return ret, err
		}
		ret.OtherAssetId = &other
	}
	if a.components != "" {
		ret.Components = strings.Split(a.components, ",")
	}
	return ret, nil
}

func runAsset(ctx context.Context, f *common.GlobalFlags) error {
	assetFlags := newAssetFlags()
	if err := parseSubcommandFlags(f, assetFlags.flagset); err != nil {
		return err
	}
	s, err := newTxSession(f, &assetFlags.tx)
	if err != nil {
		return err
	}
	defer s.Close()
	tmpTx, err := assetFlags.transaction(s.builder.Address())
	if err != nil {
		return err
	}
	nonce, err := s.nonce(ctx)
	if err != nil {
		return err
	}
	tx, err := s.builder.AssetOp(tmpTx, assetFlags.tx.fee, nonce)
	if err != nil {
		return err
	}
	return s.finish(ctx, tx)
}

// parseAddress accepts a 64-character hex address or its bech32 form
func parseAddress(field string, s string) (lcommon.Address, error) {
	if s == "" {
		return lcommon.Address{}, fmt.Errorf("-%s is required", field)
	}
	if strings.HasPrefix(s, lcommon.AddressBech32Prefix+"1") {
		_, addr, err := lcommon.NewAddressFromBech32(s)
		return addr, err
	}
	return lcommon.NewAddressFromHex(field, s)
}
