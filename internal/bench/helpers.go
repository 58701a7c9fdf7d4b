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

// Package bench provides benchmark utilities and signed transaction fixtures
// for the encoding, signing and quoting paths.
package bench

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/blinklabs-io/gohaze/amm"
	"github.com/blinklabs-io/gohaze/keys"
	"github.com/blinklabs-io/gohaze/ledger"
	"github.com/blinklabs-io/gohaze/ledger/common"
)

// BenchKeyPair returns the fixed key pair that signs every fixture
func BenchKeyPair() *keys.KeyPair {
	kp, err := keys.NewKeyPairFromSeed(bytes.Repeat([]byte{0x42}, keys.SeedSize))
	if err != nil {
		panic(fmt.Sprintf("unexpected error creating bench key pair: %s", err))
	}
	return kp
}

// BenchPool returns a pool snapshot with realistic reserves
func BenchPool() amm.Pool {
	return amm.Pool{
		PoolId:         "HAZE-USDH",
		Asset1:         "HAZE",
		Asset2:         "USDH",
		Reserve1:       4_500_000_000_000,
		Reserve2:       9_000_000_000_000,
		FeeRate:        30,
		TotalLiquidity: 6_363_961_030_678,
	}
}

// TxFixture contains a signed transaction and its wire form for benchmarking.
type TxFixture struct {
	Name string
	Tx   ledger.Transaction
	Json []byte
}

// LoadTxFixtures builds one signed fixture per transaction variant
func LoadTxFixtures() ([]*TxFixture, error) {
	kp := BenchKeyPair()
	b := ledger.NewBuilder(kp, ledger.WithChainId(1))
	gameId := "mistborn"
	assetData := common.AssetData{
		Density:  common.DensityLight,
		Metadata: map[string]string{"name": "Atium Blade", "forge": "Luthadel"},
		Attributes: []common.Attribute{
			{Name: "edge", Value: "keen"},
		},
		GameId: &gameId,
		Owner:  kp.Address(),
	}
	var txs []ledger.Transaction
	add := func(tx ledger.Transaction, err error) error {
		if err != nil {
			return err
		}
		txs = append(txs, tx)
		return nil
	}
	steps := []func() error{
		func() error { return add(b.Transfer(common.Address{0x02}, 1_000_000, 10, 1)) },
		func() error { return add(b.Stake(common.Address{0x03}, 5_000_000, 10, 2)) },
		func() error {
			return add(b.ContractCall(common.Address{0x06}, "transfer", bytes.Repeat([]byte{0xab}, 128), 50_000, 10, 3))
		},
		func() error { return add(b.DeployContract(bytes.Repeat([]byte{0x00, 0x61, 0x73, 0x6d}, 1024), 1_000_000, 100, 4)) },
		func() error { return add(b.CreateAsset(common.Hash{0xaa}, assetData, 10, 5)) },
		func() error { return add(b.MergeAssets(common.Hash{0xaa}, common.Hash{0xbb}, assetData, 10, 6)) },
		func() error {
			return add(b.SplitAsset(common.Hash{0xaa}, []string{"hilt", "blade", "gem"}, assetData, 10, 7))
		},
		func() error {
			expires := uint64(1_900_000_000)
			return add(b.SetPermissions(
				common.Hash{0xaa},
				true,
				[]common.AssetPermission{
					{Grantee: common.Address{0x07}, Level: common.PermissionGameContract, GameId: &gameId, ExpiresAt: &expires},
					{Grantee: common.Address{0x08}, Level: common.PermissionPublicRead},
				},
				10,
				8,
			))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	ret := make([]*TxFixture, 0, len(txs))
	for _, tx := range txs {
		data, err := ledger.MarshalTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("encode %s fixture: %w", tx.Tag(), err)
		}
		name := tx.Tag()
		if assetTx, ok := tx.(*ledger.AssetOpTx); ok {
			name += "_" + assetTx.Action.String()
		}
		ret = append(ret, &TxFixture{
			Name: name,
			Tx:   tx,
			Json: data,
		})
	}
	return ret, nil
}

// MustLoadTxFixtures loads the transaction fixtures and panics on error.
// Use this in benchmark setup code.
func MustLoadTxFixtures() []*TxFixture {
	fixtures, err := LoadTxFixtures()
	if err != nil {
		panic(fmt.Sprintf("failed to load tx fixtures: %v", err))
	}
	return fixtures
}

// TxFixtureByName returns the fixture with the given name, case-insensitively
func TxFixtureByName(name string) (*TxFixture, error) {
	fixtures, err := LoadTxFixtures()
	if err != nil {
		return nil, err
	}
	for _, fixture := range fixtures {
		if strings.EqualFold(fixture.Name, name) {
			return fixture, nil
		}
	}
	return nil, fmt.Errorf("unknown tx fixture: %s", name)
}
