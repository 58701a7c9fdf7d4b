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

package ledger

import (
	"testing"

	"github.com/blinklabs-io/gohaze/internal/test"
	"github.com/blinklabs-io/gohaze/keys"
	"github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/stretchr/testify/require"
)

// RFC 8032 section 7.1, test 1 seed
const testSeedHex = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

var (
	testTo        = common.Address(test.Filled32(0x02))
	testValidator = common.Address(test.Filled32(0x03))
	testContract  = common.Address(test.Filled32(0x06))
	testAssetId   = common.Hash(test.Filled32(0xaa))
	testOtherId   = common.Hash(test.Filled32(0xbb))
)

func testKeyPair(t *testing.T) *keys.KeyPair {
	t.Helper()
	kp, err := keys.NewKeyPairFromHex(testSeedHex)
	require.NoError(t, err)
	return kp
}

// testTransactions returns one unsigned transaction per variant, all sent
// from the test key pair
func testTransactions(from common.Address) map[string]Transaction {
	header := func(fee, nonce uint64) TxHeader {
		return TxHeader{From: from, Fee: fee, Nonce: nonce}
	}
	return map[string]Transaction{
		"transfer": &TransferTx{
			TxHeader: header(10, 5),
			To:       testTo,
			Amount:   1000,
		},
		"transfer with chain binding": &TransferTx{
			TxHeader: TxHeader{
				From:             from,
				Fee:              10,
				Nonce:            5,
				ChainId:          test.Uint64Ptr(7),
				ValidUntilHeight: test.Uint64Ptr(100),
			},
			To:     testTo,
			Amount: 1000,
		},
		"stake": &StakeTx{
			TxHeader:  header(1, 9),
			Validator: testValidator,
			Amount:    5000,
		},
		"contract call": &ContractCallTx{
			TxHeader: header(20, 2),
			Contract: testContract,
			Method:   "transfer",
			Args:     test.DecodeHexString("deadbeef"),
			GasLimit: 50000,
		},
		"deploy contract": &DeployContractTx{
			TxHeader: header(500, 3),
			Code:     test.DecodeHexString("0061736d"),
			GasLimit: 1000000,
		},
		"asset create": &AssetOpTx{
			TxHeader: header(100, 1),
			Action:   common.AssetActionCreate,
			AssetId:  testAssetId,
			Data: common.AssetData{
				Density:  common.DensityLight,
				Metadata: map[string]string{"name": "Lantern"},
				Attributes: []common.Attribute{
					{Name: "glow", Value: "amber"},
				},
				Owner: from,
			},
		},
		"asset merge": &AssetOpTx{
			TxHeader:     header(100, 1),
			Action:       common.AssetActionMerge,
			AssetId:      testAssetId,
			Data:         common.AssetData{Density: common.DensityDense, Owner: from},
			OtherAssetId: &testOtherId,
		},
		"asset split": &AssetOpTx{
			TxHeader:   header(100, 1),
			Action:     common.AssetActionSplit,
			AssetId:    testAssetId,
			Data:       common.AssetData{Density: common.DensityDense, Owner: from},
			Components: []string{"sword", "shield"},
		},
		"set permissions": &SetPermissionsTx{
			TxHeader:   header(5, 4),
			AssetId:    testAssetId,
			Owner:      from,
			PublicRead: true,
			Permissions: []common.AssetPermission{
				{
					Grantee:   common.Address(test.Filled32(0x04)),
					Level:     common.PermissionGameContract,
					GameId:    test.StringPtr("game-1"),
					ExpiresAt: test.Uint64Ptr(1700000000),
				},
				{
					Grantee: common.Address(test.Filled32(0x05)),
					Level:   common.PermissionPublicRead,
				},
			},
		},
	}
}
