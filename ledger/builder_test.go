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
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gohaze/internal/test"
	"github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderTransfer(t *testing.T) {
	kp := testKeyPair(t)
	b := NewBuilder(kp)
	tx, err := b.Transfer(testTo, 1000, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), tx.From)
	assert.Equal(
		t,
		"55130f866b6901301cbb6bbb180f9d0f02364fa4ee11b1028f6692d71be2c625ccc74add93752caffe384c333fbc2147af251ad240672bf082d87c5b62c34e02",
		tx.Signature.String(),
	)
}

func TestBuilderChainBinding(t *testing.T) {
	kp := testKeyPair(t)
	b := NewBuilder(kp, WithChainId(7), WithValidUntilHeight(100))
	tx, err := b.Transfer(testTo, 1000, 10, 5)
	require.NoError(t, err)
	require.NotNil(t, tx.ChainId)
	assert.Equal(t, uint64(7), *tx.ChainId)
	assert.Equal(t, uint64(100), *tx.ValidUntilHeight)
	assert.Equal(
		t,
		"757818d7d25ee1e4f830683518fd771c2f8d426943027d5a04f12e3a785535a66544c6008100b1b2848c40d43bb2e3cc4bc10a4c1d8ab14bc58e84f3dc08e20f",
		tx.Signature.String(),
	)
	// Each transaction gets its own copy of the optional values
	*tx.ChainId = 8
	next, err := b.Transfer(testTo, 1000, 10, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), *next.ChainId)
}

func TestBuilderVariants(t *testing.T) {
	kp := testKeyPair(t)
	b := NewBuilder(kp)
	data := common.AssetData{Density: common.DensityEthereal}
	var txs []Transaction
	add := func(tx Transaction, err error) {
		t.Helper()
		require.NoError(t, err)
		txs = append(txs, tx)
	}
	add(b.Stake(testValidator, 5000, 1, 1))
	add(b.ContractCall(testContract, "ping", nil, 1000, 1, 2))
	add(b.DeployContract([]byte{0x00, 0x61}, 1000, 1, 3))
	add(b.CreateAsset(testAssetId, data, 1, 4))
	add(b.UpdateAsset(testAssetId, data, 1, 5))
	add(b.CondenseAsset(testAssetId, data, 1, 6))
	add(b.EvaporateAsset(testAssetId, data, 1, 7))
	add(b.MergeAssets(testAssetId, testOtherId, data, 1, 8))
	add(b.SplitAsset(testAssetId, []string{"a", "b"}, data, 1, 9))
	add(b.SetPermissions(testAssetId, false, []common.AssetPermission{
		{Grantee: testTo, Level: common.PermissionPublicRead, ExpiresAt: test.Uint64Ptr(10)},
	}, 1, 10))
	for i, tx := range txs {
		assert.Equal(t, kp.Address(), tx.Header().From)
		assert.Equal(t, uint64(i+1), tx.Header().Nonce)
		ok, err := VerifyTransaction(tx)
		require.NoError(t, err)
		assert.True(t, ok, tx.Tag())
	}
	create := txs[3].(*AssetOpTx)
	assert.Equal(t, kp.Address(), create.Data.Owner)
	assert.Equal(t, common.AssetActionCreate, create.Action)
	merge := txs[7].(*AssetOpTx)
	require.NotNil(t, merge.OtherAssetId)
	assert.Equal(t, testOtherId, *merge.OtherAssetId)
	assert.Equal(t, []string{"a", "b"}, txs[8].(*AssetOpTx).Components)
	assert.Equal(t, kp.Address(), txs[9].(*SetPermissionsTx).Owner)
}

func TestBuilderCopiesInputs(t *testing.T) {
	kp := testKeyPair(t)
	b := NewBuilder(kp)

	args := []byte{0xde, 0xad}
	call, err := b.ContractCall(testContract, "ping", args, 1000, 1, 1)
	require.NoError(t, err)
	code := []byte{0x00, 0x61}
	deploy, err := b.DeployContract(code, 1000, 1, 2)
	require.NoError(t, err)
	components := []string{"a", "b"}
	data := common.AssetData{
		Metadata:   map[string]string{"name": "Lantern"},
		Attributes: []common.Attribute{{Name: "glow", Value: "amber"}},
		GameId:     test.StringPtr("game-1"),
	}
	split, err := b.SplitAsset(testAssetId, components, data, 1, 3)
	require.NoError(t, err)
	perms := []common.AssetPermission{
		{Grantee: testTo, Level: common.PermissionGameContract, ExpiresAt: test.Uint64Ptr(10)},
	}
	setPerms, err := b.SetPermissions(testAssetId, true, perms, 1, 4)
	require.NoError(t, err)

	args[0] = 0xff
	code[0] = 0xff
	components[0] = "z"
	data.Metadata["name"] = "Lamp"
	data.Attributes[0].Value = "blue"
	*data.GameId = "game-2"
	perms[0].Level = common.PermissionPublicRead
	*perms[0].ExpiresAt = 99

	assert.Equal(t, []byte{0xde, 0xad}, call.Args)
	assert.Equal(t, []byte{0x00, 0x61}, deploy.Code)
	assert.Equal(t, []string{"a", "b"}, split.Components)
	assert.Equal(t, "Lantern", split.Data.Metadata["name"])
	assert.Equal(t, "amber", split.Data.Attributes[0].Value)
	assert.Equal(t, "game-1", *split.Data.GameId)
	assert.Equal(t, common.PermissionGameContract, setPerms.Permissions[0].Level)
	assert.Equal(t, uint64(10), *setPerms.Permissions[0].ExpiresAt)

	// The signatures still cover what was built
	for _, tx := range []Transaction{call, deploy, split, setPerms} {
		ok, err := VerifyTransaction(tx)
		require.NoError(t, err)
		assert.True(t, ok, tx.Tag())
	}
}

func TestBuilderWire(t *testing.T) {
	kp := testKeyPair(t)
	b := NewBuilder(kp)

	// Unsigned transactions are signed on the way out
	tx := testTransactions(kp.Address())["transfer"]
	data, err := b.Wire(tx)
	require.NoError(t, err)
	require.True(t, tx.Header().IsSigned())
	decoded, err := UnmarshalTransaction(data)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)
	ok, err := VerifyTransaction(decoded)
	require.NoError(t, err)
	assert.True(t, ok)

	// Already signed transactions are encoded as they are
	again, err := b.Wire(tx)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	body, err := b.WireSubmission(tx)
	require.NoError(t, err)
	var sub Submission
	require.NoError(t, json.Unmarshal(body, &sub))
	assert.Equal(t, tx, sub.Transaction)
	var tmp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &tmp))
	assert.JSONEq(t, string(data), string(tmp["transaction"]))

	_, err = b.Wire(&ContractCallTx{})
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)
	_, err = b.WireSubmission(nil)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)
}

func TestBuilderRejectsInvalid(t *testing.T) {
	b := NewBuilder(testKeyPair(t))
	_, err := b.ContractCall(testContract, "", nil, 1, 1, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)
	_, err = b.SplitAsset(testAssetId, []string{"a,b"}, common.AssetData{}, 1, 1)
	assert.ErrorIs(t, err, common.ErrPreconditionViolation)
}

func TestBuilderSignPrebuilt(t *testing.T) {
	kp := testKeyPair(t)
	b := NewBuilder(kp)
	tx := testTransactions(kp.Address())["deploy contract"]
	signed, err := b.Sign(tx)
	require.NoError(t, err)
	assert.True(t, signed.Header().IsSigned())
	_, err = b.Sign(tx)
	assert.ErrorIs(t, err, ErrAlreadySigned)
}

func TestNewTransactionFromTag(t *testing.T) {
	for _, tag := range Tags() {
		tx, err := NewTransactionFromTag(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, tx.Tag())
		assert.False(t, tx.Header().IsSigned())
	}
	_, err := NewTransactionFromTag("Mint")
	assert.ErrorIs(t, err, common.ErrMalformedWireValue)
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Contains(t, err.Error(), `"Mint"`)
}
