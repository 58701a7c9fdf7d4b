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
	"errors"
	"strings"
	"testing"

	"github.com/blinklabs-io/gohaze/internal/test"
	"github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFromHex = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	testToHex   = "0202020202020202020202020202020202020202020202020202020202020202"
)

func TestMarshalTransactionTransfer(t *testing.T) {
	kp := testKeyPair(t)
	tx := testTransactions(kp.Address())["transfer"]
	data, err := MarshalTransaction(tx)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"Transfer":{"from":"`+testFromHex+`","to":"`+testToHex+`","amount":"1000","fee":"10","nonce":"5"}}`,
		string(data),
	)

	require.NoError(t, SignTransaction(tx, kp))
	data, err = MarshalTransaction(tx)
	require.NoError(t, err)
	var tmp map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &tmp))
	assert.Equal(t, tx.Header().Signature.String(), tmp[TagTransfer]["signature"])
	assert.NotContains(t, tmp[TagTransfer], "chain_id")
	assert.NotContains(t, tmp[TagTransfer], "valid_until_height")
}

func TestMarshalTransactionChainBinding(t *testing.T) {
	kp := testKeyPair(t)
	tx := testTransactions(kp.Address())["transfer with chain binding"]
	data, err := MarshalTransaction(tx)
	require.NoError(t, err)
	var tmp map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &tmp))
	assert.Equal(t, "7", tmp[TagTransfer]["chain_id"])
	assert.Equal(t, "100", tmp[TagTransfer]["valid_until_height"])
}

func TestMarshalTransactionAssetData(t *testing.T) {
	kp := testKeyPair(t)
	tx := testTransactions(kp.Address())["asset merge"]
	data, err := MarshalTransaction(tx)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"MistbornAsset":{`+
			`"from":"`+testFromHex+`",`+
			`"action":"Merge",`+
			`"asset_id":"`+testAssetId.String()+`",`+
			`"data":{"density":"Dense","metadata":{"_other_asset_id":"`+testOtherId.String()+`"},"attributes":[],"game_id":null,"owner":"`+testFromHex+`"},`+
			`"fee":"100","nonce":"1"}}`,
		string(data),
	)
	// The typed field is carried in a copy of the metadata
	assert.Nil(t, tx.(*AssetOpTx).Data.Metadata)

	tx = testTransactions(kp.Address())["asset split"]
	data, err = MarshalTransaction(tx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_components":"sword,shield"`)
}

func TestMarshalTransactionPermissions(t *testing.T) {
	kp := testKeyPair(t)
	data, err := MarshalTransaction(testTransactions(kp.Address())["set permissions"])
	require.NoError(t, err)
	var tmp map[string]struct {
		Permissions []map[string]any `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(data, &tmp))
	perms := tmp[TagSetAssetPermissions].Permissions
	require.Len(t, perms, 2)
	assert.Equal(t, "GameContract", perms[0]["level"])
	assert.Equal(t, "game-1", perms[0]["game_id"])
	assert.Equal(t, "1700000000", perms[0]["expires_at"])
	assert.Contains(t, perms[1], "game_id")
	assert.Nil(t, perms[1]["game_id"])
	assert.NotContains(t, perms[1], "expires_at")
}

func TestTransactionRoundTrip(t *testing.T) {
	kp := testKeyPair(t)
	for name, tx := range testTransactions(kp.Address()) {
		for _, signed := range []bool{false, true} {
			if signed {
				require.NoError(t, SignTransaction(tx, kp))
			}
			data, err := MarshalTransaction(tx)
			require.NoError(t, err, name)
			decoded, err := UnmarshalTransaction(data)
			require.NoError(t, err, name)
			assert.Equal(t, tx, decoded, name)
		}
	}
}

func TestTransactionRoundTripEdgeValues(t *testing.T) {
	maxU64 := ^uint64(0)
	testDefs := []Transaction{
		&TransferTx{},
		&TransferTx{
			TxHeader: TxHeader{
				Fee:              maxU64,
				Nonce:            maxU64,
				ChainId:          test.Uint64Ptr(maxU64),
				ValidUntilHeight: test.Uint64Ptr(0),
			},
			Amount: maxU64,
		},
		&StakeTx{Amount: maxU64},
		&ContractCallTx{Method: "noop", GasLimit: maxU64},
		&DeployContractTx{},
		&AssetOpTx{Action: common.AssetActionEvaporate},
		&AssetOpTx{Action: common.AssetActionMerge},
		&AssetOpTx{Action: common.AssetActionSplit},
		&SetPermissionsTx{},
		&SetPermissionsTx{
			Permissions: []common.AssetPermission{
				{ExpiresAt: test.Uint64Ptr(maxU64), GameId: test.StringPtr("")},
			},
		},
	}
	for _, tx := range testDefs {
		data, err := MarshalTransaction(tx)
		require.NoError(t, err)
		decoded, err := UnmarshalTransaction(data)
		require.NoError(t, err, string(data))
		assert.Equal(t, tx, decoded, string(data))
	}
}

func TestMarshalTransactionMaxUint64String(t *testing.T) {
	tx := &TransferTx{Amount: ^uint64(0)}
	data, err := MarshalTransaction(tx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"18446744073709551615"`)
}

func TestUnmarshalTransactionLenientNumbers(t *testing.T) {
	zero := strings.Repeat("00", 32)
	data := `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":1000,"fee":"10","nonce":5}}`
	tx, err := UnmarshalTransaction([]byte(data))
	require.NoError(t, err)
	transfer, ok := tx.(*TransferTx)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), transfer.Amount)
	assert.Equal(t, uint64(5), transfer.Nonce)
}

// withoutField drops one key from the body of an encoded transaction
func withoutField(t *testing.T, data []byte, tag string, field string) string {
	t.Helper()
	var tmp map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &tmp))
	require.Contains(t, tmp[tag], field)
	delete(tmp[tag], field)
	ret, err := json.Marshal(tmp)
	require.NoError(t, err)
	return string(ret)
}

func TestUnmarshalTransactionErrors(t *testing.T) {
	zero := strings.Repeat("00", 32)
	transfer := func(from, to, amount string) string {
		return `{"Transfer":{"from":"` + from + `","to":"` + to + `","amount":` + amount + `,"fee":"1","nonce":"1"}}`
	}
	negativeExpiry := `{"SetAssetPermissions":{"from":"` + zero + `","asset_id":"` + zero + `",` +
		`"permissions":[{"grantee":"` + zero + `","level":"PublicRead","game_id":null,"expires_at":"-1"}],` +
		`"public_read":false,"owner":"` + zero + `","fee":"1","nonce":"1"}}`
	type errorTest struct {
		name  string
		data  string
		field string
	}
	testDefs := []errorTest{
		{name: "not json", data: `nope`},
		{name: "no variant", data: `{}`},
		{name: "two variants", data: `{"Transfer":{},"Stake":{}}`},
		{name: "unknown variant", data: `{"Mint":{}}`, field: "transaction"},
		{name: "body not an object", data: `{"Transfer":[]}`, field: TagTransfer},
		{name: "odd hex", data: transfer(zero[:63], zero, `"1"`), field: "from"},
		{name: "short hex", data: transfer(zero, zero[:62], `"1"`), field: "to"},
		{name: "non-hex", data: transfer(zero, "zz"+zero[2:], `"1"`), field: "to"},
		{name: "negative amount", data: transfer(zero, zero, `"-1"`), field: "amount"},
		{name: "fractional amount", data: transfer(zero, zero, `"1.5"`), field: "amount"},
		{name: "amount overflow", data: transfer(zero, zero, `"18446744073709551616"`), field: "amount"},
		{name: "empty amount", data: transfer(zero, zero, `""`), field: "amount"},
		{name: "null amount", data: transfer(zero, zero, `null`), field: "amount"},
		{
			name:  "bad fee",
			data:  `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":"1","fee":"x","nonce":"1"}}`,
			field: "fee",
		},
		{
			name:  "bad nonce",
			data:  `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":"1","fee":"1","nonce":"x"}}`,
			field: "nonce",
		},
		{
			name:  "bad chain id",
			data:  `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":"1","fee":"1","nonce":"1","chain_id":"-7"}}`,
			field: "chain_id",
		},
		{
			name:  "wrong type for string field",
			data:  `{"Transfer":{"from":1,"to":"` + zero + `","amount":"1","fee":"1","nonce":"1"}}`,
			field: "from",
		},
		{
			name:  "unknown field",
			data:  `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":"1","fee":"1","nonce":"1","extra":1}}`,
			field: TagTransfer,
		},
		{
			name:  "bad signature length",
			data:  `{"Stake":{"from":"` + zero + `","validator":"` + zero + `","amount":"1","fee":"1","nonce":"1","signature":"00"}}`,
			field: "signature",
		},
		{
			name: "bad action",
			data: `{"MistbornAsset":{"from":"` + zero + `","action":"Melt","asset_id":"` + zero + `","data":{"density":"Core","owner":"` + zero + `"},"fee":"1","nonce":"1"}}`,
		},
		{
			name:  "bad other asset id on merge",
			data:  `{"MistbornAsset":{"from":"` + zero + `","action":"Merge","asset_id":"` + zero + `","data":{"density":"Core","metadata":{"_other_asset_id":"abc"},"owner":"` + zero + `"},"fee":"1","nonce":"1"}}`,
			field: MetadataKeyOtherAssetId,
		},
		{name: "negative expiry", data: negativeExpiry, field: "permissions"},
		{
			name:  "empty method",
			data:  `{"ContractCall":{"from":"` + zero + `","contract":"` + zero + `","method":"","args":"","gas_limit":"1","fee":"1","nonce":"1"}}`,
			field: TagContractCall,
		},
	}

	// Every required key, dropped one at a time from a valid body
	requiredFields := map[string][]string{
		TagTransfer:            {"from", "to", "amount", "fee", "nonce"},
		TagStake:               {"from", "validator", "amount", "fee", "nonce"},
		TagContractCall:        {"from", "contract", "method", "args", "gas_limit", "fee", "nonce"},
		TagDeployContract:      {"from", "code", "gas_limit", "fee", "nonce"},
		TagMistbornAsset:       {"from", "action", "asset_id", "data", "fee", "nonce"},
		TagSetAssetPermissions: {"from", "asset_id", "permissions", "public_read", "owner", "fee", "nonce"},
	}
	kp := testKeyPair(t)
	txs := testTransactions(kp.Address())
	for _, name := range []string{"transfer", "stake", "contract call", "deploy contract", "asset create", "set permissions"} {
		tx := txs[name]
		data, err := MarshalTransaction(tx)
		require.NoError(t, err)
		for _, field := range requiredFields[tx.Tag()] {
			testDefs = append(testDefs, errorTest{
				name:  "missing " + tx.Tag() + " " + field,
				data:  withoutField(t, data, tx.Tag(), field),
				field: field,
			})
		}
	}

	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := UnmarshalTransaction([]byte(testDef.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrMalformedWireValue), "got %v", err)
			if testDef.field != "" {
				var wireErr common.MalformedWireValueError
				require.True(t, errors.As(err, &wireErr))
				assert.Equal(t, testDef.field, wireErr.Field, "got %v", err)
			}
		})
	}
}

func TestUnmarshalTransactionNamesBadNumbers(t *testing.T) {
	zero := strings.Repeat("00", 32)
	body := func(fee, nonce string) string {
		return `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":"1","fee":"` + fee + `","nonce":"` + nonce + `"}}`
	}
	_, feeErr := UnmarshalTransaction([]byte(body("x", "1")))
	require.Error(t, feeErr)
	_, nonceErr := UnmarshalTransaction([]byte(body("1", "x")))
	require.Error(t, nonceErr)
	assert.NotEqual(t, feeErr.Error(), nonceErr.Error())
	assert.Contains(t, feeErr.Error(), "for fee")
	assert.Contains(t, nonceErr.Error(), "for nonce")
}

func TestUnmarshalTransactionOptionalNulls(t *testing.T) {
	zero := strings.Repeat("00", 32)
	data := `{"Transfer":{"from":"` + zero + `","to":"` + zero + `","amount":"1","fee":"1","nonce":"1",` +
		`"chain_id":null,"valid_until_height":null,"signature":null}}`
	tx, err := UnmarshalTransaction([]byte(data))
	require.NoError(t, err)
	assert.Nil(t, tx.Header().ChainId)
	assert.Nil(t, tx.Header().ValidUntilHeight)
	assert.False(t, tx.Header().IsSigned())
}

func TestUnmarshalAssetMetadata(t *testing.T) {
	zero := strings.Repeat("00", 32)
	assetOp := func(action string, metadata string) []byte {
		return []byte(`{"MistbornAsset":{"from":"` + zero + `","action":"` + action + `","asset_id":"` + zero + `",` +
			`"data":{"density":"Core","metadata":` + metadata + `,"owner":"` + zero + `"},"fee":"1","nonce":"1"}}`)
	}
	decode := func(t *testing.T, data []byte) *AssetOpTx {
		t.Helper()
		tx, err := UnmarshalTransaction(data)
		require.NoError(t, err)
		assetTx, ok := tx.(*AssetOpTx)
		require.True(t, ok)
		return assetTx
	}

	t.Run("split components", func(t *testing.T) {
		testDefs := []struct {
			components string
			expected   []string
		}{
			{components: "sword,shield", expected: []string{"sword", "shield"}},
			{components: "a,,b", expected: []string{"a", "", "b"}},
			{components: "a,", expected: []string{"a", ""}},
			{components: ",", expected: []string{"", ""}},
			{components: "", expected: nil},
		}
		for _, testDef := range testDefs {
			tx := decode(t, assetOp("Split", `{"_components":"`+testDef.components+`"}`))
			assert.Equal(t, testDef.expected, tx.Components, testDef.components)
			assert.Nil(t, tx.Data.Metadata, testDef.components)
			// The raw string is what gets signed
			payload, err := SigningPayload(tx)
			require.NoError(t, err)
			assert.Contains(t, string(payload), testDef.components)
			// And it comes back unchanged on the wire
			data, err := MarshalTransaction(tx)
			require.NoError(t, err)
			if testDef.components != "" {
				assert.Contains(t, string(data), `"_components":"`+testDef.components+`"`)
			}
			decoded := decode(t, data)
			assert.Equal(t, tx, decoded, testDef.components)
		}
	})

	t.Run("other asset id outside merge", func(t *testing.T) {
		tx := decode(t, assetOp("Update", `{"_other_asset_id":"`+zero+`","name":"x"}`))
		assert.Nil(t, tx.OtherAssetId)
		assert.Equal(t, zero, tx.Data.Metadata[MetadataKeyOtherAssetId])
		// The payload ignores it
		withKey, err := SigningPayload(tx)
		require.NoError(t, err)
		delete(tx.Data.Metadata, MetadataKeyOtherAssetId)
		withoutKey, err := SigningPayload(tx)
		require.NoError(t, err)
		assert.Equal(t, withoutKey, withKey)
	})

	t.Run("components outside split", func(t *testing.T) {
		tx := decode(t, assetOp("Merge", `{"_other_asset_id":"`+testOtherId.String()+`","_components":"a,b"}`))
		require.NotNil(t, tx.OtherAssetId)
		assert.Equal(t, testOtherId, *tx.OtherAssetId)
		assert.Nil(t, tx.Components)
		assert.Equal(t, map[string]string{MetadataKeyComponents: "a,b"}, tx.Data.Metadata)
		data, err := MarshalTransaction(tx)
		require.NoError(t, err)
		assert.Equal(t, tx, decode(t, data))
	})
}

func TestSubmissionEnvelope(t *testing.T) {
	kp := testKeyPair(t)
	tx := testTransactions(kp.Address())["contract call"]
	require.NoError(t, SignTransaction(tx, kp))
	data, err := json.Marshal(Submission{Transaction: tx})
	require.NoError(t, err)

	var tmp map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &tmp))
	body := tmp["transaction"][TagContractCall]
	assert.Equal(t, "transfer", body["method"])
	assert.Equal(t, "deadbeef", body["args"])
	assert.Equal(t, "50000", body["gas_limit"])

	var decoded Submission
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tx, decoded.Transaction)
}
