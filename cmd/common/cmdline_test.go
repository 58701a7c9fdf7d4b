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
	"os"
	"path/filepath"
	"testing"

	haze "github.com/blinklabs-io/gohaze"
	"github.com/blinklabs-io/gohaze/internal/test"
	"github.com/blinklabs-io/gohaze/keys"
	"github.com/blinklabs-io/gohaze/ledger"
	lcommon "github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeedHex = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func buildTransfer(t *testing.T, f *GlobalFlags) *ledger.TransferTx {
	t.Helper()
	kp, err := keys.NewKeyPairFromHex(testSeedHex)
	require.NoError(t, err)
	tx, err := ledger.NewBuilder(kp, f.BuilderOptions()...).Transfer(lcommon.Address{2}, 5, 1, 0)
	require.NoError(t, err)
	return tx
}

func TestBuilderOptionsChainBinding(t *testing.T) {
	boundNetwork := haze.Network{Name: "bound", ChainId: test.Uint64Ptr(7)}
	testDefs := []struct {
		name          string
		flags         GlobalFlags
		expectedChain *uint64
	}{
		{
			name:  "devnet has no binding",
			flags: GlobalFlags{network: haze.NetworkDevnet},
		},
		{
			name:  "testnet has no binding",
			flags: GlobalFlags{network: haze.NetworkTestnet},
		},
		{
			name:          "network default",
			flags:         GlobalFlags{network: boundNetwork},
			expectedChain: boundNetwork.ChainId,
		},
		{
			name:          "explicit chain id wins",
			flags:         GlobalFlags{network: boundNetwork, ChainId: 9},
			expectedChain: test.Uint64Ptr(9),
		},
		{
			name:  "binding disabled",
			flags: GlobalFlags{network: boundNetwork, NoChainId: true},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tx := buildTransfer(t, &testDef.flags)
			assert.Equal(t, testDef.expectedChain, tx.ChainId)
			assert.Nil(t, tx.ValidUntilHeight)
		})
	}
}

func TestBuilderOptionsValidUntil(t *testing.T) {
	f := &GlobalFlags{network: haze.NetworkDevnet, ValidUntilHeight: 500}
	tx := buildTransfer(t, f)
	require.NotNil(t, tx.ValidUntilHeight)
	assert.Equal(t, uint64(500), *tx.ValidUntilHeight)
}

func TestSeedFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed")
	kp, err := keys.NewKeyPairFromHex(testSeedHex)
	require.NoError(t, err)
	require.NoError(t, WriteSeedFile(path, kp))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadKeyPairFile(path)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), loaded.Address())

	assert.Error(t, WriteSeedFile(path, kp), "existing seed files are never overwritten")
}

func TestLoadKeyPairFromEnv(t *testing.T) {
	t.Setenv(SeedEnvVar, " "+testSeedHex+"\n")
	f := &GlobalFlags{}
	kp, err := f.LoadKeyPair()
	require.NoError(t, err)
	assert.Equal(
		t,
		"d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
		kp.Address().String(),
	)

	t.Setenv(SeedEnvVar, "")
	_, err = f.LoadKeyPair()
	assert.Error(t, err)
}

func TestReadTransactionFile(t *testing.T) {
	tx := buildTransfer(t, &GlobalFlags{network: haze.NetworkDevnet})
	bare, err := ledger.MarshalTransaction(tx)
	require.NoError(t, err)
	wrapped, err := ledger.Submission{Transaction: tx}.MarshalJSON()
	require.NoError(t, err)

	dir := t.TempDir()
	for name, data := range map[string][]byte{"bare.json": bare, "wrapped.json": wrapped} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		loaded, err := ReadTransactionFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, tx, loaded, name)
	}

	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Bogus":{}}`), 0o644))
	_, err = ReadTransactionFile(path)
	assert.ErrorIs(t, err, ledger.ErrUnknownVariant)
	assert.ErrorIs(t, err, lcommon.ErrMalformedWireValue)
}
