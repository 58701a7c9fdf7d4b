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

package haze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkByName(t *testing.T) {
	testDefs := []struct {
		name     string
		expected Network
	}{
		{name: "devnet", expected: NetworkDevnet},
		{name: "Testnet", expected: NetworkTestnet},
		{name: "mainnet", expected: NetworkMainnet},
		{name: "preprod", expected: NetworkInvalid},
	}
	for _, testDef := range testDefs {
		network := NetworkByName(testDef.name)
		assert.Equal(t, testDef.expected, network, testDef.name)
	}
	assert.False(t, NetworkByName("nope").Valid())
	assert.True(t, NetworkByName("devnet").Valid())
}

func TestNetworksUnbound(t *testing.T) {
	for _, network := range networks {
		assert.Nil(t, network.ChainId, network.Name)
	}
	assert.Equal(t, "testnet", NetworkTestnet.String())
}
