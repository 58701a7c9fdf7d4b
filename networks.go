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

// Package haze is a client toolkit for the HAZE ledger: canonical transaction
// encoding and signing (ledger, keys), constant-product pool quotes (amm), an
// HTTP client for the ledger API (client) and a submission load generator
// (loadgen).
package haze

import "strings"

// Network definitions
var (
	// NetworkDevnet is a single local node with no chain binding
	NetworkDevnet = Network{
		Name:   "devnet",
		ApiUrl: "http://127.0.0.1:8080",
	}
	// The public networks publish no chain id yet. Use -chain-id to bind one.
	NetworkTestnet = Network{
		Name: "testnet",
	}
	NetworkMainnet = Network{
		Name: "mainnet",
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkDevnet,
	NetworkTestnet,
	NetworkMainnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == strings.ToLower(name) {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a HAZE network
type Network struct {
	Name string
	// ChainId is bound into every signed transaction when set
	ChainId *uint64
	// ApiUrl is the default ledger API base URL, if the network has one
	ApiUrl string
}

func (n Network) String() string {
	return n.Name
}

func (n Network) Valid() bool {
	return n.Name != NetworkInvalid.Name
}
