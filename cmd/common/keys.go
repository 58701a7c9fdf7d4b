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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blinklabs-io/gohaze/keys"
	"github.com/blinklabs-io/gohaze/ledger"
)

// SeedEnvVar names the environment variable consulted when -seed-file is not given
const SeedEnvVar = "HAZE_SEED"

// LoadKeyPair loads the signing key from -seed-file or $HAZE_SEED
func (f *GlobalFlags) LoadKeyPair() (*keys.KeyPair, error) {
	if f.SeedFile != "" {
		return LoadKeyPairFile(f.SeedFile)
	}
	if seed := os.Getenv(SeedEnvVar); seed != "" {
		return keys.NewKeyPairFromHex(strings.TrimSpace(seed))
	}
	return nil, fmt.Errorf("no signing key: specify -seed-file or set $%s", SeedEnvVar)
}

// LoadKeyPairFile reads a hex seed file as written by the keygen subcommand
func LoadKeyPairFile(path string) (*keys.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return keys.NewKeyPairFromHex(string(bytes.TrimSpace(data)))
}

// WriteSeedFile stores the seed of kp as hex, readable only by the owner
func WriteSeedFile(path string, kp *keys.KeyPair) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(kp.SeedHex()+"\n"), 0o600)
}

// ReadTransactionFile loads a transaction in wire form. Both a bare tagged
// transaction and a {"transaction": ...} submission body are accepted.
func ReadTransactionFile(path string) (ledger.Transaction, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read transaction file: %w", err)
	}
	tx, err := ledger.UnmarshalTransaction(data)
	if err == nil {
		return tx, nil
	}
	var sub ledger.Submission
	if subErr := sub.UnmarshalJSON(data); subErr == nil && sub.Transaction != nil {
		return sub.Transaction, nil
	}
	return nil, err
}
