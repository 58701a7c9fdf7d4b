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

// Package noncestore persists the next nonce to use for each sending account,
// so repeated CLI invocations and load runs do not reuse a nonce.
package noncestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blinklabs-io/gohaze/ledger/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const keyPrefix = "nonce:"

// Store is a goleveldb-backed map of address to next nonce
type Store struct {
	sync.Mutex
	db         *leveldb.DB
	logger     *slog.Logger
	syncWrites bool
}

type StoreOptionFunc func(*Store)

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSync makes every write wait for the data to reach stable storage
func WithSync(syncWrites bool) StoreOptionFunc {
	return func(s *Store) {
		s.syncWrites = syncWrites
	}
}

// Open opens or creates a store in the directory at path
func Open(path string, opts ...StoreOptionFunc) (*Store, error) {
	if path == "" {
		return nil, errors.New("no nonce store path provided")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open nonce store in %s: %w", path, err)
	}
	s := newStore(db, opts...)
	s.logger.Debug("opened nonce store", "path", path)
	return s, nil
}

// OpenMemory opens a store that lives only as long as the process
func OpenMemory(opts ...StoreOptionFunc) (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory nonce store: %w", err)
	}
	return newStore(db, opts...), nil
}

func newStore(db *leveldb.DB, opts ...StoreOptionFunc) *Store {
	s := &Store{
		db: db,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the next nonce for addr and whether one has been recorded
func (s *Store) Get(addr common.Address) (uint64, bool, error) {
	s.Lock()
	defer s.Unlock()
	return s.get(addr)
}

// Next returns the next nonce for addr and records its successor. An account
// with no record starts at 0.
func (s *Store) Next(addr common.Address) (uint64, error) {
	s.Lock()
	defer s.Unlock()
	nonce, _, err := s.get(addr)
	if err != nil {
		return 0, err
	}
	if nonce == ^uint64(0) {
		return 0, fmt.Errorf("nonce for %s is exhausted", addr)
	}
	if err := s.put(addr, nonce+1); err != nil {
		return 0, err
	}
	return nonce, nil
}

// Set records nonce as the next nonce for addr
func (s *Store) Set(addr common.Address, nonce uint64) error {
	s.Lock()
	defer s.Unlock()
	return s.put(addr, nonce)
}

// Advance records that used has been accepted by the ledger. The stored next
// nonce never moves backwards.
func (s *Store) Advance(addr common.Address, used uint64) error {
	s.Lock()
	defer s.Unlock()
	current, _, err := s.get(addr)
	if err != nil {
		return err
	}
	if used == ^uint64(0) || used < current {
		return nil
	}
	return s.put(addr, used+1)
}

// All returns every recorded address and its next nonce
func (s *Store) All() (map[common.Address]uint64, error) {
	s.Lock()
	defer s.Unlock()
	ret := make(map[common.Address]uint64)
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), &opt.ReadOptions{})
	defer iter.Release()
	for iter.Next() {
		addr, err := common.NewAddressFromHex(
			"key",
			strings.TrimPrefix(string(iter.Key()), keyPrefix),
		)
		if err != nil {
			return nil, fmt.Errorf("corrupt nonce store key: %w", err)
		}
		nonce, err := decodeNonce(iter.Value())
		if err != nil {
			return nil, err
		}
		ret[addr] = nonce
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate nonce store: %w", err)
	}
	return ret, nil
}

func (s *Store) get(addr common.Address) (uint64, bool, error) {
	data, err := s.db.Get(key(addr), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read nonce for %s: %w", addr, err)
	}
	nonce, err := decodeNonce(data)
	if err != nil {
		return 0, false, err
	}
	return nonce, true, nil
}

func (s *Store) put(addr common.Address, nonce uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], nonce)
	if err := s.db.Put(key(addr), buf[:], &opt.WriteOptions{Sync: s.syncWrites}); err != nil {
		return fmt.Errorf("failed to write nonce for %s: %w", addr, err)
	}
	s.logger.Debug("recorded next nonce", "address", addr.String(), "nonce", nonce)
	return nil
}

func key(addr common.Address) []byte {
	return []byte(keyPrefix + addr.String())
}

func decodeNonce(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt nonce store value: expected 8 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}
