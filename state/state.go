// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides the world state the contract components operate on.
//
// All storage mutations are journaled in a stacked map, so a whole operation
// can be reverted as one unit via checkpoints, and committed to the
// underlying kv store only when it completes.
package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/kv"
	"github.com/emberfi/ember/stackedmap"
)

const (
	storageKeyPrefix = "s"

	readCacheSize = 2048
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the wrapped access failure.
func (e *Error) Cause() error { return e.cause }

type storageKey struct {
	addr ember.Address
	key  ember.Bytes32
}

func (k storageKey) persistentKey() []byte {
	b := make([]byte, 0, len(storageKeyPrefix)+ember.AddressLength+32)
	b = append(b, storageKeyPrefix...)
	b = append(b, k.addr.Bytes()...)
	return append(b, k.key.Bytes()...)
}

// State manages contract storage.
type State struct {
	kv    kv.Getter
	cache *lru.Cache // raw values as persisted, shared across checkpoints
	sm    *stackedmap.StackedMap
}

// New create state object with the given backing store.
func New(store kv.Getter) *State {
	cache, _ := lru.New(readCacheSize)
	state := &State{
		kv:    store,
		cache: cache,
	}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.loadStorage(key.(storageKey))
	})
	// the bottom layer, never popped
	state.sm.Push()
	return state
}

// loadStorage reads the persisted raw value through the lru cache.
func (s *State) loadStorage(key storageKey) (any, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.(rlp.RawValue), true, nil
	}
	data, err := s.kv.Get(key.persistentKey())
	if err != nil {
		if !s.kv.IsNotFound(err) {
			return nil, false, &Error{err}
		}
		data = nil
	}
	raw := rlp.RawValue(data)
	s.cache.Add(key, raw)
	return raw, true, nil
}

// GetRawStorage returns storage value in rlp raw form.
func (s *State) GetRawStorage(addr ember.Address, key ember.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return v.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw form.
func (s *State) SetRawStorage(addr ember.Address, key ember.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// An empty encoded value deletes the storage slot.
func (s *State) EncodeStorage(addr ember.Address, key ember.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// The dec callback receives nil when the slot is empty.
func (s *State) DecodeStorage(addr ember.Address, key ember.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit commits all journaled changes to the given store and refreshes the
// read cache. On success the journal is collapsed, so checkpoint revisions
// taken before the commit become invalid.
func (s *State) Commit(store kv.Putter) error {
	batch := store.NewBatch()
	var werr error
	s.sm.Journal(func(key, value any) bool {
		k := key.(storageKey)
		raw := value.(rlp.RawValue)
		s.cache.Add(k, raw)
		if werr = batch.Put(k.persistentKey(), raw); werr != nil {
			return false
		}
		return true
	})
	if werr != nil {
		return &Error{werr}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	// committed values are now served by the read cache
	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
