// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/state"
)

func TestStorageRoundTrip(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	addr := ember.BytesToAddress([]byte("c1"))
	key := ember.BytesToBytes32([]byte("k1"))

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)

	encoded, _ := rlp.EncodeToBytes([]byte("v1"))
	st.SetRawStorage(addr, key, encoded)

	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue(encoded), raw)
}

func TestCheckpointRevert(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	addr := ember.BytesToAddress([]byte("c1"))
	key := ember.BytesToBytes32([]byte("k1"))

	v1, _ := rlp.EncodeToBytes([]byte("v1"))
	v2, _ := rlp.EncodeToBytes([]byte("v2"))

	st.SetRawStorage(addr, key, v1)

	cp := st.NewCheckpoint()
	st.SetRawStorage(addr, key, v2)

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue(v2), raw)

	st.RevertTo(cp)

	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue(v1), raw)
}

func TestCommitPersists(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	addr := ember.BytesToAddress([]byte("c1"))
	key := ember.BytesToBytes32([]byte("k1"))
	v1, _ := rlp.EncodeToBytes([]byte("v1"))

	st := state.New(db)
	st.SetRawStorage(addr, key, v1)
	require.NoError(t, st.Commit(db))

	// a fresh state over the same store sees the committed value
	fresh := state.New(db)
	raw, err := fresh.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue(v1), raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db)
	addr := ember.BytesToAddress([]byte("c1"))
	key := ember.BytesToBytes32([]byte("k1"))

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(uint64(42))
	}))

	var decoded uint64
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, uint64(42), decoded)
}
