// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/storage"
)

func newContext(t *testing.T) *storage.Context {
	t.Helper()
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewContext(ember.BytesToAddress([]byte("contract")), state.New(db))
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	slot := ember.BytesToBytes32([]byte("counter"))
	u := storage.NewUint256(ctx, slot)

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Set(big.NewInt(100)))
	require.NoError(t, u.Add(big.NewInt(23)))
	require.NoError(t, u.Sub(big.NewInt(3)))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(120), v)
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	slot := ember.BytesToBytes32([]byte("owner"))
	a := storage.NewAddress(ctx, slot)

	addr, err := a.Get()
	require.NoError(t, err)
	assert.True(t, addr.IsZero())

	owner := ember.BytesToAddress([]byte("o1"))
	require.NoError(t, a.Set(owner))

	addr, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, owner, addr)
}

type record struct {
	Amount *big.Int
	Count  uint64
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	slot := ember.BytesToBytes32([]byte("records"))
	m := storage.NewMapping[ember.Address, *record](ctx, slot)

	k1 := ember.BytesToAddress([]byte("a1"))
	k2 := ember.BytesToAddress([]byte("a2"))

	// empty slot decodes to an allocated zero value
	r, err := m.Get(k1)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, uint64(0), r.Count)

	require.NoError(t, m.Set(k1, &record{Amount: big.NewInt(7), Count: 2}))

	r, err = m.Get(k1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), r.Amount)
	assert.Equal(t, uint64(2), r.Count)

	// distinct keys get distinct slots
	r, err = m.Get(k2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), r.Count)
}

func TestMappingBigIntValues(t *testing.T) {
	ctx := newContext(t)
	slot := ember.BytesToBytes32([]byte("balances"))
	m := storage.NewMapping[ember.Address, *big.Int](ctx, slot)

	k := ember.BytesToAddress([]byte("a1"))

	v, err := m.Get(k)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, m.Set(k, big.NewInt(1e9)))
	v, err = m.Get(k)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e9), v)
}
