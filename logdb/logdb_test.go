// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
)

var (
	tokenAddr = ember.BytesToAddress([]byte("token"))
	alice     = ember.BytesToAddress([]byte("alice"))
	bob       = ember.BytesToAddress([]byte("bob"))
)

func newDB(t *testing.T) *LogDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestWriteAndFilter(t *testing.T) {
	db := newDB(t)

	require.NoError(t, db.Write(1, []events.Event{
		{Name: events.NameMint, Contract: tokenAddr, To: alice, Amount: big.NewInt(1000)},
		{Name: events.NameTransfer, Contract: tokenAddr, From: alice, To: bob, Amount: big.NewInt(10)},
	}))
	require.NoError(t, db.Write(2, []events.Event{
		{Name: events.NameBurn, Contract: tokenAddr, From: alice, To: ember.DeadAddress, Amount: big.NewInt(5)},
	}))

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, events.NameMint, all[0].Name)
	assert.Equal(t, uint64(1), all[0].BlockNumber)
	assert.Equal(t, int64(1000), all[0].Amount.Int64())

	byName, err := db.Filter(context.Background(), &EventFilter{Name: events.NameBurn})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, int64(5), byName[0].Amount.Int64())

	byAddr, err := db.Filter(context.Background(), &EventFilter{Address: &bob})
	require.NoError(t, err)
	require.Len(t, byAddr, 1)
	assert.Equal(t, events.NameTransfer, byAddr[0].Name)

	byRange, err := db.Filter(context.Background(), &EventFilter{FromBlock: 2})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, uint64(2), byRange[0].BlockNumber)
}

func TestFilterOrderAndPagination(t *testing.T) {
	db := newDB(t)
	for n := uint64(1); n <= 5; n++ {
		require.NoError(t, db.Write(n, []events.Event{
			{Name: events.NameTransfer, Contract: tokenAddr, From: alice, To: bob, Amount: big.NewInt(int64(n))},
		}))
	}

	desc, err := db.Filter(context.Background(), &EventFilter{
		Order:   DESC,
		Options: &Options{Offset: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, uint64(4), desc[0].BlockNumber)
	assert.Equal(t, uint64(3), desc[1].BlockNumber)
}
