// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/reverts"
	"github.com/emberfi/ember/state"
)

var (
	alice      = ember.BytesToAddress([]byte("alice"))
	bob        = ember.BytesToAddress([]byte("bob"))
	carol      = ember.BytesToAddress([]byte("carol"))
	controller = ember.BytesToAddress([]byte("controller"))
)

func newToken(t *testing.T, maxSupply int64) (*Token, *[]events.Event) {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	var collected []events.Event
	sink := events.Sink(func(ev events.Event) {
		collected = append(collected, ev)
	})

	tok := New(ember.TokenContractAddress, state.New(kv), sink)
	require.NoError(t, tok.Initialize("Ember", "EMBER", big.NewInt(maxSupply), controller))
	return tok, &collected
}

func mustMint(t *testing.T, tok *Token, to ember.Address, value int64) {
	require.NoError(t, tok.Mint(controller, to, big.NewInt(value)))
}

func percentOf(t *testing.T, tok *Token) int64 {
	p, err := tok.BurnPercent()
	require.NoError(t, err)
	return p.Int64()
}

func balanceOf(t *testing.T, tok *Token, addr ember.Address) int64 {
	b, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return b.Int64()
}

func supplyOf(t *testing.T, tok *Token) int64 {
	s, err := tok.TotalSupply()
	require.NoError(t, err)
	return s.Int64()
}

func TestInitialize(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)

	name, err := tok.Name()
	require.NoError(t, err)
	assert.Equal(t, "Ember", name)

	symbol, err := tok.Symbol()
	require.NoError(t, err)
	assert.Equal(t, "EMBER", symbol)

	maxSupply, err := tok.MaxSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), maxSupply.Int64())

	minNoBurn, err := tok.MinSupplyNoBurn()
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), minNoBurn.Int64())

	ctrl, err := tok.Controller()
	require.NoError(t, err)
	assert.Equal(t, controller, ctrl)

	// half the ceiling before any supply exists
	assert.Equal(t, int64(250), percentOf(t, tok))

	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	defer kv.Close()
	bad := New(ember.TokenContractAddress, state.New(kv), nil)
	err = bad.Initialize("Ember", "EMBER", big.NewInt(0), controller)
	assert.True(t, reverts.Is(err, reverts.CodeInvalidConfiguration))
}

func TestBurnPercentLadder(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)

	mustMint(t, tok, alice, 250_000)
	assert.Equal(t, int64(125), percentOf(t, tok))

	mustMint(t, tok, alice, 500_000)
	assert.Equal(t, int64(375), percentOf(t, tok))

	mustMint(t, tok, alice, 250_000)
	assert.Equal(t, int64(500), percentOf(t, tok))

	// above the max supply it stays clamped
	mustMint(t, tok, alice, 100_000)
	assert.Equal(t, int64(500), percentOf(t, tok))

	// at or below a tenth of the max supply the burn disables
	require.NoError(t, tok.Burn(alice, big.NewInt(1_000_000)))
	assert.Equal(t, int64(0), percentOf(t, tok))

	// immediately above the floor it snaps back to a small positive value
	mustMint(t, tok, alice, 1)
	assert.Equal(t, int64(50), percentOf(t, tok))
}

func TestTransferBurn(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 750_000)
	require.Equal(t, int64(375), percentOf(t, tok))

	// 1234 rounds up to 1300; 375 bps of 1300 is 48
	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(1234)))
	assert.Equal(t, int64(750_000-1234), balanceOf(t, tok, alice))
	assert.Equal(t, int64(1186), balanceOf(t, tok, bob))
	assert.Equal(t, int64(48), balanceOf(t, tok, ember.DeadAddress))
	assert.Equal(t, int64(749_952), supplyOf(t, tok))
	assert.Equal(t, int64(374), percentOf(t, tok))
}

func TestTransferToSink(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 750_000)
	require.Equal(t, int64(375), percentOf(t, tok))

	// the burn share and the delivered share both leave the supply
	require.NoError(t, tok.Transfer(alice, ember.DeadAddress, big.NewInt(250_000)))
	assert.Equal(t, int64(500_000), balanceOf(t, tok, alice))
	assert.Equal(t, int64(250_000), balanceOf(t, tok, ember.DeadAddress))
	assert.Equal(t, int64(500_000), supplyOf(t, tok))
	assert.Equal(t, int64(250), percentOf(t, tok))
}

func TestTransferToZeroRedirects(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 750_000)

	require.NoError(t, tok.Transfer(alice, ember.Address{}, big.NewInt(250_000)))
	assert.Equal(t, int64(250_000), balanceOf(t, tok, ember.DeadAddress))
	assert.Equal(t, int64(0), balanceOf(t, tok, ember.Address{}))
	assert.Equal(t, int64(500_000), supplyOf(t, tok))
}

func TestTransferDust(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 1_000_000)
	require.Equal(t, int64(500), percentOf(t, tok))

	// 1 rounds up to 100; 500 bps of 100 is 5, capped at the transferred value
	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(1)))
	assert.Equal(t, int64(0), balanceOf(t, tok, bob))
	assert.Equal(t, int64(1), balanceOf(t, tok, ember.DeadAddress))
	assert.Equal(t, int64(999_999), supplyOf(t, tok))
}

func TestTransferNoBurnBelowFloor(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 100_000)
	require.Equal(t, int64(0), percentOf(t, tok))

	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(50_000)))
	assert.Equal(t, int64(50_000), balanceOf(t, tok, bob))
	assert.Equal(t, int64(0), balanceOf(t, tok, ember.DeadAddress))
	assert.Equal(t, int64(100_000), supplyOf(t, tok))
}

func TestTransferInsufficientBalance(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 100)

	err := tok.Transfer(alice, bob, big.NewInt(101))
	assert.True(t, reverts.Is(err, reverts.CodeInsufficientBalance))
	assert.Equal(t, int64(100), balanceOf(t, tok, alice))
}

func TestApproveTransferFrom(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 100_000)
	require.Equal(t, int64(0), percentOf(t, tok))

	require.NoError(t, tok.Approve(alice, carol, big.NewInt(5000)))
	allowance, err := tok.Allowance(alice, carol)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), allowance.Int64())

	err = tok.TransferFrom(carol, alice, bob, big.NewInt(6000))
	assert.True(t, reverts.Is(err, reverts.CodeInsufficientAllowance))

	require.NoError(t, tok.TransferFrom(carol, alice, bob, big.NewInt(3000)))
	assert.Equal(t, int64(3000), balanceOf(t, tok, bob))

	allowance, err = tok.Allowance(alice, carol)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), allowance.Int64())
}

func TestMintUnauthorized(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)

	err := tok.Mint(alice, alice, big.NewInt(100))
	assert.True(t, reverts.Is(err, reverts.CodeUnauthorized))
	assert.Equal(t, int64(0), supplyOf(t, tok))
}

func TestBurn(t *testing.T) {
	tok, _ := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 500_000)

	require.NoError(t, tok.Burn(alice, big.NewInt(100_000)))
	assert.Equal(t, int64(400_000), balanceOf(t, tok, alice))
	assert.Equal(t, int64(400_000), supplyOf(t, tok))
	assert.Equal(t, int64(200), percentOf(t, tok))

	err := tok.Burn(alice, big.NewInt(500_000))
	assert.True(t, reverts.Is(err, reverts.CodeInsufficientBalance))
}

func TestEvents(t *testing.T) {
	tok, collected := newToken(t, 1_000_000)
	mustMint(t, tok, alice, 750_000)
	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(1234)))

	var names []string
	for _, ev := range *collected {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{events.NameMint, events.NameBurn, events.NameTransfer}, names)

	last := (*collected)[len(*collected)-1]
	assert.Equal(t, alice, last.From)
	assert.Equal(t, bob, last.To)
	assert.Equal(t, int64(1186), last.Amount.Int64())
}
