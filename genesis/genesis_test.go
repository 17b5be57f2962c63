// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/runtime"
)

func newRuntime(t *testing.T) (*runtime.Runtime, *lvldb.LevelDB) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	rt, err := runtime.New(store, nil)
	require.NoError(t, err)
	return rt, store
}

func TestBuildDevConfig(t *testing.T) {
	rt, _ := newRuntime(t)
	cfg := DevConfig()
	require.NoError(t, Build(rt, cfg))

	symbol, err := rt.Token().Symbol()
	require.NoError(t, err)
	assert.Equal(t, "EMBER", symbol)

	supply, err := rt.Token().TotalSupply()
	require.NoError(t, err)
	expected := new(big.Int)
	for _, bal := range cfg.Token.Premine {
		expected.Add(expected, bal.Amount.Int)
	}
	assert.Zero(t, supply.Cmp(expected))

	n, err := rt.Chef().PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	controller, err := rt.Token().Controller()
	require.NoError(t, err)
	assert.Equal(t, ember.ChefContractAddress, controller)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
token:
  name: Ember
  symbol: EMBER
  maxSupply: "1000000"
  premine:
    - address: "0x0000000000000000000000000000000000000001"
      amount: "250000"
ledgers:
  - address: "0x00000000000000000000000000000000000000aa"
    name: LP
    symbol: LP
    maxSupply: "1000000"
    controller: "0x0000000000000000000000000000000000000001"
chef:
  owner: "0x0000000000000000000000000000000000000001"
  devAddr: "0x0000000000000000000000000000000000000001"
  feeCollector: "0x0000000000000000000000000000000000000001"
  rewardPerBlock: "10"
  pools:
    - stakeToken: "0x00000000000000000000000000000000000000aa"
      allocPoint: "100"
      depositFee: 400
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "EMBER", cfg.Token.Symbol)
	assert.Equal(t, int64(1_000_000), cfg.Token.MaxSupply.Int64())
	require.Len(t, cfg.Chef.Pools, 1)
	assert.Equal(t, uint64(400), cfg.Chef.Pools[0].DepositFee)

	rt, store := newRuntime(t)
	require.NoError(t, Build(rt, cfg))

	bal, err := rt.Token().BalanceOf(*mustParse(t, "0x0000000000000000000000000000000000000001"))
	require.NoError(t, err)
	assert.Equal(t, int64(250_000), bal.Int64())

	n, err := rt.Chef().PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	_, ok := rt.Ledger(*mustParse(t, "0x00000000000000000000000000000000000000aa"))
	assert.True(t, ok)

	// building again over the same store is a no-op
	rt2, err := runtime.New(store, nil)
	require.NoError(t, err)
	require.NoError(t, Build(rt2, cfg))
	supply, err := rt2.Token().TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(250_000), supply.Int64())
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
token:
  name: Ember
  symbol: EMBER
  maxSupply: "0"
chef:
  rewardPerBlock: "10"
`), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "max supply must be positive")
}

func mustParse(t *testing.T, s string) *ember.Address {
	addr, err := ember.ParseAddress(s)
	require.NoError(t, err)
	return addr
}
