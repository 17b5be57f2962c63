// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/api"
	"github.com/emberfi/ember/api/accounts"
	"github.com/emberfi/ember/api/pools"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/genesis"
	"github.com/emberfi/ember/logdb"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/runtime"
)

var (
	alice = ember.BytesToAddress([]byte("alice"))
	bob   = ember.BytesToAddress([]byte("bob"))
)

func newServer(t *testing.T) *httptest.Server {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	evDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(evDB.Close)

	rt, err := runtime.New(store, evDB)
	require.NoError(t, err)

	cfg := &genesis.Config{
		Token: genesis.TokenConfig{
			Name:      "Ember",
			Symbol:    "EMBER",
			MaxSupply: genesis.Amount{Int: big.NewInt(1_000_000)},
			Premine: []genesis.Balance{
				{Address: alice, Amount: genesis.Amount{Int: big.NewInt(200_000)}},
			},
		},
		Chef: genesis.ChefConfig{
			Owner:          alice,
			DevAddr:        alice,
			FeeCollector:   alice,
			RewardPerBlock: genesis.Amount{Int: big.NewInt(10)},
			Pools: []genesis.PoolConfig{
				{StakeToken: ember.TokenContractAddress, AllocPoint: genesis.Amount{Int: big.NewInt(100)}},
			},
		},
	}
	require.NoError(t, genesis.Build(rt, cfg))

	srv := httptest.NewServer(api.New(rt, evDB, api.Options{AllowedOrigins: "*"}))
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string, out any) int {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func httpPost(t *testing.T, url string, body any, out any) int {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestTokenEndpoints(t *testing.T) {
	srv := newServer(t)

	var info accounts.TokenInfo
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/accounts/token", &info))
	assert.Equal(t, "EMBER", info.Symbol)
	assert.Equal(t, uint16(100), info.BurnPercent)
	assert.Equal(t, ember.ChefContractAddress, info.Controller)

	var acc accounts.Account
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/accounts/"+alice.String(), &acc))
	assert.Equal(t, int64(200_000), (*big.Int)(acc.Balance).Int64())

	// 100 bps of 5000 burns 50
	status := httpPost(t, srv.URL+"/accounts/transfer", map[string]any{
		"caller": alice.String(),
		"to":     bob.String(),
		"amount": "5000",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/accounts/"+bob.String(), &acc))
	assert.Equal(t, int64(4950), (*big.Int)(acc.Balance).Int64())

	// overdraw rejected with the ledger untouched
	status = httpPost(t, srv.URL+"/accounts/transfer", map[string]any{
		"caller": bob.String(),
		"to":     alice.String(),
		"amount": "1000000",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// mint gated to the controller
	status = httpPost(t, srv.URL+"/accounts/mint", map[string]any{
		"caller":  alice.String(),
		"address": alice.String(),
		"amount":  "1",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	assert.Equal(t, http.StatusNotFound, httpGet(t, srv.URL+"/accounts/token?ledger="+bob.String(), nil))
}

func TestPoolEndpoints(t *testing.T) {
	srv := newServer(t)

	var list []pools.Pool
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/pools", &list))
	require.Len(t, list, 1)
	assert.Equal(t, ember.TokenContractAddress, list[0].StakeToken)

	// deposit fee above the ceiling
	status := httpPost(t, srv.URL+"/pools", map[string]any{
		"caller":     alice.String(),
		"stakeToken": bob.String(),
		"allocPoint": "100",
		"depositFee": 601,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// stake through the api: approve, then deposit
	status = httpPost(t, srv.URL+"/accounts/approve", map[string]any{
		"caller":  alice.String(),
		"spender": ember.ChefContractAddress.String(),
		"amount":  "100000",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	status = httpPost(t, srv.URL+"/pools/0/deposit", map[string]any{
		"caller": alice.String(),
		"amount": "1000",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var user pools.User
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/pools/0/users/"+alice.String(), &user))
	assert.Equal(t, int64(1000), (*big.Int)(user.Amount).Int64())

	status = httpPost(t, srv.URL+"/pools/0/withdraw", map[string]any{
		"caller": alice.String(),
		"amount": "2000",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var emission map[string]any
	status = httpPost(t, srv.URL+"/pools/emission", map[string]any{}, &emission)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, http.StatusBadRequest, httpGet(t, srv.URL+"/pools/9", nil))
}

func TestLogsAndHealth(t *testing.T) {
	srv := newServer(t)

	status := httpPost(t, srv.URL+"/accounts/transfer", map[string]any{
		"caller": alice.String(),
		"to":     bob.String(),
		"amount": "5000",
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var events []map[string]any
	status = httpPost(t, srv.URL+"/logs/events", map[string]any{
		"name": "Transfer",
	}, &events)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, events)

	var health map[string]uint64
	require.Equal(t, http.StatusOK, httpGet(t, srv.URL+"/health", &health))
	assert.Greater(t, health["blockNumber"], uint64(0))

	status = httpPost(t, srv.URL+"/logs/events", map[string]any{
		"limit": 100000,
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

}
