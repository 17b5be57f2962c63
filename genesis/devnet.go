// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/emberfi/ember/ember"
)

// DevAccounts returns the fixed accounts premined in dev mode.
func DevAccounts() []ember.Address {
	return []ember.Address{
		ember.BytesToAddress([]byte("dev-account-0")),
		ember.BytesToAddress([]byte("dev-account-1")),
		ember.BytesToAddress([]byte("dev-account-2")),
	}
}

// DevConfig returns a ready-to-run config for local development: a million
// token ceiling, 40% premined across the dev accounts, dynamic emission on,
// and a single pool staking the token itself.
func DevConfig() *Config {
	e18 := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	units := func(n int64) Amount {
		return Amount{Int: new(big.Int).Mul(big.NewInt(n), e18)}
	}

	accounts := DevAccounts()
	premine := make([]Balance, 0, len(accounts))
	for _, addr := range accounts {
		premine = append(premine, Balance{Address: addr, Amount: units(400_000 / int64(len(accounts)))})
	}

	owner := accounts[0]
	return &Config{
		Token: TokenConfig{
			Name:      "Ember",
			Symbol:    "EMBER",
			MaxSupply: units(1_000_000),
			Premine:   premine,
		},
		Chef: ChefConfig{
			Owner:            owner,
			DevAddr:          owner,
			FeeCollector:     owner,
			RewardPerBlock:   units(1),
			StartBlock:       0,
			BaseEmissionRate: units(1),
			MaxEmissionRate:  units(3),
			DevFeePercent:    1000,
			Pools: []PoolConfig{
				{
					StakeToken: ember.TokenContractAddress,
					AllocPoint: Amount{Int: big.NewInt(100)},
					DepositFee: 0,
				},
			},
		},
	}
}
