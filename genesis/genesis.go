// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis bootstraps a fresh runtime from a yaml config: the token
// ledger, optional secondary stake ledgers, premined balances, the chef
// configuration and its initial pools. Applied once; a store that already
// carries an initialized token is left untouched.
package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/emberfi/ember/chef"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/runtime"
)

var logger = log.WithContext("pkg", "genesis")

// Amount is a big integer parsed from a decimal yaml string.
type Amount struct {
	*big.Int
}

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	v, ok := new(big.Int).SetString(value.Value, 10)
	if !ok {
		return errors.Errorf("invalid amount %q", value.Value)
	}
	a.Int = v
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	if a.Int == nil {
		return "0", nil
	}
	return a.String(), nil
}

// Balance premines an amount to an address.
type Balance struct {
	Address ember.Address `yaml:"address"`
	Amount  Amount        `yaml:"amount"`
}

// TokenConfig describes the primary token ledger.
type TokenConfig struct {
	Name      string    `yaml:"name"`
	Symbol    string    `yaml:"symbol"`
	MaxSupply Amount    `yaml:"maxSupply"`
	Premine   []Balance `yaml:"premine"`
}

// LedgerConfig describes a secondary stake ledger.
type LedgerConfig struct {
	Address    ember.Address `yaml:"address"`
	Name       string        `yaml:"name"`
	Symbol     string        `yaml:"symbol"`
	MaxSupply  Amount        `yaml:"maxSupply"`
	Controller ember.Address `yaml:"controller"`
	Premine    []Balance     `yaml:"premine"`
}

// PoolConfig describes an initial staking pool.
type PoolConfig struct {
	StakeToken ember.Address `yaml:"stakeToken"`
	AllocPoint Amount        `yaml:"allocPoint"`
	DepositFee uint64        `yaml:"depositFee"`
}

// ChefConfig describes the reward distributor setup.
type ChefConfig struct {
	Owner            ember.Address `yaml:"owner"`
	DevAddr          ember.Address `yaml:"devAddr"`
	FeeCollector     ember.Address `yaml:"feeCollector"`
	RewardPerBlock   Amount        `yaml:"rewardPerBlock"`
	StartBlock       uint64        `yaml:"startBlock"`
	BaseEmissionRate Amount        `yaml:"baseEmissionRate"`
	MaxEmissionRate  Amount        `yaml:"maxEmissionRate"`
	DevFeePercent    uint64        `yaml:"devFeePercent"`
	Pools            []PoolConfig  `yaml:"pools"`
}

// Config is the full genesis description.
type Config struct {
	Token   TokenConfig    `yaml:"token"`
	Ledgers []LedgerConfig `yaml:"ledgers"`
	Chef    ChefConfig     `yaml:"chef"`
}

func (c *Config) validate() error {
	if c.Token.Name == "" || c.Token.Symbol == "" {
		return errors.New("token name and symbol are required")
	}
	if c.Token.MaxSupply.Int == nil || c.Token.MaxSupply.Sign() <= 0 {
		return errors.New("token max supply must be positive")
	}
	if c.Chef.RewardPerBlock.Int == nil {
		return errors.New("chef reward per block is required")
	}
	for _, ledger := range c.Ledgers {
		if ledger.Address.IsZero() {
			return errors.Errorf("ledger %q needs a nonzero address", ledger.Name)
		}
		if ledger.Address == ember.TokenContractAddress || ledger.Address == ember.ChefContractAddress {
			return errors.Errorf("ledger %q collides with a builtin address", ledger.Name)
		}
	}
	return nil
}

// LoadConfig reads and validates a yaml genesis file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read genesis config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithMessage(err, "parse genesis config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Build applies cfg to rt as the first block. The chef becomes the token's
// mint controller; premines are minted on its behalf. A store already holding
// an initialized token is recognized and skipped.
func Build(rt *runtime.Runtime, cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	maxSupply, err := rt.Token().MaxSupply()
	if err != nil {
		return err
	}
	if maxSupply.Sign() > 0 {
		logger.Info("existing state found, skipping genesis")
		return nil
	}

	return rt.Execute(func(blockNum uint64) error {
		if err := rt.Token().Initialize(
			cfg.Token.Name, cfg.Token.Symbol,
			cfg.Token.MaxSupply.Int, ember.ChefContractAddress,
		); err != nil {
			return err
		}
		for _, bal := range cfg.Token.Premine {
			if err := rt.Token().Mint(ember.ChefContractAddress, bal.Address, bal.Amount.Int); err != nil {
				return err
			}
		}

		for _, lc := range cfg.Ledgers {
			ledger, err := rt.CreateLedger(lc.Address, lc.Name, lc.Symbol, lc.MaxSupply.Int, lc.Controller)
			if err != nil {
				return err
			}
			for _, bal := range lc.Premine {
				if err := ledger.Mint(lc.Controller, bal.Address, bal.Amount.Int); err != nil {
					return err
				}
			}
		}

		if err := rt.Chef().Initialize(chefConfig(&cfg.Chef)); err != nil {
			return err
		}
		for _, pool := range cfg.Chef.Pools {
			if err := rt.Chef().AddPool(
				cfg.Chef.Owner, blockNum,
				pool.StakeToken, pool.AllocPoint.Int, pool.DepositFee,
			); err != nil {
				return err
			}
		}
		logger.Info("genesis built",
			"token", cfg.Token.Symbol,
			"ledgers", len(cfg.Ledgers),
			"pools", len(cfg.Chef.Pools))
		return nil
	})
}

func chefConfig(cc *ChefConfig) chef.Config {
	cfg := chef.Config{
		Owner:          cc.Owner,
		DevAddr:        cc.DevAddr,
		FeeCollector:   cc.FeeCollector,
		RewardToken:    ember.TokenContractAddress,
		RewardPerBlock: cc.RewardPerBlock.Int,
		StartBlock:     cc.StartBlock,
		DevFeePercent:  cc.DevFeePercent,
	}
	if cc.BaseEmissionRate.Int != nil {
		cfg.BaseEmissionRate = cc.BaseEmissionRate.Int
	}
	if cc.MaxEmissionRate.Int != nil {
		cfg.MaxEmissionRate = cc.MaxEmissionRate.Int
	}
	return cfg
}
