// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chef implements the staking reward distributor. Staked assets earn
// a per-block reward split across pools by allocation points, with the
// per-block rate optionally recomputed from the reward token's supply.
package chef

import (
	"encoding/binary"
	"math/big"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/reverts"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/storage"
)

var (
	logger = log.WithContext("pkg", "chef")

	metricDepositCount  = metrics.LazyLoadCounter("chef_deposit_count")
	metricWithdrawCount = metrics.LazyLoadCounter("chef_withdraw_count")
	metricEmissionRate  = metrics.LazyLoadGauge("chef_reward_per_block")

	slotOwner          = nameToSlot("owner")
	slotDevAddr        = nameToSlot("dev-address")
	slotFeeCollector   = nameToSlot("fee-collector")
	slotRewardToken    = nameToSlot("reward-token")
	slotRewardPerBlock = nameToSlot("reward-per-block")
	slotStartBlock     = nameToSlot("start-block")
	slotTotalAlloc     = nameToSlot("total-alloc-point")
	slotPoolCount      = nameToSlot("pool-count")
	slotBaseRate       = nameToSlot("base-emission-rate")
	slotMaxRate        = nameToSlot("max-emission-rate")
	slotDevFeePercent  = nameToSlot("dev-fee-percent")
	slotPools          = nameToSlot("pools")
	slotPoolRegistered = nameToSlot("pool-registered")
	slotUsers          = nameToSlot("users")
)

func nameToSlot(name string) ember.Bytes32 {
	return ember.BytesToBytes32([]byte(name))
}

// Asset is the transferable ledger interface the chef stakes.
type Asset interface {
	BalanceOf(addr ember.Address) (*big.Int, error)
	Transfer(from, to ember.Address, value *big.Int) error
	TransferFrom(spender, from, to ember.Address, value *big.Int) error
}

// RewardAsset is the mintable asset paid out as staking reward.
type RewardAsset interface {
	Asset
	Mint(caller, to ember.Address, value *big.Int) error
	TotalSupply() (*big.Int, error)
	MaxSupply() (*big.Int, error)
}

// AssetResolver maps a ledger address to its asset implementation.
type AssetResolver func(addr ember.Address) (Asset, error)

// PoolInfo is the per-pool accounting state.
type PoolInfo struct {
	StakeToken        ember.Address
	AllocPoint        *big.Int
	LastRewardBlock   uint64
	AccRewardPerShare *big.Int
	DepositFeePercent uint64
}

// UserInfo is the per-staker accounting state within a pool.
type UserInfo struct {
	Amount     *big.Int
	RewardDebt *big.Int
}

type poolID uint64

func (p poolID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(p))
	return b[:]
}

type userKey struct {
	pid  uint64
	addr ember.Address
}

func (k userKey) Bytes() []byte {
	return append(poolID(k.pid).Bytes(), k.addr.Bytes()...)
}

// Chef implements the reward distributor bound to a contract address.
type Chef struct {
	ctx     *storage.Context
	sink    events.Sink
	reward  RewardAsset
	resolve AssetResolver

	owner          *storage.Address
	devAddr        *storage.Address
	feeCollector   *storage.Address
	rewardToken    *storage.Address
	rewardPerBlock *storage.Uint256
	startBlock     *storage.Uint256
	totalAlloc     *storage.Uint256
	poolCount      *storage.Uint256
	baseRate       *storage.Uint256
	maxRate        *storage.Uint256
	devFeePercent  *storage.Uint256
	pools          *storage.Mapping[poolID, *PoolInfo]
	poolRegistered *storage.Mapping[ember.Address, bool]
	users          *storage.Mapping[userKey, *UserInfo]
}

// New create a chef instance bound to addr. The reward asset must have addr
// as its mint controller, and resolve must cover every staked ledger.
func New(addr ember.Address, st *state.State, sink events.Sink, reward RewardAsset, resolve AssetResolver) *Chef {
	ctx := storage.NewContext(addr, st)
	return &Chef{
		ctx:     ctx,
		sink:    sink,
		reward:  reward,
		resolve: resolve,

		owner:          storage.NewAddress(ctx, slotOwner),
		devAddr:        storage.NewAddress(ctx, slotDevAddr),
		feeCollector:   storage.NewAddress(ctx, slotFeeCollector),
		rewardToken:    storage.NewAddress(ctx, slotRewardToken),
		rewardPerBlock: storage.NewUint256(ctx, slotRewardPerBlock),
		startBlock:     storage.NewUint256(ctx, slotStartBlock),
		totalAlloc:     storage.NewUint256(ctx, slotTotalAlloc),
		poolCount:      storage.NewUint256(ctx, slotPoolCount),
		baseRate:       storage.NewUint256(ctx, slotBaseRate),
		maxRate:        storage.NewUint256(ctx, slotMaxRate),
		devFeePercent:  storage.NewUint256(ctx, slotDevFeePercent),
		pools:          storage.NewMapping[poolID, *PoolInfo](ctx, slotPools),
		poolRegistered: storage.NewMapping[ember.Address, bool](ctx, slotPoolRegistered),
		users:          storage.NewMapping[userKey, *UserInfo](ctx, slotUsers),
	}
}

// Config carries the distributor setup applied at genesis.
type Config struct {
	Owner          ember.Address
	DevAddr        ember.Address
	FeeCollector   ember.Address
	RewardToken    ember.Address
	RewardPerBlock *big.Int
	StartBlock     uint64
	// BaseEmissionRate and MaxEmissionRate enable the supply-driven rate
	// recomputation. Static mode when either is zero.
	BaseEmissionRate *big.Int
	MaxEmissionRate  *big.Int
	// DevFeePercent in basis points of each block reward, minted extra
	// to DevAddr. Zero disables.
	DevFeePercent uint64
}

// Initialize sets up the distributor configuration. Done once at genesis.
func (c *Chef) Initialize(cfg Config) error {
	if cfg.RewardPerBlock == nil || cfg.RewardPerBlock.Sign() < 0 {
		return reverts.InvalidConfiguration("reward per block must not be negative")
	}
	if cfg.DevFeePercent > uint64(ember.PercentDivisor) {
		return reverts.InvalidConfiguration("dev fee %d exceeds limit %d", cfg.DevFeePercent, ember.PercentDivisor)
	}
	if err := c.owner.Set(cfg.Owner); err != nil {
		return err
	}
	if err := c.devAddr.Set(cfg.DevAddr); err != nil {
		return err
	}
	if err := c.feeCollector.Set(cfg.FeeCollector); err != nil {
		return err
	}
	if err := c.rewardToken.Set(cfg.RewardToken); err != nil {
		return err
	}
	if err := c.rewardPerBlock.Set(cfg.RewardPerBlock); err != nil {
		return err
	}
	if err := c.startBlock.Set(new(big.Int).SetUint64(cfg.StartBlock)); err != nil {
		return err
	}
	base, max := cfg.BaseEmissionRate, cfg.MaxEmissionRate
	if base == nil {
		base = new(big.Int)
	}
	if max == nil {
		max = new(big.Int)
	}
	if err := c.baseRate.Set(base); err != nil {
		return err
	}
	if err := c.maxRate.Set(max); err != nil {
		return err
	}
	return c.devFeePercent.Set(new(big.Int).SetUint64(cfg.DevFeePercent))
}

// Address returns the address the distributor is bound to.
func (c *Chef) Address() ember.Address {
	return c.ctx.Address()
}

//
// Getters - no state change
//

// Owner returns the address allowed to manage pools.
func (c *Chef) Owner() (ember.Address, error) { return c.owner.Get() }

// DevAddr returns the dev fee recipient.
func (c *Chef) DevAddr() (ember.Address, error) { return c.devAddr.Get() }

// FeeCollector returns the deposit fee recipient.
func (c *Chef) FeeCollector() (ember.Address, error) { return c.feeCollector.Get() }

// RewardToken returns the reward ledger address.
func (c *Chef) RewardToken() (ember.Address, error) { return c.rewardToken.Get() }

// RewardPerBlock returns the current per-block reward rate.
func (c *Chef) RewardPerBlock() (*big.Int, error) { return c.rewardPerBlock.Get() }

// TotalAllocPoint returns the sum of all pool allocation points.
func (c *Chef) TotalAllocPoint() (*big.Int, error) { return c.totalAlloc.Get() }

// PoolLength returns the number of registered pools.
func (c *Chef) PoolLength() (uint64, error) {
	n, err := c.poolCount.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Pool returns the accounting state of pool pid.
func (c *Chef) Pool(pid uint64) (*PoolInfo, error) {
	count, err := c.PoolLength()
	if err != nil {
		return nil, err
	}
	if pid >= count {
		return nil, reverts.InvalidConfiguration("pool %d does not exist", pid)
	}
	return c.pools.Get(poolID(pid))
}

// User returns the staking state of addr within pool pid.
func (c *Chef) User(pid uint64, addr ember.Address) (*UserInfo, error) {
	return c.getUser(userKey{pid, addr})
}

// getUser normalizes the zero value decoded from an empty slot.
func (c *Chef) getUser(key userKey) (*UserInfo, error) {
	user, err := c.users.Get(key)
	if err != nil {
		return nil, err
	}
	if user.Amount == nil {
		user.Amount = new(big.Int)
	}
	if user.RewardDebt == nil {
		user.RewardDebt = new(big.Int)
	}
	return user, nil
}

//
// Pool management - owner gated
//

// AddPool registers a staking pool for stakeToken. Rewards accrue from the
// later of startBlock and the current block.
func (c *Chef) AddPool(caller ember.Address, blockNum uint64, stakeToken ember.Address, allocPoint *big.Int, depositFee uint64) error {
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if depositFee > uint64(ember.MaxDepositFeePercent) {
		return reverts.InvalidConfiguration("deposit fee %d exceeds limit %d", depositFee, ember.MaxDepositFeePercent)
	}
	registered, err := c.poolRegistered.Get(stakeToken)
	if err != nil {
		return err
	}
	if registered {
		return reverts.InvalidConfiguration("pool for %v already exists", stakeToken)
	}
	if err := c.massUpdatePools(blockNum); err != nil {
		return err
	}

	start, err := c.startBlock.Get()
	if err != nil {
		return err
	}
	lastReward := blockNum
	if start.Uint64() > blockNum {
		lastReward = start.Uint64()
	}
	count, err := c.PoolLength()
	if err != nil {
		return err
	}
	pool := &PoolInfo{
		StakeToken:        stakeToken,
		AllocPoint:        new(big.Int).Set(allocPoint),
		LastRewardBlock:   lastReward,
		AccRewardPerShare: new(big.Int),
		DepositFeePercent: depositFee,
	}
	if err := c.pools.Set(poolID(count), pool); err != nil {
		return err
	}
	if err := c.poolRegistered.Set(stakeToken, true); err != nil {
		return err
	}
	if err := c.poolCount.Add(big.NewInt(1)); err != nil {
		return err
	}
	if err := c.totalAlloc.Add(allocPoint); err != nil {
		return err
	}
	logger.Info("pool added", "pid", count, "stakeToken", stakeToken, "allocPoint", allocPoint, "depositFee", depositFee)
	return nil
}

// SetPool adjusts the allocation points and the deposit fee of pool pid.
func (c *Chef) SetPool(caller ember.Address, blockNum uint64, pid uint64, allocPoint *big.Int, depositFee uint64) error {
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if depositFee > uint64(ember.MaxDepositFeePercent) {
		return reverts.InvalidConfiguration("deposit fee %d exceeds limit %d", depositFee, ember.MaxDepositFeePercent)
	}
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	if err := c.massUpdatePools(blockNum); err != nil {
		return err
	}

	total, err := c.totalAlloc.Get()
	if err != nil {
		return err
	}
	total.Sub(total, pool.AllocPoint).Add(total, allocPoint)
	if err := c.totalAlloc.Set(total); err != nil {
		return err
	}
	pool.AllocPoint = new(big.Int).Set(allocPoint)
	pool.DepositFeePercent = depositFee
	return c.pools.Set(poolID(pid), pool)
}

//
// Staking
//

// Deposit stakes amount of the pool's asset for caller, settling any pending
// reward first. The pool's deposit fee share is diverted to the fee collector.
func (c *Chef) Deposit(caller ember.Address, blockNum uint64, pid uint64, amount *big.Int) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	pool, err = c.updatePool(pid, pool, blockNum)
	if err != nil {
		return err
	}
	user, err := c.getUser(userKey{pid, caller})
	if err != nil {
		return err
	}
	if user.Amount.Sign() > 0 {
		if err := c.settlePending(caller, pool, user); err != nil {
			return err
		}
	}
	if amount.Sign() > 0 {
		asset, err := c.resolve(pool.StakeToken)
		if err != nil {
			return err
		}
		if err := asset.TransferFrom(c.ctx.Address(), caller, c.ctx.Address(), amount); err != nil {
			return err
		}
		staked := new(big.Int).Set(amount)
		if pool.DepositFeePercent > 0 {
			fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(pool.DepositFeePercent))
			fee.Div(fee, big.NewInt(int64(ember.PercentDivisor)))
			if fee.Sign() > 0 {
				collector, err := c.feeCollector.Get()
				if err != nil {
					return err
				}
				if err := asset.Transfer(c.ctx.Address(), collector, fee); err != nil {
					return err
				}
				staked.Sub(staked, fee)
			}
		}
		user.Amount.Add(user.Amount, staked)
	}
	user.RewardDebt = debtOf(user.Amount, pool.AccRewardPerShare)
	if err := c.users.Set(userKey{pid, caller}, user); err != nil {
		return err
	}

	metricDepositCount().Add(1)
	c.sink.Emit(events.Event{
		Name:     events.NameDeposit,
		Contract: c.ctx.Address(),
		From:     caller,
		To:       pool.StakeToken,
		Amount:   new(big.Int).Set(amount),
	})
	return nil
}

// Withdraw unstakes amount of the pool's asset for caller, settling any
// pending reward first.
func (c *Chef) Withdraw(caller ember.Address, blockNum uint64, pid uint64, amount *big.Int) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	user, err := c.getUser(userKey{pid, caller})
	if err != nil {
		return err
	}
	if user.Amount.Cmp(amount) < 0 {
		return reverts.InsufficientBalance("withdraw amount %v exceeds staked %v", amount, user.Amount)
	}
	pool, err = c.updatePool(pid, pool, blockNum)
	if err != nil {
		return err
	}
	if err := c.settlePending(caller, pool, user); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		user.Amount.Sub(user.Amount, amount)
		asset, err := c.resolve(pool.StakeToken)
		if err != nil {
			return err
		}
		if err := asset.Transfer(c.ctx.Address(), caller, amount); err != nil {
			return err
		}
	}
	user.RewardDebt = debtOf(user.Amount, pool.AccRewardPerShare)
	if err := c.users.Set(userKey{pid, caller}, user); err != nil {
		return err
	}

	metricWithdrawCount().Add(1)
	c.sink.Emit(events.Event{
		Name:     events.NameWithdraw,
		Contract: c.ctx.Address(),
		From:     pool.StakeToken,
		To:       caller,
		Amount:   new(big.Int).Set(amount),
	})
	return nil
}

// EmergencyWithdraw returns the caller's full stake without reward settlement.
func (c *Chef) EmergencyWithdraw(caller ember.Address, pid uint64) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	user, err := c.getUser(userKey{pid, caller})
	if err != nil {
		return err
	}
	amount := user.Amount
	user.Amount = new(big.Int)
	user.RewardDebt = new(big.Int)
	if err := c.users.Set(userKey{pid, caller}, user); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		asset, err := c.resolve(pool.StakeToken)
		if err != nil {
			return err
		}
		if err := asset.Transfer(c.ctx.Address(), caller, amount); err != nil {
			return err
		}
	}
	logger.Warn("emergency withdraw", "pid", pid, "caller", caller, "amount", amount)
	c.sink.Emit(events.Event{
		Name:     events.NameEmergencyWithdraw,
		Contract: c.ctx.Address(),
		From:     pool.StakeToken,
		To:       caller,
		Amount:   amount,
	})
	return nil
}

// PendingReward returns the reward claimable by addr in pool pid at blockNum.
func (c *Chef) PendingReward(addr ember.Address, pid uint64, blockNum uint64) (*big.Int, error) {
	pool, err := c.Pool(pid)
	if err != nil {
		return nil, err
	}
	user, err := c.getUser(userKey{pid, addr})
	if err != nil {
		return nil, err
	}
	acc := new(big.Int).Set(pool.AccRewardPerShare)
	if blockNum > pool.LastRewardBlock {
		asset, err := c.resolve(pool.StakeToken)
		if err != nil {
			return nil, err
		}
		staked, err := asset.BalanceOf(c.ctx.Address())
		if err != nil {
			return nil, err
		}
		total, err := c.totalAlloc.Get()
		if err != nil {
			return nil, err
		}
		if staked.Sign() > 0 && total.Sign() > 0 {
			reward, err := c.blockReward(pool, blockNum, total)
			if err != nil {
				return nil, err
			}
			reward.Mul(reward, ember.AccRewardPrecision)
			acc.Add(acc, reward.Div(reward, staked))
		}
	}
	pending := debtOf(user.Amount, acc)
	return pending.Sub(pending, user.RewardDebt), nil
}

// MassUpdatePools accrues rewards on every pool up to blockNum.
func (c *Chef) MassUpdatePools(blockNum uint64) error {
	return c.massUpdatePools(blockNum)
}

// UpdatePool accrues rewards on pool pid up to blockNum.
func (c *Chef) UpdatePool(pid uint64, blockNum uint64) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	_, err = c.updatePool(pid, pool, blockNum)
	return err
}

//
// Emission
//

// UpdateEmissionRate recomputes the per-block reward from the reward token's
// supply:
//
//	rate = baseRate * maxSupply / totalSupply - baseRate
//
// clamped to maxRate, and zero at or above the max supply. Open to any
// caller. A no-op in static mode or while the supply is zero. Rewards
// accrued so far are settled at the old rate first.
func (c *Chef) UpdateEmissionRate(blockNum uint64) error {
	base, err := c.baseRate.Get()
	if err != nil {
		return err
	}
	maxRate, err := c.maxRate.Get()
	if err != nil {
		return err
	}
	if base.Sign() == 0 || maxRate.Sign() == 0 {
		return nil
	}
	supply, err := c.reward.TotalSupply()
	if err != nil {
		return err
	}
	if supply.Sign() == 0 {
		return nil
	}
	if err := c.massUpdatePools(blockNum); err != nil {
		return err
	}

	maxSupply, err := c.reward.MaxSupply()
	if err != nil {
		return err
	}
	rate := new(big.Int)
	if supply.Cmp(maxSupply) < 0 {
		rate.Mul(base, maxSupply)
		rate.Div(rate, supply)
		rate.Sub(rate, base)
		if rate.Cmp(maxRate) > 0 {
			rate.Set(maxRate)
		}
	}
	if err := c.rewardPerBlock.Set(rate); err != nil {
		return err
	}

	metricEmissionRate().Set(metrics.FromBig(rate))
	c.sink.Emit(events.Event{
		Name:     events.NameEmissionUpdate,
		Contract: c.ctx.Address(),
		Amount:   new(big.Int).Set(rate),
	})
	logger.Info("emission rate updated", "rate", rate, "supply", supply)
	return nil
}

//
// Role management
//

// TransferOwnership hands pool management over to newOwner.
func (c *Chef) TransferOwnership(caller, newOwner ember.Address) error {
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	return c.owner.Set(newOwner)
}

// SetDevAddr changes the dev fee recipient. Restricted to the current one.
func (c *Chef) SetDevAddr(caller, newAddr ember.Address) error {
	dev, err := c.devAddr.Get()
	if err != nil {
		return err
	}
	if caller != dev {
		return reverts.Unauthorized("caller %v is not the dev address", caller)
	}
	return c.devAddr.Set(newAddr)
}

// SetFeeCollector changes the deposit fee recipient. Restricted to the
// current one.
func (c *Chef) SetFeeCollector(caller, newAddr ember.Address) error {
	collector, err := c.feeCollector.Get()
	if err != nil {
		return err
	}
	if caller != collector {
		return reverts.Unauthorized("caller %v is not the fee collector", caller)
	}
	return c.feeCollector.Set(newAddr)
}

//
// Internals
//

func (c *Chef) requireOwner(caller ember.Address) error {
	owner, err := c.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.Unauthorized("caller %v is not the owner", caller)
	}
	return nil
}

// blockReward computes the pool's share of the reward accrued since its last
// update, at the current rate.
func (c *Chef) blockReward(pool *PoolInfo, blockNum uint64, totalAlloc *big.Int) (*big.Int, error) {
	rate, err := c.rewardPerBlock.Get()
	if err != nil {
		return nil, err
	}
	reward := new(big.Int).SetUint64(blockNum - pool.LastRewardBlock)
	reward.Mul(reward, rate)
	reward.Mul(reward, pool.AllocPoint)
	return reward.Div(reward, totalAlloc), nil
}

func (c *Chef) updatePool(pid uint64, pool *PoolInfo, blockNum uint64) (*PoolInfo, error) {
	if blockNum <= pool.LastRewardBlock {
		return pool, nil
	}
	asset, err := c.resolve(pool.StakeToken)
	if err != nil {
		return nil, err
	}
	staked, err := asset.BalanceOf(c.ctx.Address())
	if err != nil {
		return nil, err
	}
	total, err := c.totalAlloc.Get()
	if err != nil {
		return nil, err
	}
	if staked.Sign() == 0 || total.Sign() == 0 || pool.AllocPoint.Sign() == 0 {
		pool.LastRewardBlock = blockNum
		return pool, c.pools.Set(poolID(pid), pool)
	}

	reward, err := c.blockReward(pool, blockNum, total)
	if err != nil {
		return nil, err
	}
	devPercent, err := c.devFeePercent.Get()
	if err != nil {
		return nil, err
	}
	if devPercent.Sign() > 0 {
		devReward := new(big.Int).Mul(reward, devPercent)
		devReward.Div(devReward, big.NewInt(int64(ember.PercentDivisor)))
		if devReward.Sign() > 0 {
			dev, err := c.devAddr.Get()
			if err != nil {
				return nil, err
			}
			if err := c.mintCapped(dev, devReward); err != nil {
				return nil, err
			}
		}
	}
	if err := c.mintCapped(c.ctx.Address(), reward); err != nil {
		return nil, err
	}

	perShare := new(big.Int).Mul(reward, ember.AccRewardPrecision)
	pool.AccRewardPerShare.Add(pool.AccRewardPerShare, perShare.Div(perShare, staked))
	pool.LastRewardBlock = blockNum
	return pool, c.pools.Set(poolID(pid), pool)
}

// mintCapped mints value of the reward token to addr, trimmed so the total
// supply never exceeds the max supply.
func (c *Chef) mintCapped(addr ember.Address, value *big.Int) error {
	supply, err := c.reward.TotalSupply()
	if err != nil {
		return err
	}
	maxSupply, err := c.reward.MaxSupply()
	if err != nil {
		return err
	}
	room := new(big.Int).Sub(maxSupply, supply)
	if room.Sign() <= 0 {
		return nil
	}
	if value.Cmp(room) > 0 {
		value = room
	}
	return c.reward.Mint(c.ctx.Address(), addr, value)
}

// settlePending pays out the reward accrued by user since its last debt
// update, capped at the chef's reward balance.
func (c *Chef) settlePending(to ember.Address, pool *PoolInfo, user *UserInfo) error {
	pending := debtOf(user.Amount, pool.AccRewardPerShare)
	pending.Sub(pending, user.RewardDebt)
	if pending.Sign() <= 0 {
		return nil
	}
	bal, err := c.reward.BalanceOf(c.ctx.Address())
	if err != nil {
		return err
	}
	if pending.Cmp(bal) > 0 {
		pending = bal
	}
	if pending.Sign() == 0 {
		return nil
	}
	return c.reward.Transfer(c.ctx.Address(), to, pending)
}

func (c *Chef) massUpdatePools(blockNum uint64) error {
	count, err := c.PoolLength()
	if err != nil {
		return err
	}
	for pid := uint64(0); pid < count; pid++ {
		pool, err := c.pools.Get(poolID(pid))
		if err != nil {
			return err
		}
		if _, err := c.updatePool(pid, pool, blockNum); err != nil {
			return err
		}
	}
	return nil
}

func debtOf(amount, accPerShare *big.Int) *big.Int {
	debt := new(big.Int).Mul(amount, accPerShare)
	return debt.Div(debt, ember.AccRewardPrecision)
}
