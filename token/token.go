// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the EMBER fungible token ledger with its
// supply-dependent transfer burn.
//
// The burn percent is a cached value, recomputed from the current total
// supply after every transfer, mint and burn. The percent applied to a given
// transfer is therefore the one computed from the supply before that
// transfer; the final recomputation refreshes it for the next one.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/reverts"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/storage"
)

var (
	logger = log.WithContext("pkg", "token")

	metricTransferCount = metrics.LazyLoadCounter("token_transfer_count")
	metricMintCount     = metrics.LazyLoadCounter("token_mint_count")
	metricBurnedTotal   = metrics.LazyLoadCounter("token_burned_total")

	slotName        = nameToSlot("token-name")
	slotSymbol      = nameToSlot("token-symbol")
	slotTotalSupply = nameToSlot("total-supply")
	slotMaxSupply   = nameToSlot("max-supply")
	slotBurnPercent = nameToSlot("burn-percent")
	slotController  = nameToSlot("controller")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
)

func nameToSlot(name string) ember.Bytes32 {
	return ember.BytesToBytes32([]byte(name))
}

var (
	big10    = big.NewInt(10)
	bigRound = big.NewInt(ember.BurnRoundQuantum)
	bigBps   = big.NewInt(int64(ember.PercentDivisor))
	bigMaxBP = big.NewInt(int64(ember.MaxBurnPercent))
)

// allowanceKey addresses the allowance of spender granted by owner.
type allowanceKey struct {
	owner   ember.Address
	spender ember.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token implements the token ledger bound to a contract address.
type Token struct {
	ctx  *storage.Context
	sink events.Sink

	name        *storage.String
	symbol      *storage.String
	totalSupply *storage.Uint256
	maxSupply   *storage.Uint256
	burnPercent *storage.Uint256
	controller  *storage.Address
	balances    *storage.Mapping[ember.Address, *big.Int]
	allowances  *storage.Mapping[allowanceKey, *big.Int]
}

// New create a token instance bound to addr.
func New(addr ember.Address, st *state.State, sink events.Sink) *Token {
	ctx := storage.NewContext(addr, st)
	return &Token{
		ctx:  ctx,
		sink: sink,

		name:        storage.NewString(ctx, slotName),
		symbol:      storage.NewString(ctx, slotSymbol),
		totalSupply: storage.NewUint256(ctx, slotTotalSupply),
		maxSupply:   storage.NewUint256(ctx, slotMaxSupply),
		burnPercent: storage.NewUint256(ctx, slotBurnPercent),
		controller:  storage.NewAddress(ctx, slotController),
		balances:    storage.NewMapping[ember.Address, *big.Int](ctx, slotBalances),
		allowances:  storage.NewMapping[allowanceKey, *big.Int](ctx, slotAllowances),
	}
}

// Address returns the address the ledger is bound to.
func (t *Token) Address() ember.Address {
	return t.ctx.Address()
}

// Initialize sets up the immutable token configuration. Done once at genesis.
// The initial burn percent is half the ceiling.
func (t *Token) Initialize(name, symbol string, maxSupply *big.Int, controller ember.Address) error {
	if maxSupply == nil || maxSupply.Sign() <= 0 {
		return reverts.InvalidConfiguration("max supply must be positive")
	}
	if err := t.name.Set(name); err != nil {
		return err
	}
	if err := t.symbol.Set(symbol); err != nil {
		return err
	}
	if err := t.maxSupply.Set(maxSupply); err != nil {
		return err
	}
	if err := t.controller.Set(controller); err != nil {
		return err
	}
	return t.burnPercent.Set(new(big.Int).Div(bigMaxBP, big.NewInt(2)))
}

//
// Getters - no state change
//

// Name returns the token name.
func (t *Token) Name() (string, error) { return t.name.Get() }

// Symbol returns the token symbol.
func (t *Token) Symbol() (string, error) { return t.symbol.Get() }

// TotalSupply returns the current total supply.
func (t *Token) TotalSupply() (*big.Int, error) { return t.totalSupply.Get() }

// MaxSupply returns the immutable supply ceiling.
func (t *Token) MaxSupply() (*big.Int, error) { return t.maxSupply.Get() }

// MinSupplyNoBurn returns the supply threshold below which the burn is disabled.
func (t *Token) MinSupplyNoBurn() (*big.Int, error) {
	maxSupply, err := t.maxSupply.Get()
	if err != nil {
		return nil, err
	}
	return maxSupply.Div(maxSupply, big10), nil
}

// BurnPercent returns the cached burn percent in basis points.
func (t *Token) BurnPercent() (*big.Int, error) { return t.burnPercent.Get() }

// Controller returns the address allowed to mint.
func (t *Token) Controller() (ember.Address, error) { return t.controller.Get() }

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr ember.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

// Allowance returns the allowance granted by owner to spender.
func (t *Token) Allowance(owner, spender ember.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey{owner, spender})
}

//
// Setters - state change
//

// Approve grants spender the right to move value owned by owner.
func (t *Token) Approve(owner, spender ember.Address, value *big.Int) error {
	if err := t.allowances.Set(allowanceKey{owner, spender}, value); err != nil {
		return err
	}
	t.sink.Emit(events.Event{
		Name:     events.NameApproval,
		Contract: t.ctx.Address(),
		From:     owner,
		To:       spender,
		Amount:   new(big.Int).Set(value),
	})
	return nil
}

// Transfer moves value from sender to recipient, applying the cached burn
// percent to the value rounded up to the nearest multiple of 100. The burn
// share is credited to the dead address and removed from the total supply;
// a transfer whose recipient is a burn sink removes the delivered share from
// the supply as well.
func (t *Token) Transfer(from, to ember.Address, value *big.Int) error {
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(value) < 0 {
		return reverts.InsufficientBalance("transfer value %v exceeds balance %v", value, bal)
	}

	percent, err := t.burnPercent.Get()
	if err != nil {
		return err
	}

	// ceiling-round to the quantum, then take basis points of the rounded value
	rounded := roundUp(value)
	burn := rounded.Mul(rounded, percent)
	burn.Div(burn, bigBps)
	if burn.Cmp(value) > 0 {
		// dust transfer, the whole value burns
		burn.Set(value)
	}
	delivered := new(big.Int).Sub(value, burn)

	if err := t.setBalance(from, bal.Sub(bal, value)); err != nil {
		return err
	}

	recipient := to
	if ember.IsBurnSink(to) {
		recipient = ember.DeadAddress
	}
	if err := t.addBalance(recipient, delivered); err != nil {
		return err
	}
	if burn.Sign() != 0 {
		if err := t.addBalance(ember.DeadAddress, burn); err != nil {
			return err
		}
		if err := t.totalSupply.Sub(burn); err != nil {
			return err
		}
	}
	supplyBurned := new(big.Int).Set(burn)
	if ember.IsBurnSink(to) {
		// the delivered share leaves the supply too
		if err := t.totalSupply.Sub(delivered); err != nil {
			return err
		}
		supplyBurned.Add(supplyBurned, delivered)
	}

	if err := t.recomputeBurnPercent(); err != nil {
		return err
	}

	metricTransferCount().Add(1)
	if supplyBurned.Sign() != 0 {
		metricBurnedTotal().Add(metrics.FromBig(supplyBurned))
		t.sink.Emit(events.Event{
			Name:     events.NameBurn,
			Contract: t.ctx.Address(),
			From:     from,
			To:       ember.DeadAddress,
			Amount:   supplyBurned,
		})
	}
	t.sink.Emit(events.Event{
		Name:     events.NameTransfer,
		Contract: t.ctx.Address(),
		From:     from,
		To:       recipient,
		Amount:   delivered,
	})
	logger.Debug("transfer", "from", from, "to", recipient, "delivered", delivered, "burned", supplyBurned)
	return nil
}

// TransferFrom moves value on behalf of from, within the granted allowance.
func (t *Token) TransferFrom(spender, from, to ember.Address, value *big.Int) error {
	key := allowanceKey{from, spender}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Cmp(value) < 0 {
		return reverts.InsufficientAllowance("transfer value %v exceeds allowance %v", value, allowance)
	}
	if err := t.Transfer(from, to, value); err != nil {
		return err
	}
	return t.allowances.Set(key, allowance.Sub(allowance, value))
}

// Mint creates value for addr. Restricted to the controller.
func (t *Token) Mint(caller, to ember.Address, value *big.Int) error {
	controller, err := t.controller.Get()
	if err != nil {
		return err
	}
	if caller != controller {
		return reverts.Unauthorized("mint caller %v is not the controller", caller)
	}

	if err := t.addBalance(to, value); err != nil {
		return err
	}
	if err := t.totalSupply.Add(value); err != nil {
		return err
	}
	if err := t.recomputeBurnPercent(); err != nil {
		return err
	}

	metricMintCount().Add(1)
	t.sink.Emit(events.Event{
		Name:     events.NameMint,
		Contract: t.ctx.Address(),
		To:       to,
		Amount:   new(big.Int).Set(value),
	})
	return nil
}

// Burn destroys value held by from.
func (t *Token) Burn(from ember.Address, value *big.Int) error {
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(value) < 0 {
		return reverts.InsufficientBalance("burn value %v exceeds balance %v", value, bal)
	}
	if err := t.setBalance(from, bal.Sub(bal, value)); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(value); err != nil {
		return err
	}
	if err := t.recomputeBurnPercent(); err != nil {
		return err
	}

	metricBurnedTotal().Add(metrics.FromBig(value))
	t.sink.Emit(events.Event{
		Name:     events.NameBurn,
		Contract: t.ctx.Address(),
		From:     from,
		To:       ember.DeadAddress,
		Amount:   new(big.Int).Set(value),
	})
	return nil
}

// recomputeBurnPercent refreshes the cached burn percent from the current
// total supply:
//
//	percent = floor(maxBurnPercent * totalSupply / maxSupply)
//
// clamped to maxBurnPercent at or above the max supply, and forced to zero
// at or below a tenth of it. The zero floor wins over the ceiling.
func (t *Token) recomputeBurnPercent() error {
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	maxSupply, err := t.maxSupply.Get()
	if err != nil {
		return err
	}

	percent := new(big.Int).Mul(bigMaxBP, supply)
	percent.Div(percent, maxSupply)
	if supply.Cmp(maxSupply) >= 0 || percent.Cmp(bigMaxBP) > 0 {
		percent.Set(bigMaxBP)
	}
	minNoBurn := new(big.Int).Div(maxSupply, big10)
	if supply.Cmp(minNoBurn) <= 0 {
		percent.SetUint64(0)
	}
	return t.burnPercent.Set(percent)
}

func (t *Token) setBalance(addr ember.Address, bal *big.Int) error {
	return t.balances.Set(addr, bal)
}

func (t *Token) addBalance(addr ember.Address, value *big.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return errors.WithMessage(err, "add balance")
	}
	return t.balances.Set(addr, bal.Add(bal, value))
}

// roundUp rounds value up to the nearest multiple of the burn quantum.
func roundUp(value *big.Int) *big.Int {
	r := new(big.Int).Add(value, new(big.Int).Sub(bigRound, big.NewInt(1)))
	r.Div(r, bigRound)
	return r.Mul(r, bigRound)
}
