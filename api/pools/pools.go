// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pools exposes the reward distributor over REST.
package pools

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/restutil"
	"github.com/emberfi/ember/chef"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/runtime"
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

// Pool is the REST view of a staking pool.
type Pool struct {
	ID                uint64                `json:"id"`
	StakeToken        ember.Address         `json:"stakeToken"`
	AllocPoint        *math.HexOrDecimal256 `json:"allocPoint"`
	LastRewardBlock   uint64                `json:"lastRewardBlock"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	DepositFeePercent uint64                `json:"depositFeePercent"`
}

// User is the REST view of a staker within a pool.
type User struct {
	Address    ember.Address         `json:"address"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
	RewardDebt *math.HexOrDecimal256 `json:"rewardDebt"`
	Pending    *math.HexOrDecimal256 `json:"pending"`
}

// Status is the distributor-wide view.
type Status struct {
	Owner          ember.Address         `json:"owner"`
	RewardToken    ember.Address         `json:"rewardToken"`
	RewardPerBlock *math.HexOrDecimal256 `json:"rewardPerBlock"`
	TotalAlloc     *math.HexOrDecimal256 `json:"totalAllocPoint"`
	PoolCount      uint64                `json:"poolCount"`
	BlockNumber    uint64                `json:"blockNumber"`
}

// AddPoolRequest registers a pool.
type AddPoolRequest struct {
	Caller     ember.Address         `json:"caller"`
	StakeToken ember.Address         `json:"stakeToken"`
	AllocPoint *math.HexOrDecimal256 `json:"allocPoint"`
	DepositFee uint64                `json:"depositFee"`
}

// SetPoolRequest adjusts a pool.
type SetPoolRequest struct {
	Caller     ember.Address         `json:"caller"`
	AllocPoint *math.HexOrDecimal256 `json:"allocPoint"`
	DepositFee uint64                `json:"depositFee"`
}

// StakeRequest deposits into or withdraws from a pool.
type StakeRequest struct {
	Caller ember.Address         `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// EmergencyRequest abandons rewards and pulls the stake out.
type EmergencyRequest struct {
	Caller ember.Address `json:"caller"`
}

func amountOf(v *math.HexOrDecimal256) (*big.Int, error) {
	if v == nil {
		return nil, errors.New("amount is required")
	}
	amount := (*big.Int)(v)
	if amount.Sign() < 0 {
		return nil, errors.New("amount must not be negative")
	}
	return amount, nil
}

func poolID(req *http.Request) (uint64, error) {
	pid, err := strconv.ParseUint(mux.Vars(req)["pid"], 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "pid"))
	}
	return pid, nil
}

func (p *Pools) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	var status Status
	err := p.rt.Query(func(blockNum uint64) error {
		owner, err := p.rt.Chef().Owner()
		if err != nil {
			return err
		}
		rewardToken, err := p.rt.Chef().RewardToken()
		if err != nil {
			return err
		}
		rate, err := p.rt.Chef().RewardPerBlock()
		if err != nil {
			return err
		}
		total, err := p.rt.Chef().TotalAllocPoint()
		if err != nil {
			return err
		}
		count, err := p.rt.Chef().PoolLength()
		if err != nil {
			return err
		}
		status = Status{
			Owner:          owner,
			RewardToken:    rewardToken,
			RewardPerBlock: (*math.HexOrDecimal256)(rate),
			TotalAlloc:     (*math.HexOrDecimal256)(total),
			PoolCount:      count,
			BlockNumber:    blockNum,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &status)
}

func (p *Pools) handleListPools(w http.ResponseWriter, _ *http.Request) error {
	var list []*Pool
	err := p.rt.Query(func(uint64) error {
		count, err := p.rt.Chef().PoolLength()
		if err != nil {
			return err
		}
		list = make([]*Pool, 0, count)
		for pid := uint64(0); pid < count; pid++ {
			info, err := p.rt.Chef().Pool(pid)
			if err != nil {
				return err
			}
			list = append(list, convertPool(pid, info))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, list)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := poolID(req)
	if err != nil {
		return err
	}
	var pool *Pool
	if err := p.rt.Query(func(uint64) error {
		info, err := p.rt.Chef().Pool(pid)
		if err != nil {
			return err
		}
		pool = convertPool(pid, info)
		return nil
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, pool)
}

func (p *Pools) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	pid, err := poolID(req)
	if err != nil {
		return err
	}
	addr, err := ember.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	var user User
	if err := p.rt.Query(func(blockNum uint64) error {
		info, err := p.rt.Chef().User(pid, *addr)
		if err != nil {
			return err
		}
		pending, err := p.rt.Chef().PendingReward(*addr, pid, blockNum)
		if err != nil {
			return err
		}
		user = User{
			Address:    *addr,
			Amount:     (*math.HexOrDecimal256)(info.Amount),
			RewardDebt: (*math.HexOrDecimal256)(info.RewardDebt),
			Pending:    (*math.HexOrDecimal256)(pending),
		}
		return nil
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, &user)
}

func (p *Pools) handleAddPool(w http.ResponseWriter, req *http.Request) error {
	var body AddPoolRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	alloc, err := amountOf(body.AllocPoint)
	if err != nil {
		return restutil.BadRequest(err)
	}
	if err := p.rt.Execute(func(blockNum uint64) error {
		return p.rt.Chef().AddPool(body.Caller, blockNum, body.StakeToken, alloc, body.DepositFee)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (p *Pools) handleSetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := poolID(req)
	if err != nil {
		return err
	}
	var body SetPoolRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	alloc, err := amountOf(body.AllocPoint)
	if err != nil {
		return restutil.BadRequest(err)
	}
	if err := p.rt.Execute(func(blockNum uint64) error {
		return p.rt.Chef().SetPool(body.Caller, blockNum, pid, alloc, body.DepositFee)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (p *Pools) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	return p.handleStake(w, req, p.rt.Chef().Deposit)
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	return p.handleStake(w, req, p.rt.Chef().Withdraw)
}

func (p *Pools) handleStake(w http.ResponseWriter, req *http.Request, op func(ember.Address, uint64, uint64, *big.Int) error) error {
	pid, err := poolID(req)
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return restutil.BadRequest(err)
	}
	if err := p.rt.Execute(func(blockNum uint64) error {
		return op(body.Caller, blockNum, pid, amount)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (p *Pools) handleEmergencyWithdraw(w http.ResponseWriter, req *http.Request) error {
	pid, err := poolID(req)
	if err != nil {
		return err
	}
	var body EmergencyRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := p.rt.Execute(func(uint64) error {
		return p.rt.Chef().EmergencyWithdraw(body.Caller, pid)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (p *Pools) handleUpdateEmission(w http.ResponseWriter, _ *http.Request) error {
	if err := p.rt.Execute(func(blockNum uint64) error {
		return p.rt.Chef().UpdateEmissionRate(blockNum)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	var rate *big.Int
	if err := p.rt.Query(func(uint64) error {
		var err error
		rate, err = p.rt.Chef().RewardPerBlock()
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, map[string]*math.HexOrDecimal256{
		"rewardPerBlock": (*math.HexOrDecimal256)(rate),
	})
}

func convertPool(pid uint64, info *chef.PoolInfo) *Pool {
	return &Pool{
		ID:                pid,
		StakeToken:        info.StakeToken,
		AllocPoint:        (*math.HexOrDecimal256)(info.AllocPoint),
		LastRewardBlock:   info.LastRewardBlock,
		AccRewardPerShare: (*math.HexOrDecimal256)(info.AccRewardPerShare),
		DepositFeePercent: info.DepositFeePercent,
	}
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleListPools))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /pools").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleAddPool))
	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /pools/status").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetStatus))
	sub.Path("/emission").
		Methods(http.MethodPost).
		Name("POST /pools/emission").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleUpdateEmission))
	sub.Path("/{pid}").
		Methods(http.MethodGet).
		Name("GET /pools/{pid}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pid}").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleSetPool))
	sub.Path("/{pid}/deposit").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/deposit").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/{pid}/withdraw").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/withdraw").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/{pid}/emergency").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/emergency").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleEmergencyWithdraw))
	sub.Path("/{pid}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{pid}/users/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetUser))
}
