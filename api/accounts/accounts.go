// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts exposes the token ledgers over REST.
package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/restutil"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/runtime"
	"github.com/emberfi/ember/token"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

// TokenInfo is the static and supply-derived ledger state.
type TokenInfo struct {
	Address         ember.Address         `json:"address"`
	Name            string                `json:"name"`
	Symbol          string                `json:"symbol"`
	TotalSupply     *math.HexOrDecimal256 `json:"totalSupply"`
	MaxSupply       *math.HexOrDecimal256 `json:"maxSupply"`
	BurnPercent     uint16                `json:"burnPercent"`
	MinSupplyNoBurn *math.HexOrDecimal256 `json:"minSupplyNoBurn"`
	Controller      ember.Address         `json:"controller"`
}

// Account is the per-address ledger view.
type Account struct {
	Address ember.Address         `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// TransferRequest moves value between addresses. Spender set makes it an
// allowance-backed transfer.
type TransferRequest struct {
	Caller  ember.Address         `json:"caller"`
	From    *ember.Address        `json:"from,omitempty"`
	To      ember.Address         `json:"to"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

// ApproveRequest grants an allowance.
type ApproveRequest struct {
	Caller  ember.Address         `json:"caller"`
	Spender ember.Address         `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

// SupplyChangeRequest mints or burns value.
type SupplyChangeRequest struct {
	Caller  ember.Address         `json:"caller"`
	Address ember.Address         `json:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
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

func (a *Accounts) ledger(req *http.Request) (*token.Token, error) {
	query := req.URL.Query().Get("ledger")
	if query == "" {
		return a.rt.Token(), nil
	}
	addr, err := ember.ParseAddress(query)
	if err != nil {
		return nil, restutil.BadRequest(errors.WithMessage(err, "ledger"))
	}
	ledger, ok := a.rt.Ledger(*addr)
	if !ok {
		return nil, restutil.NotFound(errors.Errorf("no ledger at %v", addr))
	}
	return ledger, nil
}

func (a *Accounts) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	var info TokenInfo
	err = a.rt.Query(func(uint64) error {
		if info.Name, err = ledger.Name(); err != nil {
			return err
		}
		if info.Symbol, err = ledger.Symbol(); err != nil {
			return err
		}
		total, err := ledger.TotalSupply()
		if err != nil {
			return err
		}
		maxSupply, err := ledger.MaxSupply()
		if err != nil {
			return err
		}
		minNoBurn, err := ledger.MinSupplyNoBurn()
		if err != nil {
			return err
		}
		percent, err := ledger.BurnPercent()
		if err != nil {
			return err
		}
		if info.Controller, err = ledger.Controller(); err != nil {
			return err
		}
		info.Address = ledger.Address()
		info.TotalSupply = (*math.HexOrDecimal256)(total)
		info.MaxSupply = (*math.HexOrDecimal256)(maxSupply)
		info.MinSupplyNoBurn = (*math.HexOrDecimal256)(minNoBurn)
		info.BurnPercent = uint16(percent.Uint64())
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &info)
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := ember.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	var balance *big.Int
	if err := a.rt.Query(func(uint64) error {
		balance, err = ledger.BalanceOf(*addr)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Account{
		Address: *addr,
		Balance: (*math.HexOrDecimal256)(balance),
	})
}

func (a *Accounts) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := ember.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	spender, err := ember.ParseAddress(mux.Vars(req)["spender"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "spender"))
	}
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	var allowance *big.Int
	if err := a.rt.Query(func(uint64) error {
		allowance, err = ledger.Allowance(*owner, *spender)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, map[string]*math.HexOrDecimal256{
		"allowance": (*math.HexOrDecimal256)(allowance),
	})
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return restutil.BadRequest(err)
	}
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	if err := a.rt.Execute(func(uint64) error {
		if body.From != nil {
			return ledger.TransferFrom(body.Caller, *body.From, body.To, amount)
		}
		return ledger.Transfer(body.Caller, body.To, amount)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *Accounts) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return restutil.BadRequest(err)
	}
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	if err := a.rt.Execute(func(uint64) error {
		return ledger.Approve(body.Caller, body.Spender, amount)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *Accounts) handleMint(w http.ResponseWriter, req *http.Request) error {
	var body SupplyChangeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return restutil.BadRequest(err)
	}
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	if err := a.rt.Execute(func(uint64) error {
		return ledger.Mint(body.Caller, body.Address, amount)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *Accounts) handleBurn(w http.ResponseWriter, req *http.Request) error {
	var body SupplyChangeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return restutil.BadRequest(err)
	}
	ledger, err := a.ledger(req)
	if err != nil {
		return err
	}
	if err := a.rt.Execute(func(uint64) error {
		return ledger.Burn(body.Address, amount)
	}); err != nil {
		return restutil.RevertToHTTPError(err)
	}
	return restutil.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/token").
		Methods(http.MethodGet).
		Name("GET /accounts/token").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetToken))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /accounts/transfer").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleTransfer))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST /accounts/approve").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleApprove))
	sub.Path("/mint").
		Methods(http.MethodPost).
		Name("POST /accounts/mint").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleMint))
	sub.Path("/burn").
		Methods(http.MethodPost).
		Name("POST /accounts/burn").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleBurn))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/allowances/{spender}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/allowances/{spender}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAllowance))
}
