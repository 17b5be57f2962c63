// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed wrappers over contract storage slots,
// similar to declaring state variables in a smart contract.
package storage

import (
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/state"
)

// Context binds storage wrappers to a contract address and world state.
type Context struct {
	address ember.Address
	state   *state.State
}

func NewContext(address ember.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() ember.Address {
	return c.address
}
