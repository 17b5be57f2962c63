// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the ledger events produced by contract components.
package events

import (
	"math/big"

	"github.com/emberfi/ember/ember"
)

// Names of produced events.
const (
	NameTransfer          = "Transfer"
	NameBurn              = "Burn"
	NameApproval          = "Approval"
	NameMint              = "Mint"
	NameDeposit           = "Deposit"
	NameWithdraw          = "Withdraw"
	NameEmergencyWithdraw = "EmergencyWithdraw"
	NameEmissionUpdate    = "EmissionUpdate"
)

// Event is a single ledger event.
type Event struct {
	Name     string
	Contract ember.Address
	From     ember.Address
	To       ember.Address
	Amount   *big.Int
}

// Sink receives events as they are produced. A nil Sink discards them.
type Sink func(Event)

// Emit sends ev to the sink if one is set.
func (s Sink) Emit(ev Event) {
	if s != nil {
		s(ev)
	}
}
