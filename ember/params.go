// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ember

import "math/big"

// Constants of the protocol.
const (
	// MaxBurnPercent hard ceiling of the transfer burn rate, in basis points.
	MaxBurnPercent uint16 = 500

	// MaxDepositFeePercent hard ceiling of the pool deposit fee, in basis points.
	MaxDepositFeePercent uint16 = 600

	// PercentDivisor denominator of all basis-point arithmetic.
	PercentDivisor uint16 = 10000

	// BurnRoundQuantum transfer values are rounded up to a multiple of this
	// before the burn percent is applied.
	BurnRoundQuantum = 100

	// TokenDecimals decimal places of the token's fixed-point representation.
	TokenDecimals = 18
)

var (
	// E18 the token's fixed-point scale.
	E18 = big.NewInt(1e18)

	// AccRewardPrecision scale of a pool's accumulated reward per share.
	AccRewardPrecision = big.NewInt(1e12)

	// DeadAddress the designated burn sink. Value received here, and at the
	// zero address, is treated as removed from circulating supply.
	DeadAddress = BytesToAddress([]byte{
		0xde, 0xad, 0xde, 0xad, 0xde, 0xad, 0xde, 0xad, 0xde, 0xad,
		0xde, 0xad, 0xde, 0xad, 0xde, 0xad, 0xde, 0xad, 0xde, 0xad,
	})

	// TokenContractAddress well-known address the token ledger is bound to.
	TokenContractAddress = BytesToAddress([]byte("ember-token"))

	// ChefContractAddress well-known address the reward distributor is bound to.
	ChefContractAddress = BytesToAddress([]byte("ember-chef"))
)

// IsBurnSink reports whether addr is a supply-destroying destination.
func IsBurnSink(addr Address) bool {
	return addr == DeadAddress || addr.IsZero()
}
