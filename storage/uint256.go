// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/emberfi/ember/ember"
)

// Uint256 is a wrapper for storage and retrieval of an unsigned big integer.
// An empty slot reads as zero.
type Uint256 struct {
	context *Context
	pos     ember.Bytes32
}

func NewUint256(context *Context, pos ember.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (value *big.Int, err error) {
	value = new(big.Int)
	err = u.context.state.DecodeStorage(u.context.address, u.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value)
	})
	return
}

func (u *Uint256) Set(value *big.Int) error {
	return u.context.state.EncodeStorage(u.context.address, u.pos, func() ([]byte, error) {
		if value.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

func (u *Uint256) Add(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(stored.Add(stored, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	stored, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(stored.Sub(stored, value))
}
