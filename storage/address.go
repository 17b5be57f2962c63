// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/emberfi/ember/ember"
)

// Address is a wrapper for storage and retrieval of an address.
// An empty slot reads as the zero address.
type Address struct {
	context *Context
	pos     ember.Bytes32
}

func NewAddress(context *Context, pos ember.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (addr ember.Address, err error) {
	err = a.context.state.DecodeStorage(a.context.address, a.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		_, content, _, err := rlp.Split(raw)
		if err != nil {
			return err
		}
		addr = ember.BytesToAddress(content)
		return nil
	})
	return
}

func (a *Address) Set(addr ember.Address) error {
	return a.context.state.EncodeStorage(a.context.address, a.pos, func() ([]byte, error) {
		if addr.IsZero() {
			return nil, nil
		}
		trimmed, _ := rlp.EncodeToBytes(bytes.TrimLeft(addr[:], "\x00"))
		return trimmed, nil
	})
}
