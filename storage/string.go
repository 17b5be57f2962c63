// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/emberfi/ember/ember"
)

// String is a wrapper for storage and retrieval of a string.
// An empty slot reads as the empty string.
type String struct {
	context *Context
	pos     ember.Bytes32
}

func NewString(context *Context, pos ember.Bytes32) *String {
	return &String{context: context, pos: pos}
}

func (s *String) Get() (value string, err error) {
	err = s.context.state.DecodeStorage(s.context.address, s.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (s *String) Set(value string) error {
	return s.context.state.EncodeStorage(s.context.address, s.pos, func() ([]byte, error) {
		if value == "" {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}
