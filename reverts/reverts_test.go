// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/emberfi/ember/reverts"
)

func TestRevertError(t *testing.T) {
	err := reverts.InvalidConfiguration("deposit fee %d exceeds limit %d", 601, 600)
	assert.Equal(t, "InvalidConfiguration: deposit fee 601 exceeds limit 600", err.Error())
	assert.Equal(t, reverts.CodeInvalidConfiguration, err.Code())

	assert.True(t, reverts.IsRevert(err))
	assert.True(t, reverts.Is(err, reverts.CodeInvalidConfiguration))
	assert.False(t, reverts.Is(err, reverts.CodeUnauthorized))
}

func TestWrappedRevert(t *testing.T) {
	err := errors.WithMessage(reverts.Unauthorized("mint caller is not the controller"), "token")
	assert.True(t, reverts.Is(err, reverts.CodeUnauthorized))
	assert.False(t, reverts.IsRevert(errors.New("plain")))
}
