// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/log"
)

func TestLogLevelEndpoint(t *testing.T) {
	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()
	defer log.SetLevel(slog.LevelInfo)

	res, err := http.Get(srv.URL + "/admin/loglevel")
	require.NoError(t, err)
	var current logLevelResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&current))
	res.Body.Close()
	assert.Equal(t, log.Level().String(), current.CurrentLevel)

	body, _ := json.Marshal(logLevelRequest{Level: "debug"})
	res, err = http.Post(srv.URL+"/admin/loglevel", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, slog.LevelDebug, log.Level())

	body, _ = json.Marshal(logLevelRequest{Level: "nope"})
	res, err = http.Post(srv.URL+"/admin/loglevel", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
