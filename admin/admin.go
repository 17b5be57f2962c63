// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the node administration endpoints, kept off the
// public API listener.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/restutil"
	"github.com/emberfi/ember/log"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

func handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, logLevelResponse{
		CurrentLevel: log.Level().String(),
	})
}

func handlePostLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body logLevelRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	switch body.Level {
	case "debug":
		log.SetLevel(slog.LevelDebug)
	case "info":
		log.SetLevel(slog.LevelInfo)
	case "warn":
		log.SetLevel(slog.LevelWarn)
	case "error":
		log.SetLevel(slog.LevelError)
	default:
		return restutil.BadRequest(errors.Errorf("invalid verbosity level %q", body.Level))
	}
	return restutil.WriteJSON(w, logLevelResponse{
		CurrentLevel: log.Level().String(),
	})
}

// HTTPHandler returns the admin endpoints handler.
func HTTPHandler() http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(handlePostLogLevel))
	return handlers.CompressHandler(router)
}
