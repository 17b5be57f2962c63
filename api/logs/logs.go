// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logs exposes the recorded ledger events over REST.
package logs

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/restutil"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/logdb"
)

// result sets larger than this are refused
const maxLimit = 1000

type Logs struct {
	db *logdb.LogDB
}

func New(db *logdb.LogDB) *Logs {
	return &Logs{db}
}

// FilterRequest selects stored events.
type FilterRequest struct {
	Name      string         `json:"name,omitempty"`
	Contract  *ember.Address `json:"contract,omitempty"`
	Address   *ember.Address `json:"address,omitempty"`
	FromBlock uint64         `json:"fromBlock,omitempty"`
	ToBlock   uint64         `json:"toBlock,omitempty"`
	Desc      bool           `json:"desc,omitempty"`
	Offset    uint64         `json:"offset,omitempty"`
	Limit     uint64         `json:"limit,omitempty"`
}

// Event is the REST view of a stored event.
type Event struct {
	BlockNumber uint64                `json:"blockNumber"`
	Index       uint32                `json:"index"`
	Name        string                `json:"name"`
	Contract    ember.Address         `json:"contract"`
	From        ember.Address         `json:"from"`
	To          ember.Address         `json:"to"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
}

func (l *Logs) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var body FilterRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Limit > maxLimit {
		return restutil.Forbidden(errors.Errorf("limit exceeds maximum of %d", maxLimit))
	}
	if body.Limit == 0 {
		body.Limit = maxLimit
	}
	order := logdb.ASC
	if body.Desc {
		order = logdb.DESC
	}
	events, err := l.db.Filter(req.Context(), &logdb.EventFilter{
		Name:      body.Name,
		Contract:  body.Contract,
		Address:   body.Address,
		FromBlock: body.FromBlock,
		ToBlock:   body.ToBlock,
		Order:     order,
		Options:   &logdb.Options{Offset: body.Offset, Limit: body.Limit},
	})
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(events))
	for _, ev := range events {
		out = append(out, &Event{
			BlockNumber: ev.BlockNumber,
			Index:       ev.Index,
			Name:        ev.Name,
			Contract:    ev.Contract,
			From:        ev.From,
			To:          ev.To,
			Amount:      (*math.HexOrDecimal256)(ev.Amount),
		})
	}
	return restutil.WriteJSON(w, out)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodPost).
		Name("POST /logs/events").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleFilter))
}
