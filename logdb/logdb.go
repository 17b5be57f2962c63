// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb stores committed ledger events in sqlite for later querying.
package logdb

import (
	"context"
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	name TEXT NOT NULL,
	contract BLOB NOT NULL,
	fromAddr BLOB NOT NULL,
	toAddr BLOB NOT NULL,
	amount TEXT NOT NULL,
	PRIMARY KEY (blockNumber, eventIndex)
);
CREATE INDEX IF NOT EXISTS event_name ON event(name);
CREATE INDEX IF NOT EXISTS event_contract ON event(contract);`

// Event is a stored ledger event with its block position.
type Event struct {
	BlockNumber uint64
	Index       uint32
	Name        string
	Contract    ember.Address
	From        ember.Address
	To          ember.Address
	Amount      *big.Int
}

// Order of filter results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Options carry result pagination.
type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects stored events.
type EventFilter struct {
	Name     string
	Contract *ember.Address
	Address  *ember.Address // matches either side of the event
	FromBlock uint64
	ToBlock   uint64 // 0 means unbounded
	Order     Order
	Options   *Options
}

// LogDB is the sqlite-backed event store.
type LogDB struct {
	path string
	db   *sql.DB
}

// New create or open the event db at the given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &LogDB{path, db}, nil
}

// NewMem create an event db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *LogDB) Close() {
	db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Write appends the events of a committed block in one transaction.
func (db *LogDB) Write(blockNum uint64, evs []events.Event) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO event(blockNumber, eventIndex, name, contract, fromAddr, toAddr, amount) VALUES(?,?,?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ev := range evs {
		amount := "0"
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		if _, err = stmt.Exec(
			blockNum, i, ev.Name,
			ev.Contract.Bytes(), ev.From.Bytes(), ev.To.Bytes(),
			amount,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Filter queries stored events.
func (db *LogDB) Filter(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	stmt := "SELECT blockNumber, eventIndex, name, contract, fromAddr, toAddr, amount FROM event WHERE 1"
	var args []any
	if filter != nil {
		if filter.Name != "" {
			stmt += " AND name = ?"
			args = append(args, filter.Name)
		}
		if filter.Contract != nil {
			stmt += " AND contract = ?"
			args = append(args, filter.Contract.Bytes())
		}
		if filter.Address != nil {
			stmt += " AND (fromAddr = ? OR toAddr = ?)"
			args = append(args, filter.Address.Bytes(), filter.Address.Bytes())
		}
		if filter.FromBlock > 0 {
			stmt += " AND blockNumber >= ?"
			args = append(args, filter.FromBlock)
		}
		if filter.ToBlock > 0 {
			stmt += " AND blockNumber <= ?"
			args = append(args, filter.ToBlock)
		}
		if filter.Order == DESC {
			stmt += " ORDER BY blockNumber DESC, eventIndex DESC"
		} else {
			stmt += " ORDER BY blockNumber ASC, eventIndex ASC"
		}
		if filter.Options != nil {
			stmt += " LIMIT ?, ?"
			args = append(args, filter.Options.Offset, filter.Options.Limit)
		}
	} else {
		stmt += " ORDER BY blockNumber ASC, eventIndex ASC"
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []*Event
	for rows.Next() {
		var (
			ev       Event
			contract []byte
			from     []byte
			to       []byte
			amount   string
		)
		if err := rows.Scan(&ev.BlockNumber, &ev.Index, &ev.Name, &contract, &from, &to, &amount); err != nil {
			return nil, err
		}
		ev.Contract = ember.BytesToAddress(contract)
		ev.From = ember.BytesToAddress(from)
		ev.To = ember.BytesToAddress(to)
		ev.Amount, _ = new(big.Int).SetString(amount, 10)
		evs = append(evs, &ev)
	}
	return evs, rows.Err()
}
