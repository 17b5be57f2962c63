// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime glues the ledgers to persistent storage. Each successful
// operation is committed as one block: state changes land in the key-value
// store, emitted events in the event db, and the block counter advances.
// A failed operation reverts to the checkpoint taken at its start.
package runtime

import (
	"encoding/binary"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/chef"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/kv"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/logdb"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/token"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricBlockNum = metrics.LazyLoadGauge("runtime_block_number")

	// node metadata lives in its own namespace beside the ledger state
	propsBucket = kv.Bucket("p")

	keyBlockNum = []byte("block-num")
	keyLedgers  = []byte("ledgers")
)

// Runtime hosts the token ledgers and the chef over one state instance.
type Runtime struct {
	mu      sync.Mutex
	store   kv.GetPutter
	props   kv.GetPutter
	logDB   *logdb.LogDB
	st      *state.State
	token   *token.Token
	chef    *chef.Chef
	ledgers map[ember.Address]*token.Token
	staged  map[ember.Address]*token.Token

	blockNum uint64
	pending  []events.Event
}

// New opens a runtime over store, replaying the persisted block counter and
// ledger registry. logDB may be nil to skip event recording.
func New(store kv.GetPutter, logDB *logdb.LogDB) (*Runtime, error) {
	rt := &Runtime{
		store:   store,
		props:   propsBucket.NewGetPutter(store),
		logDB:   logDB,
		st:      state.New(store),
		ledgers: make(map[ember.Address]*token.Token),
	}
	sink := events.Sink(rt.collect)

	rt.token = token.New(ember.TokenContractAddress, rt.st, sink)
	rt.ledgers[ember.TokenContractAddress] = rt.token
	rt.chef = chef.New(ember.ChefContractAddress, rt.st, sink, rt.token, rt.Asset)

	if raw, err := rt.props.Get(keyBlockNum); err != nil {
		if !rt.props.IsNotFound(err) {
			return nil, errors.WithMessage(err, "load block counter")
		}
	} else {
		rt.blockNum = binary.BigEndian.Uint64(raw)
	}

	if raw, err := rt.props.Get(keyLedgers); err != nil {
		if !rt.props.IsNotFound(err) {
			return nil, errors.WithMessage(err, "load ledger registry")
		}
	} else {
		var addrs []ember.Address
		if err := rlp.DecodeBytes(raw, &addrs); err != nil {
			return nil, errors.WithMessage(err, "decode ledger registry")
		}
		for _, addr := range addrs {
			rt.ledgers[addr] = token.New(addr, rt.st, sink)
		}
	}
	metricBlockNum().Set(int64(rt.blockNum))
	return rt, nil
}

func (rt *Runtime) collect(ev events.Event) {
	rt.pending = append(rt.pending, ev)
}

// Token returns the primary token ledger.
func (rt *Runtime) Token() *token.Token { return rt.token }

// Chef returns the reward distributor.
func (rt *Runtime) Chef() *chef.Chef { return rt.chef }

// BlockNum returns the next block number to be committed.
func (rt *Runtime) BlockNum() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.blockNum
}

// Asset resolves a registered ledger address.
func (rt *Runtime) Asset(addr ember.Address) (chef.Asset, error) {
	if ledger, ok := rt.Ledger(addr); ok {
		return ledger, nil
	}
	return nil, errors.Errorf("no ledger registered at %v", addr)
}

// Ledger returns the registered ledger at addr, including ledgers created
// within the operation in flight.
func (rt *Runtime) Ledger(addr ember.Address) (*token.Token, bool) {
	if ledger, ok := rt.ledgers[addr]; ok {
		return ledger, true
	}
	ledger, ok := rt.staged[addr]
	return ledger, ok
}

// Ledgers returns the addresses of all registered ledgers.
func (rt *Runtime) Ledgers() []ember.Address {
	addrs := make([]ember.Address, 0, len(rt.ledgers))
	for addr := range rt.ledgers {
		addrs = append(addrs, addr)
	}
	return addrs
}

// CreateLedger instantiates and registers a secondary ledger at addr. Must be
// called within Execute so the setup commits atomically: the registry entry
// stays staged until the enclosing operation commits.
func (rt *Runtime) CreateLedger(addr ember.Address, name, symbol string, maxSupply *big.Int, controller ember.Address) (*token.Token, error) {
	if _, ok := rt.Ledger(addr); ok {
		return nil, errors.Errorf("ledger already registered at %v", addr)
	}
	ledger := token.New(addr, rt.st, events.Sink(rt.collect))
	if err := ledger.Initialize(name, symbol, maxSupply, controller); err != nil {
		return nil, err
	}
	if rt.staged == nil {
		rt.staged = make(map[ember.Address]*token.Token)
	}
	rt.staged[addr] = ledger
	return ledger, nil
}

func (rt *Runtime) persistLedgerRegistry() error {
	addrs := make([]ember.Address, 0, len(rt.ledgers))
	for a := range rt.ledgers {
		if a != ember.TokenContractAddress {
			addrs = append(addrs, a)
		}
	}
	raw, err := rlp.EncodeToBytes(addrs)
	if err != nil {
		return err
	}
	return rt.props.Put(keyLedgers, raw)
}

// Execute runs op as one block, handing it the block number it commits
// under. On success the state is committed, the emitted events are recorded,
// and the counter advances. On error everything the op did is reverted and
// the error is returned as is.
func (rt *Runtime) Execute(op func(blockNum uint64) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	checkpoint := rt.st.NewCheckpoint()
	rt.pending = rt.pending[:0]
	rt.staged = nil
	if err := op(rt.blockNum); err != nil {
		rt.st.RevertTo(checkpoint)
		rt.pending = rt.pending[:0]
		rt.staged = nil
		return err
	}
	if err := rt.st.Commit(rt.store); err != nil {
		return errors.WithMessage(err, "commit state")
	}
	if len(rt.staged) > 0 {
		for addr, ledger := range rt.staged {
			rt.ledgers[addr] = ledger
		}
		rt.staged = nil
		if err := rt.persistLedgerRegistry(); err != nil {
			return errors.WithMessage(err, "persist ledger registry")
		}
	}
	if rt.logDB != nil && len(rt.pending) > 0 {
		if err := rt.logDB.Write(rt.blockNum, rt.pending); err != nil {
			logger.Error("failed to record events", "block", rt.blockNum, "err", err)
		}
	}
	rt.blockNum++
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], rt.blockNum)
	if err := rt.props.Put(keyBlockNum, b[:]); err != nil {
		return errors.WithMessage(err, "persist block counter")
	}
	metricBlockNum().Set(int64(rt.blockNum))
	return nil
}

// Query runs op with a consistent view of the state and no commit. State
// mutations made by op are reverted.
func (rt *Runtime) Query(op func(blockNum uint64) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	checkpoint := rt.st.NewCheckpoint()
	defer func() {
		rt.st.RevertTo(checkpoint)
		rt.staged = nil
	}()
	return op(rt.blockNum)
}
