// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/rpc/v2"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

const (
	Name    = "leasevm"
	Version = "v1.0.0"

	// ServiceName is the name the JSON-RPC service is registered under.
	ServiceName = "lease"
)

// Config carries the collaborators of a VM. Zero fields get defaults.
type Config struct {
	Clock      Clock
	Notifier   Notifier
	Registerer prometheus.Registerer
	Logger     log.Logger
}

// VM executes lease operations against its state. Operations are applied
// one at a time, each one either committing in full or leaving no trace.
type VM struct {
	// lock totally orders every operation
	lock sync.Mutex

	state    State
	bank     Bank
	clock    Clock
	notifier Notifier
	metrics  *metrics
	log      log.Logger

	administrator ids.ShortID
	escrow        ids.ShortID

	// lastTime is the latest time an operation observed. now() never goes
	// below it.
	lastTime int64
}

// Initialize this vm
// [db] is the database the vm's state is kept in
// [genesisBytes] is the JSON genesis; its allocations are applied only if
// [db] has not been initialized before
// [config] supplies the clock, notification sink, metrics registerer and
// logger
func (vm *VM) Initialize(db database.Database, genesisBytes []byte, config Config) error {
	vm.log = config.Logger
	if vm.log == nil {
		vm.log = log.New("vm", Name)
	}
	vm.log.Info("Initializing Lease VM", "Version", Version)

	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		vm.log.Error("error parsing genesis", "error", err)
		return err
	}
	vm.administrator = genesis.Administrator
	vm.escrow = genesis.Escrow

	vm.clock = config.Clock
	if vm.clock == nil {
		vm.clock = SystemClock{}
	}
	vm.notifier = config.Notifier
	if vm.notifier == nil {
		vm.notifier = NewLogNotifier(vm.log)
	}
	registerer := config.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	vm.metrics, err = newMetrics(Name, registerer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	vm.state = NewState(db)
	vm.bank = NewStateBank(vm.state)

	return vm.initGenesis(genesis)
}

func (vm *VM) initGenesis(genesis *Genesis) error {
	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return fmt.Errorf("failed to read initialization status: %w", err)
	}
	if initialized {
		return nil
	}

	for _, alloc := range genesis.Allocations {
		if err := credit(vm.state, alloc.Address, alloc.Balance); err != nil {
			vm.state.Abort()
			return fmt.Errorf("failed to apply genesis allocation: %w", err)
		}
	}
	if err := vm.state.SetInitialized(); err != nil {
		vm.state.Abort()
		return fmt.Errorf("error while setting db to initialized: %w", err)
	}

	// Flush VM's database to underlying db
	if err := vm.state.Commit(); err != nil {
		vm.log.Error("error while committing db", "error", err)
		return err
	}
	return nil
}

// Shutdown closes the vm's database.
func (vm *VM) Shutdown() error {
	if vm.state == nil {
		return nil
	}
	return vm.state.Close()
}

// Administrator returns the identity allowed to allocate slots, confirm
// leases and seize deposits.
func (vm *VM) Administrator() ids.ShortID { return vm.administrator }

// Escrow returns the identity that holds deposits.
func (vm *VM) Escrow() ids.ShortID { return vm.escrow }

// CreateHandlers returns a map where:
// Keys: The path extension for this VM's API
// Values: The handler for the API
func (vm *VM) CreateHandlers() (map[string]http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(&Service{vm: vm}, ServiceName); err != nil {
		return nil, err
	}
	return map[string]http.Handler{
		"/" + ServiceName: server,
	}, nil
}

// now returns the current time in unix seconds, never earlier than the time
// any previous operation observed. Must be called with [vm.lock] held.
func (vm *VM) now() int64 {
	now := vm.clock.Time().Unix()
	if now < vm.lastTime {
		return vm.lastTime
	}
	vm.lastTime = now
	return now
}

// execute applies [transition] as one atomic operation named [op]. Writes made
// by a failing transition, including transfers, are aborted. The event is only
// emitted once the writes are committed.
func (vm *VM) execute(op string, transition func(now int64) (*Event, error)) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	event, err := transition(vm.now())
	if err != nil {
		vm.state.Abort()
		kind := KindOf(err)
		vm.metrics.rejections.WithLabelValues(op, kind.String()).Inc()
		vm.log.Debug("rejected lease operation", "operation", op, "kind", kind, "error", err)
		return err
	}

	if err := vm.state.Commit(); err != nil {
		vm.state.Abort()
		vm.log.Error("error while committing db", "operation", op, "error", err)
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}

	vm.metrics.transitions.WithLabelValues(op).Inc()
	vm.notifier.Notify(*event)
	return nil
}

// view runs a read-only [query] against committed state.
func (vm *VM) view(query func(now int64) error) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return query(vm.now())
}

func (vm *VM) getAsset(slotID uint64) (*Asset, error) {
	asset, err := vm.state.GetAsset(slotID)
	switch {
	case err == database.ErrNotFound:
		return nil, fmt.Errorf("%w: slot %d", ErrNotFound, slotID)
	case err != nil:
		return nil, fmt.Errorf("failed to get asset %d: %w", slotID, err)
	}
	return asset, nil
}

// getCommitment returns nil if [slotID] has no commitment.
func (vm *VM) getCommitment(slotID uint64) (*Commitment, error) {
	commitment, err := vm.state.GetCommitment(slotID)
	switch {
	case err == database.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get commitment %d: %w", slotID, err)
	}
	return commitment, nil
}

// getLease returns nil if [slotID] has no lease record.
func (vm *VM) getLease(slotID uint64) (*Lease, error) {
	lease, err := vm.state.GetLease(slotID)
	switch {
	case err == database.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get lease %d: %w", slotID, err)
	}
	return lease, nil
}

func (vm *VM) putLease(slotID uint64, lease *Lease) error {
	if err := vm.state.PutLease(slotID, lease); err != nil {
		return fmt.Errorf("failed to put lease %d: %w", slotID, err)
	}
	return nil
}

func (vm *VM) transfer(from, to ids.ShortID, amount uint64) error {
	if err := vm.bank.Transfer(from, to, amount); err != nil {
		if KindOf(err) == KindUnknown {
			return fmt.Errorf("%w: %s", ErrTransferFailed, err)
		}
		return err
	}
	return nil
}
