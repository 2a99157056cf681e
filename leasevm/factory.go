// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
)

// ID is a unique identifier for this VM
var ID = ids.ID{'l', 'e', 'a', 's', 'e', 'v', 'm'}

// Factory builds VMs sharing one Config
type Factory struct {
	Config Config
}

// New returns an initialized VM over [db]. A nil [db] gets a fresh in-memory
// database.
func (f *Factory) New(db database.Database, genesisBytes []byte) (*VM, error) {
	if db == nil {
		db = memdb.New()
	}
	vm := &VM{}
	if err := vm.Initialize(db, genesisBytes, f.Config); err != nil {
		return nil, err
	}
	return vm, nil
}
