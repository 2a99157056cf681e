// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

var (
	errNoAdministrator  = errors.New("genesis has no administrator")
	errNoEscrow         = errors.New("genesis has no escrow account")
	errEscrowIsAdmin    = errors.New("escrow account must differ from the administrator")
	errDuplicateAccount = errors.New("genesis allocates the same account twice")
)

// Allocation is an initial balance.
type Allocation struct {
	Address ids.ShortID `json:"address"`
	Balance uint64      `json:"balance"`
}

// Genesis fixes the privileged identities of a VM and the balances it starts
// with.
type Genesis struct {
	Administrator ids.ShortID  `json:"administrator"`
	Escrow        ids.ShortID  `json:"escrow"`
	Allocations   []Allocation `json:"allocations"`
}

// ParseGenesis decodes and verifies JSON genesis bytes.
func ParseGenesis(genesisBytes []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if err := json.Unmarshal(genesisBytes, genesis); err != nil {
		return nil, fmt.Errorf("failed to parse genesis: %w", err)
	}
	if err := genesis.Verify(); err != nil {
		return nil, err
	}
	return genesis, nil
}

// Verify returns nil iff the genesis is usable.
func (g *Genesis) Verify() error {
	switch {
	case g.Administrator == ids.ShortEmpty:
		return errNoAdministrator
	case g.Escrow == ids.ShortEmpty:
		return errNoEscrow
	case g.Escrow == g.Administrator:
		return errEscrowIsAdmin
	}
	seen := make(map[ids.ShortID]struct{}, len(g.Allocations))
	for _, alloc := range g.Allocations {
		if _, ok := seen[alloc.Address]; ok {
			return fmt.Errorf("%w: %s", errDuplicateAccount, alloc.Address)
		}
		seen[alloc.Address] = struct{}{}
	}
	return nil
}

// Bytes returns the JSON encoding of the genesis.
func (g *Genesis) Bytes() ([]byte, error) {
	return json.Marshal(g)
}
