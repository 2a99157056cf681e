// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix  = []byte("singleton")
	assetStatePrefix      = []byte("asset")
	commitmentStatePrefix = []byte("commitment")
	leaseStatePrefix      = []byte("lease")
	balanceStatePrefix    = []byte("balance")

	_ State = &state{}
)

// State is a wrapper around the per-record sub states.
// State also exposes the methods needed to commit or abort a transition as a
// single unit, and to close the database.
type State interface {
	SingletonState
	AssetState
	CommitmentState
	LeaseState
	BalanceState

	// Commit flushes every pending write to the underlying database.
	Commit() error
	// Abort drops every write made since the last Commit.
	Abort()
	Close() error
}

type state struct {
	SingletonState
	AssetState
	CommitmentState
	LeaseState
	BalanceState

	baseDB *versiondb.Database
}

func NewState(db database.Database) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	// return state with created sub state components
	return &state{
		SingletonState:  NewSingletonState(prefixdb.New(singletonStatePrefix, baseDB)),
		AssetState:      NewAssetState(prefixdb.New(assetStatePrefix, baseDB)),
		CommitmentState: NewCommitmentState(prefixdb.New(commitmentStatePrefix, baseDB)),
		LeaseState:      NewLeaseState(prefixdb.New(leaseStatePrefix, baseDB)),
		BalanceState:    NewBalanceState(prefixdb.New(balanceStatePrefix, baseDB)),
		baseDB:          baseDB,
	}
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards pending operations. Cached assets may have come from the
// discarded writes, so the cache is cleared too.
func (s *state) Abort() {
	s.baseDB.Abort()
	s.AssetState.ClearCache()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}
