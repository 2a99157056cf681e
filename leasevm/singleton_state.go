// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	IsInitializedKey byte = iota
	LastSlotKey
)

var (
	isInitializedKey = []byte{IsInitializedKey}
	lastSlotKey      = []byte{LastSlotKey}

	errBadSlotCounter = errors.New("malformed slot counter")

	_ SingletonState = (*singletonState)(nil)
)

// SingletonState is a thin wrapper around a database to provide
// serialization, and de-serialization of the initialization status and the
// slot counter.
type SingletonState interface {
	IsInitialized() (bool, error)
	SetInitialized() error

	// LastSlot returns the most recently allocated slot id, or 0 if none.
	LastSlot() (uint64, error)
	SetLastSlot(slotID uint64) error
}

type singletonState struct {
	singletonDB database.Database
}

func NewSingletonState(db database.Database) SingletonState {
	return &singletonState{
		singletonDB: db,
	}
}

func (s *singletonState) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *singletonState) SetInitialized() error {
	return s.singletonDB.Put(isInitializedKey, nil)
}

func (s *singletonState) LastSlot() (uint64, error) {
	slotBytes, err := s.singletonDB.Get(lastSlotKey)
	switch {
	case err == database.ErrNotFound:
		return 0, nil
	case err != nil:
		return 0, err
	case len(slotBytes) != wrappers.LongLen:
		return 0, errBadSlotCounter
	}
	return binary.BigEndian.Uint64(slotBytes), nil
}

func (s *singletonState) SetLastSlot(slotID uint64) error {
	return s.singletonDB.Put(lastSlotKey, slotKey(slotID))
}
