// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var (
	errLeaseWrongVersion = errors.New("wrong lease version")

	_ LeaseState = &leaseState{}
)

// LeaseState holds the lease record of each slot.
// GetLease returns database.ErrNotFound when the slot has none.
type LeaseState interface {
	GetLease(slotID uint64) (*Lease, error)
	PutLease(slotID uint64, lease *Lease) error
	DeleteLease(slotID uint64) error
}

type leaseState struct {
	leaseDB database.Database
}

func NewLeaseState(db database.Database) LeaseState {
	return &leaseState{
		leaseDB: db,
	}
}

func (s *leaseState) GetLease(slotID uint64) (*Lease, error) {
	leaseBytes, err := s.leaseDB.Get(slotKey(slotID))
	if err != nil {
		return nil, err
	}

	lease := &Lease{}
	parsedVersion, err := Codec.Unmarshal(leaseBytes, lease)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errLeaseWrongVersion
	}
	return lease, nil
}

func (s *leaseState) PutLease(slotID uint64, lease *Lease) error {
	bytes, err := Codec.Marshal(CodecVersion, lease)
	if err != nil {
		return err
	}
	return s.leaseDB.Put(slotKey(slotID), bytes)
}

func (s *leaseState) DeleteLease(slotID uint64) error {
	return s.leaseDB.Delete(slotKey(slotID))
}
