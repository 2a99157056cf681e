// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var (
	errCommitmentWrongVersion = errors.New("wrong commitment version")

	_ CommitmentState = &commitmentState{}
)

// CommitmentState holds at most one commitment per slot.
// GetCommitment returns database.ErrNotFound when the slot has none.
type CommitmentState interface {
	GetCommitment(slotID uint64) (*Commitment, error)
	PutCommitment(slotID uint64, commitment *Commitment) error
	DeleteCommitment(slotID uint64) error
}

type commitmentState struct {
	commitmentDB database.Database
}

func NewCommitmentState(db database.Database) CommitmentState {
	return &commitmentState{
		commitmentDB: db,
	}
}

func (s *commitmentState) GetCommitment(slotID uint64) (*Commitment, error) {
	commitmentBytes, err := s.commitmentDB.Get(slotKey(slotID))
	if err != nil {
		return nil, err
	}

	commitment := &Commitment{}
	parsedVersion, err := Codec.Unmarshal(commitmentBytes, commitment)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errCommitmentWrongVersion
	}
	return commitment, nil
}

func (s *commitmentState) PutCommitment(slotID uint64, commitment *Commitment) error {
	bytes, err := Codec.Marshal(CodecVersion, commitment)
	if err != nil {
		return err
	}
	return s.commitmentDB.Put(slotKey(slotID), bytes)
}

func (s *commitmentState) DeleteCommitment(slotID uint64) error {
	return s.commitmentDB.Delete(slotKey(slotID))
}
