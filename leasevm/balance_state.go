// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

var (
	errBadBalance = errors.New("malformed balance")

	_ BalanceState = &balanceState{}
)

// BalanceState stores native-unit balances keyed by identity. Missing
// accounts have a zero balance.
type BalanceState interface {
	GetBalance(account ids.ShortID) (uint64, error)
	SetBalance(account ids.ShortID, amount uint64) error
}

type balanceState struct {
	balanceDB database.Database
}

func NewBalanceState(db database.Database) BalanceState {
	return &balanceState{
		balanceDB: db,
	}
}

func (s *balanceState) GetBalance(account ids.ShortID) (uint64, error) {
	balanceBytes, err := s.balanceDB.Get(account[:])
	switch {
	case err == database.ErrNotFound:
		return 0, nil
	case err != nil:
		return 0, err
	case len(balanceBytes) != wrappers.LongLen:
		return 0, errBadBalance
	}
	return binary.BigEndian.Uint64(balanceBytes), nil
}

func (s *balanceState) SetBalance(account ids.ShortID, amount uint64) error {
	if amount == 0 {
		return s.balanceDB.Delete(account[:])
	}
	balanceBytes := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(balanceBytes, amount)
	return s.balanceDB.Put(account[:], balanceBytes)
}
