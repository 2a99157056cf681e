// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import "github.com/ava-labs/avalanchego/utils/wrappers"

// slotKey encodes [slotID] so that keys sort in allocation order.
func slotKey(slotID uint64) []byte {
	p := wrappers.Packer{Bytes: make([]byte, wrappers.LongLen)}
	p.PackLong(slotID)
	return p.Bytes
}
