// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

// AllocateAsset registers a new leasable slot described by [descriptor] and
// returns its id. Slot ids start at 1.
func (vm *VM) AllocateAsset(caller ids.ShortID, descriptor Descriptor) (uint64, error) {
	var slotID uint64
	err := vm.execute("allocateAsset", func(now int64) (*Event, error) {
		if caller != vm.administrator {
			return nil, fmt.Errorf("%w: only the administrator allocates assets", ErrUnauthorized)
		}
		if err := descriptor.Verify(); err != nil {
			return nil, err
		}

		lastSlot, err := vm.state.LastSlot()
		if err != nil {
			return nil, fmt.Errorf("failed to read slot counter: %w", err)
		}
		slotID = lastSlot + 1
		if err := vm.state.SetLastSlot(slotID); err != nil {
			return nil, fmt.Errorf("failed to advance slot counter: %w", err)
		}
		if err := vm.state.PutAsset(&Asset{SlotID: slotID, Descriptor: descriptor}); err != nil {
			return nil, fmt.Errorf("failed to put asset %d: %w", slotID, err)
		}

		return &Event{
			Kind:      AssetAllocated,
			SlotID:    slotID,
			Caller:    caller,
			Timestamp: now,
			Amount:    descriptor.DeclaredValue,
			Label:     descriptor.Label,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	return slotID, nil
}

// DescribeAsset returns the asset allocated at [slotID].
func (vm *VM) DescribeAsset(slotID uint64) (Asset, error) {
	var asset Asset
	err := vm.view(func(int64) error {
		a, err := vm.getAsset(slotID)
		if err != nil {
			return err
		}
		asset = *a
		return nil
	})
	return asset, err
}

// QuoteLease prices a lease of [slotID] under [args]. See Quote.
func (vm *VM) QuoteLease(slotID uint64, args QuoteFactors) (uint64, error) {
	asset, err := vm.DescribeAsset(slotID)
	if err != nil {
		return 0, err
	}
	return Quote(asset.Descriptor, args)
}
