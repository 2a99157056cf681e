// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	digestPreimageLen = wrappers.LongLen /* slot */ + hashing.HashLen /* secret */ + hashing.AddrLen /* committer */
)

// ComputeDigest binds a commitment to [slotID], [secret] and [committer].
// Because the committer is part of the pre-image, an observed reveal cannot
// be replayed by anyone else.
func ComputeDigest(slotID uint64, secret ids.ID, committer ids.ShortID) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(marshalPreimage(slotID, secret, committer)))
}

func marshalPreimage(slotID uint64, secret ids.ID, committer ids.ShortID) []byte {
	p := wrappers.Packer{Bytes: make([]byte, digestPreimageLen)}
	p.PackLong(slotID)
	p.PackFixedBytes(secret[:])
	p.PackFixedBytes(committer[:])
	return p.Bytes
}

// BytesToSecret converts a byte slice to a secret. If the byte slice input is
// larger than 32 bytes, it will be truncated.
func BytesToSecret(input []byte) ids.ID {
	secret := ids.ID{}
	lim := len(input)
	if lim > len(secret) {
		lim = len(secret)
	}
	copy(secret[:], input[:lim])
	return secret
}
