// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/units"
)

// CodecVersion is the version records are stored with
const CodecVersion = 0

// maxRecordSize bounds a single stored record. Descriptors carry the only
// variable length fields.
const maxRecordSize = 64 * units.KiB

// Codec serializes the records kept in state
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()
	Codec = codec.NewManager(maxRecordSize)
	if err := Codec.RegisterCodec(CodecVersion, c); err != nil {
		panic(err)
	}
}
