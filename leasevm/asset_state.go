// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"errors"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
)

const (
	assetCacheSize = 8192
)

var (
	errAssetWrongVersion = errors.New("wrong version")

	_ AssetState = &assetState{}
)

// AssetState stores allocated slots. Assets are immutable, so reads are
// served from an LRU cache in front of the database.
type AssetState interface {
	GetAsset(slotID uint64) (*Asset, error)
	PutAsset(asset *Asset) error

	ClearCache()
}

type assetState struct {
	assetCache cache.Cacher
	assetDB    database.Database
}

func NewAssetState(db database.Database) AssetState {
	return &assetState{
		assetCache: &cache.LRU{Size: assetCacheSize},
		assetDB:    db,
	}
}

func (s *assetState) GetAsset(slotID uint64) (*Asset, error) {
	if assetIntf, ok := s.assetCache.Get(slotID); ok {
		return assetIntf.(*Asset), nil
	}

	assetBytes, err := s.assetDB.Get(slotKey(slotID))
	if err != nil {
		return nil, err
	}

	asset := &Asset{}
	parsedVersion, err := Codec.Unmarshal(assetBytes, asset)
	if err != nil {
		return nil, err
	}

	if parsedVersion != CodecVersion {
		return nil, errAssetWrongVersion
	}

	s.assetCache.Put(slotID, asset)

	return asset, nil
}

func (s *assetState) PutAsset(asset *Asset) error {
	bytes, err := Codec.Marshal(CodecVersion, asset)
	if err != nil {
		return err
	}

	s.assetCache.Put(asset.SlotID, asset)
	return s.assetDB.Put(slotKey(asset.SlotID), bytes)
}

func (s *assetState) ClearCache() {
	s.assetCache.Flush()
}
