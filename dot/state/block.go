// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/chaindb"
	log "github.com/ChainSafe/log15"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
)

var logger = log.New("pkg", "state")

var blockPrefix = "block"

var (
	headerPrefix        = []byte("hdr") // headerPrefix + hash -> header
	blockBodyPrefix     = []byte("blb") // blockBodyPrefix + hash -> body
	justificationPrefix = []byte("jcn") // justificationPrefix + hash -> justification
)

var (
	// ErrHeaderNotFound is returned when no header exists for a given hash
	ErrHeaderNotFound = errors.New("header not found")
	// ErrBodyNotFound is returned when no block body exists for a given hash
	ErrBodyNotFound = errors.New("block body not found")
	// ErrParentNotFound is returned when adding a block whose parent is not known
	ErrParentNotFound = errors.New("parent header not found")
	// ErrJustificationNotFound is returned when no justification exists for a given hash
	ErrJustificationNotFound = errors.New("justification not found")
)

// headerKey = headerPrefix + hash
func headerKey(hash common.Hash) []byte {
	return append(headerPrefix, hash.ToBytes()...)
}

// blockBodyKey = blockBodyPrefix + hash
func blockBodyKey(hash common.Hash) []byte {
	return append(blockBodyPrefix, hash.ToBytes()...)
}

// justificationKey = justificationPrefix + hash
func justificationKey(hash common.Hash) []byte {
	return append(justificationPrefix, hash.ToBytes()...)
}

// BlockState stores headers and bodies by hash, tracks the best (longest)
// chain and the finalised head, and notifies subscribers of imported and
// finalised blocks. It is safe for concurrent use; the authoring loop and
// the finality gadget share one instance.
type BlockState struct {
	db chaindb.Database
	sync.RWMutex
	genesisHash common.Hash

	// block notifiers
	imported      map[chan *types.ImportedBlockInfo]struct{}
	finalised     map[chan *types.FinalisationInfo]struct{}
	importedLock  sync.RWMutex
	finalisedLock sync.RWMutex
}

// NewBlockState will create a new BlockState backed by the database.
// The genesis header is written on first use; on a restarted node the
// stored chain is picked up where it was left.
func NewBlockState(db chaindb.Database, genesisHeader *types.Header) (*BlockState, error) {
	if genesisHeader == nil {
		return nil, errors.New("genesis header is nil")
	}

	bs := &BlockState{
		db:        chaindb.NewTable(db, blockPrefix),
		imported:  make(map[chan *types.ImportedBlockInfo]struct{}),
		finalised: make(map[chan *types.FinalisationInfo]struct{}),
	}

	genesisHash := genesisHeader.Hash()
	bs.genesisHash = genesisHash

	has, err := bs.db.Has(common.GenesisBlockHashKey)
	if err != nil {
		return nil, err
	}

	if has {
		stored, err := bs.db.Get(common.GenesisBlockHashKey)
		if err != nil {
			return nil, err
		}

		if !bytes.Equal(stored, genesisHash.ToBytes()) {
			return nil, fmt.Errorf("database contains a different genesis hash: have %s, expected %s",
				common.BytesToHex(stored), genesisHash)
		}

		return bs, nil
	}

	if err := bs.SetHeader(genesisHeader); err != nil {
		return nil, err
	}

	if err := bs.db.Put(common.GenesisBlockHashKey, genesisHash.ToBytes()); err != nil {
		return nil, err
	}

	if err := bs.db.Put(common.BestBlockHashKey, genesisHash.ToBytes()); err != nil {
		return nil, err
	}

	if err := bs.db.Put(common.FinalizedBlockHashKey, genesisHash.ToBytes()); err != nil {
		return nil, err
	}

	return bs, nil
}

// GenesisHash returns the hash of the genesis block
func (bs *BlockState) GenesisHash() common.Hash {
	return bs.genesisHash
}

// HasHeader returns true if the database contains a header with the given hash
func (bs *BlockState) HasHeader(hash common.Hash) (bool, error) {
	return bs.db.Has(headerKey(hash))
}

// GetHeader returns the header with the given hash
func (bs *BlockState) GetHeader(hash common.Hash) (*types.Header, error) {
	enc, err := bs.db.Get(headerKey(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrHeaderNotFound, hash)
	}

	return types.DecodeHeader(enc)
}

// SetHeader stores the header in the database, keyed by its hash
func (bs *BlockState) SetHeader(header *types.Header) error {
	enc, err := header.Encode()
	if err != nil {
		return err
	}

	return bs.db.Put(headerKey(header.Hash()), enc)
}

// GetBlockBody returns the body of the block with the given hash
func (bs *BlockState) GetBlockBody(hash common.Hash) (types.Body, error) {
	enc, err := bs.db.Get(blockBodyKey(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBodyNotFound, hash)
	}

	return types.DecodeBody(bytes.NewBuffer(enc))
}

// BestBlockHash returns the hash of the head of the current best chain
func (bs *BlockState) BestBlockHash() (common.Hash, error) {
	hash, err := bs.db.Get(common.BestBlockHashKey)
	if err != nil {
		return common.EmptyHash, err
	}

	return common.NewHash(hash), nil
}

// BestBlockHeader returns the header of the head of the current best chain
func (bs *BlockState) BestBlockHeader() (*types.Header, error) {
	hash, err := bs.BestBlockHash()
	if err != nil {
		return nil, err
	}

	return bs.GetHeader(hash)
}

// AddBlock stores the block's header and body and updates the best chain
// using the longest chain rule. The block's parent must already be known,
// unless the block is the genesis block.
func (bs *BlockState) AddBlock(block *types.Block) error {
	bs.Lock()
	defer bs.Unlock()

	hash := block.Header.Hash()

	if hash != bs.genesisHash {
		hasParent, err := bs.HasHeader(block.Header.ParentHash)
		if err != nil {
			return err
		}

		if !hasParent {
			return fmt.Errorf("%w: %s", ErrParentNotFound, block.Header.ParentHash)
		}
	}

	if err := bs.SetHeader(&block.Header); err != nil {
		return err
	}

	enc, err := block.Body.Encode()
	if err != nil {
		return err
	}

	if err := bs.db.Put(blockBodyKey(hash), enc); err != nil {
		return err
	}

	best, err := bs.BestBlockHeader()
	if err != nil {
		return err
	}

	isNewBest := block.Header.Number > best.Number
	if isNewBest {
		if err := bs.db.Put(common.BestBlockHashKey, hash.ToBytes()); err != nil {
			return err
		}
	}

	bs.notifyImported(&types.ImportedBlockInfo{
		Header:    block.Header,
		IsNewBest: isNewBest,
	})

	return nil
}

// IsDescendantOf returns true if descendant is on the chain whose head is
// descendant and whose tail contains ancestor, found by walking parent
// links backwards from descendant.
func (bs *BlockState) IsDescendantOf(ancestor, descendant common.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}

	ancestorHeader, err := bs.GetHeader(ancestor)
	if err != nil {
		return false, err
	}

	current, err := bs.GetHeader(descendant)
	if err != nil {
		return false, err
	}

	for current.Number > ancestorHeader.Number {
		if current.ParentHash == ancestor {
			return true, nil
		}

		current, err = bs.GetHeader(current.ParentHash)
		if err != nil {
			return false, err
		}
	}

	return false, nil
}
