// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"fmt"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
)

// GetHighestFinalisedHash returns the hash of the latest finalised block
func (bs *BlockState) GetHighestFinalisedHash() (common.Hash, error) {
	hash, err := bs.db.Get(common.FinalizedBlockHashKey)
	if err != nil {
		return common.EmptyHash, err
	}

	return common.NewHash(hash), nil
}

// GetHighestFinalisedHeader returns the header of the latest finalised block
func (bs *BlockState) GetHighestFinalisedHeader() (*types.Header, error) {
	hash, err := bs.GetHighestFinalisedHash()
	if err != nil {
		return nil, err
	}

	return bs.GetHeader(hash)
}

// GetJustification returns the stored justification for the block with the given hash
func (bs *BlockState) GetJustification(hash common.Hash) ([]byte, error) {
	just, err := bs.db.Get(justificationKey(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrJustificationNotFound, hash)
	}

	return just, nil
}

// SetFinalisedHash marks the block with the given hash as finalised and
// persists its justification. Finalisation never regresses: if the block
// is already finalised, or is not a descendant of the current finalised
// head, the call is a no-op rather than an error. Callers may therefore
// finalise the same hash any number of times, eg. once locally when
// attesting and again when the attestation arrives back over gossip.
func (bs *BlockState) SetFinalisedHash(hash common.Hash, justification []byte) error {
	bs.Lock()
	defer bs.Unlock()

	header, err := bs.GetHeader(hash)
	if err != nil {
		return err
	}

	current, err := bs.GetHighestFinalisedHash()
	if err != nil {
		return err
	}

	if hash == current {
		return nil
	}

	currentHeader, err := bs.GetHeader(current)
	if err != nil {
		return err
	}

	if header.Number <= currentHeader.Number {
		// already finalised, or on a pruned fork at or below the
		// finalised head; finalisation must never move backwards
		logger.Debug("not finalising block at or below the finalised head",
			"hash", hash, "number", header.Number, "finalised number", currentHeader.Number)
		return nil
	}

	isDescendant, err := bs.IsDescendantOf(current, hash)
	if err != nil {
		return err
	}

	if !isDescendant {
		logger.Debug("not finalising block, not a descendant of the finalised head",
			"hash", hash, "finalised", current)
		return nil
	}

	if justification != nil {
		if err := bs.db.Put(justificationKey(hash), justification); err != nil {
			return err
		}
	}

	if err := bs.db.Put(common.FinalizedBlockHashKey, hash.ToBytes()); err != nil {
		return err
	}

	logger.Info("finalised block", "hash", hash, "number", header.Number)
	bs.notifyFinalised(&types.FinalisationInfo{Header: *header})
	return nil
}
