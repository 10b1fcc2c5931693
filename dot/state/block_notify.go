// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package state

import (
	"github.com/ChainSafe/singleton/dot/types"
)

const defaultBufferSize = 128

// GetImportedBlockNotifierChannel function to retrieve an imported block notifier channel
func (bs *BlockState) GetImportedBlockNotifierChannel() chan *types.ImportedBlockInfo {
	bs.importedLock.Lock()
	defer bs.importedLock.Unlock()

	ch := make(chan *types.ImportedBlockInfo, defaultBufferSize)
	bs.imported[ch] = struct{}{}
	return ch
}

// FreeImportedBlockNotifierChannel to free an imported block notifier channel
func (bs *BlockState) FreeImportedBlockNotifierChannel(ch chan *types.ImportedBlockInfo) {
	bs.importedLock.Lock()
	defer bs.importedLock.Unlock()
	delete(bs.imported, ch)
}

// GetFinalisedNotifierChannel function to retrieve a finalised block notifier channel
func (bs *BlockState) GetFinalisedNotifierChannel() chan *types.FinalisationInfo {
	bs.finalisedLock.Lock()
	defer bs.finalisedLock.Unlock()

	ch := make(chan *types.FinalisationInfo, defaultBufferSize)
	bs.finalised[ch] = struct{}{}
	return ch
}

// FreeFinalisedNotifierChannel to free a finalised block notifier channel
func (bs *BlockState) FreeFinalisedNotifierChannel(ch chan *types.FinalisationInfo) {
	bs.finalisedLock.Lock()
	defer bs.finalisedLock.Unlock()
	delete(bs.finalised, ch)
}

func (bs *BlockState) notifyImported(info *types.ImportedBlockInfo) {
	bs.importedLock.RLock()
	defer bs.importedLock.RUnlock()

	if len(bs.imported) == 0 {
		return
	}

	logger.Trace("notifying imported block channels...", "hash", info.Header.Hash())
	for ch := range bs.imported {
		go func(ch chan *types.ImportedBlockInfo) {
			select {
			case ch <- info:
			default:
			}
		}(ch)
	}
}

func (bs *BlockState) notifyFinalised(info *types.FinalisationInfo) {
	bs.finalisedLock.RLock()
	defer bs.finalisedLock.RUnlock()

	if len(bs.finalised) == 0 {
		return
	}

	logger.Trace("notifying finalised block channels...", "hash", info.Header.Hash())
	for ch := range bs.finalised {
		go func(ch chan *types.FinalisationInfo) {
			select {
			case ch <- info:
			default:
			}
		}(ch)
	}
}
