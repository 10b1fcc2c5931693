// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"time"

	"github.com/ChainSafe/singleton/dot/network"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"

	"github.com/libp2p/go-libp2p-core/peer"
)

// BlockState is the chain database view the protocol needs
type BlockState interface {
	BestBlockHeader() (*types.Header, error)
	SetFinalisedHash(hash common.Hash, justification []byte) error
	GetImportedBlockNotifierChannel() chan *types.ImportedBlockInfo
	FreeImportedBlockNotifierChannel(ch chan *types.ImportedBlockInfo)
}

// BlockImport commits checked blocks to the chain
type BlockImport interface {
	ImportBlock(params *BlockImportParams) error
	CheckBlock(params *BlockCheckParams) error
}

// Proposal is a candidate block built by a Proposer, before sealing
type Proposal struct {
	Header         *types.Header
	Body           types.Body
	StorageChanges []byte
}

// Proposer builds a single candidate block on the parent it was
// initialised with
type Proposer interface {
	Propose(inherentData []byte, inherentDigest types.Digest,
		timeBudget time.Duration, recordProof bool) (*Proposal, error)
}

// ProposerFactory creates a Proposer for a given parent header
type ProposerFactory interface {
	InitProposer(parent *types.Header) (Proposer, error)
}

// Syncer reports whether the node is catching up with the chain
type Syncer interface {
	IsMajorSyncing() bool
}

// Network is the gossip surface used by the finality gadget
type Network interface {
	Flood(topic common.Hash, msg *network.ConsensusMessage, force bool)
	Subscribe(topic common.Hash) <-chan *network.TopicNotification
}

// GossipValidator filters inbound topic messages before they are handled.
// A quorum protocol would put its message admission rules here.
type GossipValidator interface {
	Validate(from peer.ID, msg *network.ConsensusMessage) bool
}

// AcceptAllValidator admits every message; verification of the contained
// justification happens in the handler.
type AcceptAllValidator struct{}

// Validate implements GossipValidator
func (AcceptAllValidator) Validate(_ peer.ID, _ *network.ConsensusMessage) bool {
	return true
}
