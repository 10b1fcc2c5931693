// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"context"
	"fmt"
	"time"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

const (
	// AuthorshipInterval is the wall-clock spacing between authoring attempts
	AuthorshipInterval = 3 * time.Second
	// ProposalTimeBudget bounds how long a single proposal may take
	ProposalTimeBudget = time.Second
)

// BlockAuthorConfig holds the dependencies of a BlockAuthor
type BlockAuthorConfig struct {
	Keypair         *sr25519.Keypair
	BlockState      BlockState
	ProposerFactory ProposerFactory
	BlockImport     BlockImport
	Syncer          Syncer
}

// BlockAuthor authors a sealed block on top of the best block at a fixed
// interval and imports it through the block import pipeline.
type BlockAuthor struct {
	ctx    context.Context
	cancel context.CancelFunc

	keypair         *sr25519.Keypair
	blockState      BlockState
	proposerFactory ProposerFactory
	blockImport     BlockImport
	syncer          Syncer
}

// NewBlockAuthor returns a BlockAuthor from the given config
func NewBlockAuthor(cfg *BlockAuthorConfig) (*BlockAuthor, error) {
	if cfg.Keypair == nil {
		return nil, errNilKeypair
	}
	if cfg.BlockState == nil {
		return nil, errNilBlockState
	}
	if cfg.ProposerFactory == nil {
		return nil, errNilProposerFactory
	}
	if cfg.BlockImport == nil {
		return nil, errNilBlockImport
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &BlockAuthor{
		ctx:             ctx,
		cancel:          cancel,
		keypair:         cfg.Keypair,
		blockState:      cfg.BlockState,
		proposerFactory: cfg.ProposerFactory,
		blockImport:     cfg.BlockImport,
		syncer:          cfg.Syncer,
	}, nil
}

// Start begins the authoring loop
func (b *BlockAuthor) Start() error {
	go b.run()
	return nil
}

// Stop stops the authoring loop
func (b *BlockAuthor) Stop() error {
	b.cancel()
	return nil
}

func (b *BlockAuthor) run() {
	ticker := time.NewTicker(AuthorshipInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			return
		case <-ticker.C:
			if err := b.handleTick(); err != nil {
				logger.Warn("failed to author block", "error", err)
			}
		}
	}
}

func (b *BlockAuthor) handleTick() error {
	if b.syncer != nil && b.syncer.IsMajorSyncing() {
		logger.Debug("skipping proposal, node is majorly syncing")
		return nil
	}

	parent, err := b.blockState.BestBlockHeader()
	if err != nil {
		return fmt.Errorf("getting best block header: %w", err)
	}

	proposer, err := b.proposerFactory.InitProposer(parent)
	if err != nil {
		return fmt.Errorf("initialising proposer: %w", err)
	}

	proposal, err := proposer.Propose(nil, nil, ProposalTimeBudget, false)
	if err != nil {
		return fmt.Errorf("proposing block: %w", err)
	}

	header := proposal.Header
	postHash, sealDigest, err := b.sealHeader(header)
	if err != nil {
		return fmt.Errorf("sealing block: %w", err)
	}

	params := NewBlockImportParams(BlockOriginOwn, header)
	params.PostDigests = []types.DigestItem{sealDigest}
	params.PostHash = postHash
	params.Body = proposal.Body
	params.StorageChanges = proposal.StorageChanges

	if err := b.blockImport.ImportBlock(params); err != nil {
		return fmt.Errorf("importing authored block: %w", err)
	}

	logger.Info("authored block", "number", header.Number, "hash", postHash)
	return nil
}

// sealHeader signs the header's pre-seal hash, appends the seal digest to
// compute the post-seal hash, then pops it again so the header stays
// unsealed for import.
func (b *BlockAuthor) sealHeader(header *types.Header) (common.Hash, *types.SealDigest, error) {
	preHash := header.Hash()

	sig, err := b.keypair.Sign(preHash.ToBytes())
	if err != nil {
		return common.Hash{}, nil, fmt.Errorf("signing pre-seal hash: %w", err)
	}

	seal, err := NewSeal(sig)
	if err != nil {
		return common.Hash{}, nil, err
	}

	sealDigest := seal.ToDigest()
	header.Digest = append(header.Digest, sealDigest)
	postHash := header.Hash()
	header.Digest = header.Digest[:len(header.Digest)-1]

	return postHash, sealDigest, nil
}
