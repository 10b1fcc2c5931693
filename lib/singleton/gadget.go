// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"context"
	"fmt"

	"github.com/ChainSafe/singleton/dot/network"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

// FinalityGadgetConfig holds the dependencies of a FinalityGadget.
// Keypair is nil unless this node is the finality authority.
type FinalityGadgetConfig struct {
	Keypair           *sr25519.Keypair
	FinalityAuthority *sr25519.PublicKey
	BlockState        BlockState
	Network           Network
	Validator         GossipValidator
}

// FinalityGadget finalises blocks from gossiped justifications. When run
// with the finality authority's keypair it also attests every new best
// block it sees imported and gossips the justification.
type FinalityGadget struct {
	ctx    context.Context
	cancel context.CancelFunc

	keypair           *sr25519.Keypair
	finalityAuthority *sr25519.PublicKey
	blockState        BlockState
	network           Network
	validator         GossipValidator
}

// NewFinalityGadget returns a FinalityGadget from the given config
func NewFinalityGadget(cfg *FinalityGadgetConfig) (*FinalityGadget, error) {
	if cfg.FinalityAuthority == nil {
		return nil, errNilFinalityAuthority
	}
	if cfg.BlockState == nil {
		return nil, errNilBlockState
	}
	if cfg.Network == nil {
		return nil, errNilNetwork
	}

	validator := cfg.Validator
	if validator == nil {
		validator = AcceptAllValidator{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FinalityGadget{
		ctx:               ctx,
		cancel:            cancel,
		keypair:           cfg.Keypair,
		finalityAuthority: cfg.FinalityAuthority,
		blockState:        cfg.BlockState,
		network:           cfg.Network,
		validator:         validator,
	}, nil
}

// Start begins the gadget's message loop
func (f *FinalityGadget) Start() error {
	go f.run()
	return nil
}

// Stop stops the gadget
func (f *FinalityGadget) Stop() error {
	f.cancel()
	return nil
}

func (f *FinalityGadget) run() {
	inbound := f.network.Subscribe(FinalityTopic())

	var importedCh chan *types.ImportedBlockInfo
	if f.keypair != nil {
		importedCh = f.blockState.GetImportedBlockNotifierChannel()
		defer f.blockState.FreeImportedBlockNotifierChannel(importedCh)
	}

	for {
		select {
		case <-f.ctx.Done():
			return
		case notification := <-inbound:
			if notification == nil {
				continue
			}
			if !f.validator.Validate(notification.Sender, notification.Message) {
				continue
			}
			if err := f.handleFinalityMessage(notification.Message); err != nil {
				logger.Warn("failed to handle finality message", "error", err)
			}
		case info := <-importedCh:
			if info == nil || !info.IsNewBest {
				continue
			}
			if err := f.attest(&info.Header); err != nil {
				logger.Warn("failed to attest block", "error", err)
			}
		}
	}
}

// handleFinalityMessage verifies a gossiped justification against the
// finality authority and finalises the named block
func (f *FinalityGadget) handleFinalityMessage(cm *network.ConsensusMessage) error {
	msg, err := decodeFinalityMessage(cm)
	if err != nil {
		return err
	}

	ok, err := f.finalityAuthority.Verify(msg.Hash.ToBytes(), msg.Justification.Encode())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJustification, err)
	}
	if !ok {
		return fmt.Errorf("%w: block %s", ErrInvalidJustification, msg.Hash)
	}

	return f.blockState.SetFinalisedHash(msg.Hash, msg.Justification.Encode())
}

// attest signs the header's hash, gossips the justification and finalises
// the block locally
func (f *FinalityGadget) attest(header *types.Header) error {
	hash := header.Hash()

	sig, err := f.keypair.Sign(hash.ToBytes())
	if err != nil {
		return fmt.Errorf("signing block hash: %w", err)
	}

	justification, err := NewFinalityJustification(sig)
	if err != nil {
		return err
	}

	msg := &FinalityMessage{
		Hash:          hash,
		Justification: *justification,
	}

	f.network.Flood(FinalityTopic(), msg.ToConsensusMessage(), true)

	if err := f.blockState.SetFinalisedHash(hash, justification.Encode()); err != nil {
		return fmt.Errorf("finalising attested block: %w", err)
	}

	logger.Info("attested finality", "number", header.Number, "hash", hash)
	return nil
}
