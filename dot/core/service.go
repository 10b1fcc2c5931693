// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package core commits verified blocks to the chain database. It sits
// beneath the consensus import pipeline and is the import pipeline's
// terminal stage.
package core

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/singleton/dot/state"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/singleton"

	log "github.com/ChainSafe/log15"
)

var logger = log.New("pkg", "core")

var (
	// ErrNilBlockState is returned when the service is created without a block state
	ErrNilBlockState = errors.New("block state is nil")
	// ErrUnknownParent is returned by CheckBlock when the parent is missing
	ErrUnknownParent = errors.New("parent block is unknown")
)

// Service is the chain-level block import. It stores blocks under their
// post-seal hash and finalises blocks whose import carries a verified
// justification.
type Service struct {
	blockState *state.BlockState
}

// NewService returns a core service over the given block state
func NewService(blockState *state.BlockState) (*Service, error) {
	if blockState == nil {
		return nil, ErrNilBlockState
	}

	return &Service{
		blockState: blockState,
	}, nil
}

// ImportBlock commits the block to the chain database. The post-digests
// recovered during verification are re-attached first, so the stored
// header hashes to params.PostHash.
func (s *Service) ImportBlock(params *singleton.BlockImportParams) error {
	header := params.Header.DeepCopy()
	header.Digest = append(header.Digest, params.PostDigests...)

	block := &types.Block{
		Header: *header,
		Body:   params.Body,
	}

	if err := s.blockState.AddBlock(block); err != nil {
		return fmt.Errorf("adding block to chain: %w", err)
	}

	logger.Debug("imported block", "origin", params.Origin,
		"number", header.Number, "hash", params.PostHash)

	if params.Finalized {
		if err := s.blockState.SetFinalisedHash(params.PostHash, params.Justification); err != nil {
			return fmt.Errorf("finalising imported block: %w", err)
		}
	}

	return nil
}

// CheckBlock reports whether the block can be imported. It succeeds for
// already known blocks and fails when the parent is missing.
func (s *Service) CheckBlock(params *singleton.BlockCheckParams) error {
	has, err := s.blockState.HasHeader(params.Hash)
	if err != nil {
		return fmt.Errorf("checking for block %s: %w", params.Hash, err)
	}
	if has {
		return nil
	}

	hasParent, err := s.blockState.HasHeader(params.ParentHash)
	if err != nil {
		return fmt.Errorf("checking for parent %s: %w", params.ParentHash, err)
	}
	if !hasParent {
		return fmt.Errorf("%w: %s", ErrUnknownParent, params.ParentHash)
	}

	return nil
}
