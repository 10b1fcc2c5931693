// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"fmt"

	"github.com/ChainSafe/singleton/dot/types"
)

// ImportQueue verifies incoming blocks and hands them to the block import
type ImportQueue struct {
	verifier    *Verifier
	blockImport BlockImport
}

// NewImportQueue returns an ImportQueue using the given verifier and import
func NewImportQueue(verifier *Verifier, blockImport BlockImport) (*ImportQueue, error) {
	if verifier == nil {
		return nil, errNilVerifier
	}
	if blockImport == nil {
		return nil, errNilBlockImport
	}

	return &ImportQueue{
		verifier:    verifier,
		blockImport: blockImport,
	}, nil
}

// ProcessBlock verifies the sealed block and imports it
func (q *ImportQueue) ProcessBlock(origin BlockOrigin, block *types.Block,
	justification []byte) error {
	params, err := q.verifier.VerifyBlock(origin, &block.Header, block.Body, justification)
	if err != nil {
		return fmt.Errorf("verifying block: %w", err)
	}

	return q.blockImport.ImportBlock(params)
}
