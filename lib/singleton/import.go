// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"fmt"

	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

// SingletonBlockImport decorates an inner BlockImport: before a block is
// committed, an attached justification is checked against the finality
// authority and, when valid, the block is marked for finalisation. An
// absent or undecodable justification never fails the import.
type SingletonBlockImport struct {
	inner             BlockImport
	finalityAuthority *sr25519.PublicKey
}

// NewSingletonBlockImport returns a block import wrapping inner
func NewSingletonBlockImport(inner BlockImport,
	finalityAuthority *sr25519.PublicKey) (*SingletonBlockImport, error) {
	if inner == nil {
		return nil, errNilBlockImport
	}
	if finalityAuthority == nil {
		return nil, errNilFinalityAuthority
	}

	return &SingletonBlockImport{
		inner:             inner,
		finalityAuthority: finalityAuthority,
	}, nil
}

// checkJustification validates the attached justification, if any, against
// the block's post-seal hash. A valid justification is re-encoded into its
// canonical form and the params marked Finalized.
func (bi *SingletonBlockImport) checkJustification(params *BlockImportParams) {
	if params.Justification == nil {
		return
	}

	justification := new(FinalityJustification)
	if err := justification.Decode(params.Justification); err != nil {
		logger.Debug("dropping undecodable justification", "block", params.PostHash, "error", err)
		params.Justification = nil
		return
	}

	ok, err := bi.finalityAuthority.Verify(params.PostHash.ToBytes(), justification.Encode())
	if err != nil || !ok {
		logger.Warn("dropping invalid justification", "block", params.PostHash, "error", err)
		params.Justification = nil
		return
	}

	params.Justification = justification.Encode()
	params.Finalized = true
}

// ImportBlock checks any attached justification, then commits the block
// through the inner import
func (bi *SingletonBlockImport) ImportBlock(params *BlockImportParams) error {
	bi.checkJustification(params)

	if err := bi.inner.ImportBlock(params); err != nil {
		return fmt.Errorf("importing block %s: %w", params.PostHash, err)
	}

	return nil
}

// CheckBlock delegates to the inner import
func (bi *SingletonBlockImport) CheckBlock(params *BlockCheckParams) error {
	return bi.inner.CheckBlock(params)
}
