// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package authorship builds candidate blocks for the block author. The
// basic proposer produces empty-body blocks; a runtime-backed proposer
// would pull extrinsics from a transaction pool here.
package authorship

import (
	"errors"
	"time"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/singleton"
)

var errNilParentHeader = errors.New("parent header is nil")

// BasicProposerFactory creates proposers that build empty blocks on the
// given parent
type BasicProposerFactory struct{}

// NewBasicProposerFactory returns a BasicProposerFactory
func NewBasicProposerFactory() *BasicProposerFactory {
	return &BasicProposerFactory{}
}

// InitProposer implements singleton.ProposerFactory
func (f *BasicProposerFactory) InitProposer(parent *types.Header) (singleton.Proposer, error) {
	if parent == nil {
		return nil, errNilParentHeader
	}

	return &basicProposer{
		parent: parent,
	}, nil
}

type basicProposer struct {
	parent *types.Header
}

// Propose builds an empty block extending the proposer's parent
func (p *basicProposer) Propose(_ []byte, inherentDigest types.Digest,
	_ time.Duration, _ bool) (*singleton.Proposal, error) {
	header := types.NewHeader(p.parent.Hash(), common.Hash{}, common.Hash{},
		p.parent.Number+1, inherentDigest)

	return &singleton.Proposal{
		Header: header,
		Body:   types.Body{},
	}, nil
}
