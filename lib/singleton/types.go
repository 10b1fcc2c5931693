// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"fmt"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

// Seal is a block authority signature over the blake2b hash of the header
// it seals, computed with the seal digest itself removed. It travels as the
// last digest item of a sealed header.
type Seal struct {
	Signature [sr25519.SignatureLength]byte
}

// NewSeal returns a Seal from the given signature bytes
func NewSeal(sig []byte) (*Seal, error) {
	if len(sig) != sr25519.SignatureLength {
		return nil, fmt.Errorf("seal must be %d bytes, got %d", sr25519.SignatureLength, len(sig))
	}

	seal := new(Seal)
	copy(seal.Signature[:], sig)
	return seal, nil
}

// Encode returns the fixed-length encoding of the seal
func (s *Seal) Encode() []byte {
	return s.Signature[:]
}

// Decode decodes the fixed-length signature encoding into the seal
func (s *Seal) Decode(in []byte) error {
	if len(in) != sr25519.SignatureLength {
		return fmt.Errorf("seal must be %d bytes, got %d", sr25519.SignatureLength, len(in))
	}

	copy(s.Signature[:], in)
	return nil
}

// ToDigest returns the seal as a protocol-tagged digest item
func (s *Seal) ToDigest() *types.SealDigest {
	return &types.SealDigest{
		ConsensusEngineID: EngineID,
		Data:              s.Encode(),
	}
}

// FinalityJustification is a finality authority signature over a block's
// post-seal hash. It travels in gossiped finality messages and, once
// accepted, is persisted alongside the finalised block.
type FinalityJustification struct {
	Signature [sr25519.SignatureLength]byte
}

// NewFinalityJustification returns a FinalityJustification from the given signature bytes
func NewFinalityJustification(sig []byte) (*FinalityJustification, error) {
	if len(sig) != sr25519.SignatureLength {
		return nil, fmt.Errorf("justification must be %d bytes, got %d", sr25519.SignatureLength, len(sig))
	}

	justification := new(FinalityJustification)
	copy(justification.Signature[:], sig)
	return justification, nil
}

// Encode returns the fixed-length encoding of the justification
func (j *FinalityJustification) Encode() []byte {
	return j.Signature[:]
}

// Decode decodes the fixed-length signature encoding into the justification
func (j *FinalityJustification) Decode(in []byte) error {
	if len(in) != sr25519.SignatureLength {
		return fmt.Errorf("justification must be %d bytes, got %d", sr25519.SignatureLength, len(in))
	}

	copy(j.Signature[:], in)
	return nil
}

// BlockOrigin describes where an imported block came from
type BlockOrigin byte

const (
	// BlockOriginOwn is a block authored by this node
	BlockOriginOwn BlockOrigin = iota
	// BlockOriginNetworkBroadcast is a block received via gossip
	BlockOriginNetworkBroadcast
	// BlockOriginNetworkInitialSync is a block received while syncing
	BlockOriginNetworkInitialSync
)

// String returns the origin as a string
func (o BlockOrigin) String() string {
	switch o {
	case BlockOriginOwn:
		return "Own"
	case BlockOriginNetworkBroadcast:
		return "NetworkBroadcast"
	case BlockOriginNetworkInitialSync:
		return "NetworkInitialSync"
	default:
		return "Unknown"
	}
}

// ForkChoiceStrategy is the rule used to pick the canonical chain among
// competing extensions.
type ForkChoiceStrategy byte

// ForkChoiceLongestChain prefers the chain with the most blocks. With a
// single honest authority competing extensions of the same length cannot
// occur, so no weight comparison is needed.
const ForkChoiceLongestChain ForkChoiceStrategy = iota

// BlockImportParams is a request to commit a verified block. The header is
// unsealed; the recovered seal rides along as a post-digest so the importer
// can re-attach it, and PostHash is the hash of the sealed header.
type BlockImportParams struct {
	Origin         BlockOrigin
	Header         *types.Header
	PostDigests    []types.DigestItem
	PostHash       common.Hash
	Justification  []byte
	Body           types.Body
	StorageChanges []byte
	Finalized      bool
	ForkChoice     ForkChoiceStrategy
}

// NewBlockImportParams returns BlockImportParams for the given origin and unsealed header
func NewBlockImportParams(origin BlockOrigin, header *types.Header) *BlockImportParams {
	return &BlockImportParams{
		Origin:     origin,
		Header:     header,
		ForkChoice: ForkChoiceLongestChain,
	}
}

// BlockCheckParams is a request to check block availability before import
type BlockCheckParams struct {
	Hash       common.Hash
	ParentHash common.Hash
	Number     uint
}
