// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"fmt"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

// Verifier checks that a header's seal is a valid block authority
// signature over the header's pre-seal hash.
type Verifier struct {
	authority *sr25519.PublicKey
}

// NewVerifier returns a Verifier for the given block authority
func NewVerifier(authority *sr25519.PublicKey) (*Verifier, error) {
	if authority == nil {
		return nil, errNilBlockAuthority
	}

	return &Verifier{
		authority: authority,
	}, nil
}

// checkHeader pops the seal digest off the header and verifies it against
// the remaining header's hash. On success the header is left unsealed and
// the recovered seal is returned. If the seal carries a foreign engine id
// the digest is left untouched.
func (v *Verifier) checkHeader(header *types.Header) (*Seal, error) {
	if len(header.Digest) == 0 {
		return nil, ErrUnsealedHeader
	}

	item := header.Digest[len(header.Digest)-1]
	sealDigest, ok := item.(*types.SealDigest)
	if !ok {
		return nil, ErrUnsealedHeader
	}

	if sealDigest.ConsensusEngineID != EngineID {
		return nil, fmt.Errorf("%w: %s", ErrWrongEngineSeal, sealDigest.ConsensusEngineID.ToBytes())
	}

	seal := new(Seal)
	if err := seal.Decode(sealDigest.Data); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSealEncoding, err)
	}

	header.Digest = header.Digest[:len(header.Digest)-1]

	preHash := header.Hash()
	ok, err := v.authority.Verify(preHash.ToBytes(), seal.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSealSignature, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: block %s", ErrInvalidSealSignature, preHash)
	}

	return seal, nil
}

// VerifyBlock verifies the sealed header and returns import params carrying
// the unsealed header, the seal as a post-digest and the post-seal hash.
func (v *Verifier) VerifyBlock(origin BlockOrigin, header *types.Header,
	body types.Body, justification []byte) (*BlockImportParams, error) {
	postHash := header.Hash()

	seal, err := v.checkHeader(header)
	if err != nil {
		return nil, err
	}

	params := NewBlockImportParams(origin, header)
	params.PostDigests = []types.DigestItem{seal.ToDigest()}
	params.PostHash = postHash
	params.Body = body
	params.Justification = justification
	return params, nil
}
