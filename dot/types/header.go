// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/scale"
)

// Header is a state block header
type Header struct {
	ParentHash     common.Hash
	Number         uint
	StateRoot      common.Hash
	ExtrinsicsRoot common.Hash
	Digest         Digest
}

// NewHeader creates a new block header
func NewHeader(parentHash, stateRoot, extrinsicsRoot common.Hash, number uint, digest Digest) *Header {
	return &Header{
		ParentHash:     parentHash,
		Number:         number,
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		Digest:         digest,
	}
}

// NewEmptyHeader returns a new header with all zero values
func NewEmptyHeader() *Header {
	return &Header{
		Digest: Digest{},
	}
}

// DeepCopy returns a deep copy of the header to prevent side effects down the road
func (bh *Header) DeepCopy() *Header {
	cp := NewEmptyHeader()
	copy(cp.ParentHash[:], bh.ParentHash[:])
	copy(cp.StateRoot[:], bh.StateRoot[:])
	copy(cp.ExtrinsicsRoot[:], bh.ExtrinsicsRoot[:])
	cp.Number = bh.Number

	if len(bh.Digest) > 0 {
		cp.Digest = make(Digest, len(bh.Digest))
		copy(cp.Digest, bh.Digest)
	}

	return cp
}

// String returns the formatted header as a string
func (bh *Header) String() string {
	return fmt.Sprintf("ParentHash=%s Number=%d StateRoot=%s ExtrinsicsRoot=%s Digest=%v Hash=%s",
		bh.ParentHash, bh.Number, bh.StateRoot, bh.ExtrinsicsRoot, bh.Digest, bh.Hash())
}

// Hash returns the blake2b hash of the SCALE encoded header.
// The hash is recomputed on every call since the digest may have been
// modified since the last one; callers pop and re-append seal digests.
func (bh *Header) Hash() common.Hash {
	return common.MustBlake2bHash(bh.MustEncode())
}

// Encode returns the SCALE encoding of the header
func (bh *Header) Encode() ([]byte, error) {
	enc := append([]byte{}, bh.ParentHash[:]...)
	enc = append(enc, scale.EncodeCompact(uint64(bh.Number))...)
	enc = append(enc, bh.StateRoot[:]...)
	enc = append(enc, bh.ExtrinsicsRoot[:]...)

	d, err := bh.Digest.Encode()
	if err != nil {
		return nil, err
	}

	return append(enc, d...), nil
}

// MustEncode returns the SCALE encoded header and panics if it fails to encode
func (bh *Header) MustEncode() []byte {
	enc, err := bh.Encode()
	if err != nil {
		panic(err)
	}
	return enc
}

// Decode decodes the SCALE encoded input into this header
func (bh *Header) Decode(r io.Reader) (*Header, error) {
	ph, err := common.ReadHash(r)
	if err != nil {
		return nil, err
	}

	num, err := scale.DecodeCompact(r)
	if err != nil {
		return nil, err
	}

	sr, err := common.ReadHash(r)
	if err != nil {
		return nil, err
	}

	er, err := common.ReadHash(r)
	if err != nil {
		return nil, err
	}

	d, err := DecodeDigest(r)
	if err != nil {
		return nil, err
	}

	bh.ParentHash = ph
	bh.Number = uint(num)
	bh.StateRoot = sr
	bh.ExtrinsicsRoot = er
	bh.Digest = d
	return bh, nil
}

// DecodeHeader decodes a SCALE encoded header
func DecodeHeader(in []byte) (*Header, error) {
	return NewEmptyHeader().Decode(bytes.NewBuffer(in))
}
