// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"
	"io"

	"github.com/ChainSafe/singleton/lib/scale"
)

// Extrinsic is a generic transaction whose format is verified in the runtime
type Extrinsic []byte

// Body is the block body, a list of extrinsics
type Body []Extrinsic

// Block defines a state block
type Block struct {
	Header Header
	Body   Body
}

// NewBlock returns a new Block
func NewBlock(header Header, body Body) Block {
	return Block{
		Header: header,
		Body:   body,
	}
}

// String returns the formatted block as a string
func (b *Block) String() string {
	return fmt.Sprintf("header: %v\nbody: %v", &b.Header, b.Body)
}

// Encode returns the SCALE encoding of the body
func (b *Body) Encode() ([]byte, error) {
	enc := scale.EncodeCompact(uint64(len(*b)))
	for _, ext := range *b {
		enc = append(enc, scale.EncodeBytes(ext)...)
	}

	return enc, nil
}

// DecodeBody decodes a SCALE encoded body from the reader
func DecodeBody(r io.Reader) (Body, error) {
	num, err := scale.DecodeCompact(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode body length: %w", err)
	}

	body := make(Body, num)
	for i := 0; i < int(num); i++ {
		ext, err := scale.DecodeBytes(r)
		if err != nil {
			return nil, fmt.Errorf("could not decode extrinsic %d: %w", i, err)
		}

		body[i] = ext
	}

	return body, nil
}

// ImportedBlockInfo is sent to imported-block subscribers on every block
// committed to the block state.
type ImportedBlockInfo struct {
	Header    Header
	IsNewBest bool
}

// FinalisationInfo is sent to finalised-block subscribers whenever the
// finalised head advances.
type FinalisationInfo struct {
	Header Header
}
