// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"errors"
	"fmt"
	"io"

	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/scale"
)

// Digest represents the block digest. It consists of digest items.
type Digest []DigestItem

// NewDigest returns a new Digest from the given DigestItems
func NewDigest(items ...DigestItem) Digest {
	return items
}

// Encode returns the SCALE encoded digest
func (d *Digest) Encode() ([]byte, error) {
	enc := scale.EncodeCompact(uint64(len(*d)))

	for _, item := range *d {
		encItem, err := item.Encode()
		if err != nil {
			return nil, err
		}

		enc = append(enc, encItem...)
	}

	return enc, nil
}

// Decode decodes a SCALE encoded digest and sets it on the receiver
func (d *Digest) Decode(r io.Reader) error {
	digest, err := DecodeDigest(r)
	if err != nil {
		return err
	}

	*d = digest
	return nil
}

// ConsensusEngineID is a 4-character identifier of the consensus engine that produced the digest.
type ConsensusEngineID [4]byte

// NewConsensusEngineID casts a byte slice to ConsensusEngineID
// if the input is longer than 4 bytes, it takes the first 4 bytes
func NewConsensusEngineID(in []byte) (res ConsensusEngineID) {
	res = [4]byte{}
	copy(res[:], in)
	return res
}

// ToBytes turns ConsensusEngineID to a byte slice
func (h ConsensusEngineID) ToBytes() []byte {
	b := [4]byte(h)
	return b[:]
}

// PreRuntimeDigestType is the byte representation of PreRuntimeDigest
var PreRuntimeDigestType = byte(6)

// ConsensusDigestType is the byte representation of ConsensusDigest
var ConsensusDigestType = byte(4)

// SealDigestType is the byte representation of SealDigest
var SealDigestType = byte(5)

// ErrInvalidDigestItemType is returned when decoding an unknown digest item type byte
var ErrInvalidDigestItemType = errors.New("invalid digest item type")

// DecodeDigest decodes the input into a Digest
func DecodeDigest(r io.Reader) (Digest, error) {
	num, err := scale.DecodeCompact(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode length of digest items: %w", err)
	}

	digest := make([]DigestItem, num)

	for i := 0; i < len(digest); i++ {
		digest[i], err = DecodeDigestItem(r)
		if err != nil {
			return nil, fmt.Errorf("could not decode digest item %d: %w", i, err)
		}
	}

	return digest, nil
}

// DecodeDigestItem will decode bytes from the reader into a DigestItem
func DecodeDigestItem(r io.Reader) (DigestItem, error) {
	typ, err := common.ReadByte(r)
	if err != nil {
		return nil, err
	}

	switch typ {
	case PreRuntimeDigestType:
		d := new(PreRuntimeDigest)
		err := d.Decode(r)
		return d, err
	case ConsensusDigestType:
		d := new(ConsensusDigest)
		err := d.Decode(r)
		return d, err
	case SealDigestType:
		d := new(SealDigest)
		err := d.Decode(r)
		return d, err
	}

	return nil, ErrInvalidDigestItemType
}

// DigestItem can be one of PreRuntimeDigest, ConsensusDigest or SealDigest.
type DigestItem interface {
	String() string
	Type() byte
	Encode() ([]byte, error)
	Decode(io.Reader) error // Decode assumes the type byte (first byte) has been removed from the encoding.
}

// PreRuntimeDigest contains messages from the consensus engine to the runtime.
type PreRuntimeDigest struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// String returns the digest as a string
func (d *PreRuntimeDigest) String() string {
	return fmt.Sprintf("PreRuntimeDigest ConsensusEngineID=%s Data=0x%x", d.ConsensusEngineID.ToBytes(), d.Data)
}

// Type returns PreRuntimeDigestType
func (d *PreRuntimeDigest) Type() byte {
	return PreRuntimeDigestType
}

// Encode will encode PreRuntimeDigest ConsensusEngineID and Data
func (d *PreRuntimeDigest) Encode() ([]byte, error) {
	enc := []byte{PreRuntimeDigestType}
	enc = append(enc, d.ConsensusEngineID[:]...)
	return append(enc, scale.EncodeBytes(d.Data)...), nil
}

// Decode will decode PreRuntimeDigest ConsensusEngineID and Data
func (d *PreRuntimeDigest) Decode(r io.Reader) error {
	id, err := common.Read4Bytes(r)
	if err != nil {
		return err
	}

	copy(d.ConsensusEngineID[:], id)

	d.Data, err = scale.DecodeBytes(r)
	return err
}

// ConsensusDigest contains messages from the runtime to the consensus engine.
type ConsensusDigest struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// String returns the digest as a string
func (d *ConsensusDigest) String() string {
	return fmt.Sprintf("ConsensusDigest ConsensusEngineID=%s Data=0x%x", d.ConsensusEngineID.ToBytes(), d.Data)
}

// Type returns ConsensusDigestType
func (d *ConsensusDigest) Type() byte {
	return ConsensusDigestType
}

// Encode will encode ConsensusDigest ConsensusEngineID and Data
func (d *ConsensusDigest) Encode() ([]byte, error) {
	enc := []byte{ConsensusDigestType}
	enc = append(enc, d.ConsensusEngineID[:]...)
	return append(enc, scale.EncodeBytes(d.Data)...), nil
}

// Decode will decode ConsensusDigest ConsensusEngineID and Data
func (d *ConsensusDigest) Decode(r io.Reader) error {
	id, err := common.Read4Bytes(r)
	if err != nil {
		return err
	}

	copy(d.ConsensusEngineID[:], id)

	d.Data, err = scale.DecodeBytes(r)
	return err
}

// SealDigest contains the seal or signature. This is only used by native code.
type SealDigest struct {
	ConsensusEngineID ConsensusEngineID
	Data              []byte
}

// String returns the digest as a string
func (d *SealDigest) String() string {
	return fmt.Sprintf("SealDigest ConsensusEngineID=%s Data=0x%x", d.ConsensusEngineID.ToBytes(), d.Data)
}

// Type returns SealDigest type
func (d *SealDigest) Type() byte {
	return SealDigestType
}

// Encode will encode SealDigest ConsensusEngineID and Data
func (d *SealDigest) Encode() ([]byte, error) {
	enc := []byte{SealDigestType}
	enc = append(enc, d.ConsensusEngineID[:]...)
	return append(enc, scale.EncodeBytes(d.Data)...), nil
}

// Decode will decode SealDigest ConsensusEngineID and Data
func (d *SealDigest) Decode(r io.Reader) error {
	id, err := common.Read4Bytes(r)
	if err != nil {
		return err
	}

	copy(d.ConsensusEngineID[:], id)

	d.Data, err = scale.DecodeBytes(r)
	return err
}
