// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package scale implements the SCALE primitives this protocol puts on the
// wire: compact-encoded unsigned integers and length-prefixed byte slices.
package scale

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCompactOverflow is returned when decoding a compact integer larger than 64 bits
var ErrCompactOverflow = errors.New("compact integer overflows uint64")

// EncodeCompact returns the SCALE compact encoding of n
func EncodeCompact(n uint64) []byte {
	switch {
	case n < 1<<6:
		return []byte{byte(n) << 2}
	case n < 1<<14:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n)<<2|0b01)
		return buf
	case n < 1<<30:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n)<<2|0b10)
		return buf
	default:
		numBytes := 0
		for m := n; m > 0; m >>= 8 {
			numBytes++
		}

		buf := make([]byte, 9)
		binary.LittleEndian.PutUint64(buf[1:], n)
		buf[0] = byte(numBytes-4)<<2 | 0b11
		return buf[:numBytes+1]
	}
}

// DecodeCompact reads a SCALE compact encoded integer from the reader
func DecodeCompact(r io.Reader) (uint64, error) {
	first, err := readByte(r)
	if err != nil {
		return 0, err
	}

	switch first & 0b11 {
	case 0b00:
		return uint64(first >> 2), nil
	case 0b01:
		second, err := readByte(r)
		if err != nil {
			return 0, err
		}

		return uint64(binary.LittleEndian.Uint16([]byte{first, second})) >> 2, nil
	case 0b10:
		buf := make([]byte, 4)
		buf[0] = first
		if _, err := io.ReadFull(r, buf[1:]); err != nil {
			return 0, err
		}

		return uint64(binary.LittleEndian.Uint32(buf)) >> 2, nil
	default:
		numBytes := int(first>>2) + 4
		if numBytes > 8 {
			return 0, ErrCompactOverflow
		}

		buf := make([]byte, 8)
		if _, err := io.ReadFull(r, buf[:numBytes]); err != nil {
			return 0, err
		}

		return binary.LittleEndian.Uint64(buf), nil
	}
}

// EncodeBytes returns the SCALE encoding of b, ie. its compact encoded
// length followed by the bytes themselves
func EncodeBytes(b []byte) []byte {
	return append(EncodeCompact(uint64(len(b))), b...)
}

// DecodeBytes reads a SCALE encoded byte slice from the reader
func DecodeBytes(r io.Reader) ([]byte, error) {
	length, err := DecodeCompact(r)
	if err != nil {
		return nil, fmt.Errorf("decoding length: %w", err)
	}

	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}

	return b, nil
}

func readByte(r io.Reader) (byte, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}

	return buf[0], nil
}
