// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexToHashRoundTrip(t *testing.T) {
	in := "0x8550326cf13e25318c6ca2e49bd3a2688d93f3d2364289c9fe3b979c74e27b58"

	hash, err := HexToHash(in)
	require.NoError(t, err)
	require.Equal(t, in, hash.String())
	require.Equal(t, hash, MustHexToHash(in))
	require.False(t, hash.IsEmpty())
}

func TestMustHexToHash_Panics(t *testing.T) {
	require.Panics(t, func() {
		MustHexToHash("0x8550")
	})
}

func TestHexToHash_Invalid(t *testing.T) {
	_, err := HexToHash("8550326cf13e25318c6ca2e49bd3a2688d93f3d2364289c9fe3b979c74e27b58")
	require.Error(t, err)

	_, err = HexToHash("0x8550")
	require.Error(t, err)
}

func TestReadHash(t *testing.T) {
	in := bytes.Repeat([]byte{0x42}, HashLength)

	hash, err := ReadHash(bytes.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, in, hash.ToBytes())

	_, err = ReadHash(bytes.NewReader(in[:10]))
	require.Error(t, err)
}

func TestBlake2bHash(t *testing.T) {
	hash, err := Blake2bHash([]byte("helloworld"))
	require.NoError(t, err)
	require.False(t, hash.IsEmpty())

	// deterministic
	again := MustBlake2bHash([]byte("helloworld"))
	require.Equal(t, hash, again)

	other := MustBlake2bHash([]byte("helloworld2"))
	require.NotEqual(t, hash, other)
}
