// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"testing"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"

	"github.com/stretchr/testify/require"
)

func TestImportQueue_ProcessBlock(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)
	bi, inner := newTestBlockImport(t, kr.KeyBob)

	queue, err := NewImportQueue(verifier, bi)
	require.NoError(t, err)

	header := newSealedHeader(t, kr.KeyAlice, types.NewEmptyHeader())
	postHash := header.Hash()

	sig, err := kr.KeyBob.Sign(postHash.ToBytes())
	require.NoError(t, err)

	block := &types.Block{
		Header: *header,
		Body:   types.Body{},
	}
	require.NoError(t, queue.ProcessBlock(BlockOriginNetworkInitialSync, block, sig))

	require.Len(t, inner.imported, 1)
	require.Equal(t, postHash, inner.imported[0].PostHash)
	require.Equal(t, BlockOriginNetworkInitialSync, inner.imported[0].Origin)
	require.True(t, inner.imported[0].Finalized)
}

func TestImportQueue_RejectsBadSeal(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)
	bi, inner := newTestBlockImport(t, kr.KeyBob)

	queue, err := NewImportQueue(verifier, bi)
	require.NoError(t, err)

	header := newSealedHeader(t, kr.KeyBob, types.NewEmptyHeader())
	block := &types.Block{
		Header: *header,
		Body:   types.Body{},
	}

	err = queue.ProcessBlock(BlockOriginNetworkBroadcast, block, nil)
	require.ErrorIs(t, err, ErrInvalidSealSignature)
	require.Empty(t, inner.imported)
}

func TestImportQueue_NilDeps(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)
	bi, err := NewSingletonBlockImport(new(recordingBlockImport), kr.KeyBob.Public().(*sr25519.PublicKey))
	require.NoError(t, err)

	_, err = NewImportQueue(nil, bi)
	require.Error(t, err)

	_, err = NewImportQueue(verifier, nil)
	require.Error(t, err)
}
