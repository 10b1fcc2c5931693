// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"bytes"
	"testing"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"

	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, authority *sr25519.Keypair) *Verifier {
	t.Helper()

	verifier, err := NewVerifier(authority.Public().(*sr25519.PublicKey))
	require.NoError(t, err)
	return verifier
}

func TestVerifyBlock(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)

	parent := types.NewEmptyHeader()
	header := newSealedHeader(t, kr.KeyAlice, parent)
	postHash := header.Hash()

	params, err := verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.NoError(t, err)

	// header comes back unsealed, seal rides along as a post-digest
	require.Empty(t, params.Header.Digest)
	require.Len(t, params.PostDigests, 1)
	require.Equal(t, postHash, params.PostHash)
	require.Equal(t, BlockOriginNetworkBroadcast, params.Origin)
	require.Equal(t, ForkChoiceLongestChain, params.ForkChoice)
	require.False(t, params.Finalized)

	// re-appending the post-digests restores the post-seal hash
	params.Header.Digest = append(params.Header.Digest, params.PostDigests...)
	require.Equal(t, postHash, params.Header.Hash())
}

func TestVerifyBlock_Unsealed(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)

	header := types.NewHeader(types.NewEmptyHeader().Hash(), [32]byte{}, [32]byte{}, 1, types.Digest{})
	_, err := verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.ErrorIs(t, err, ErrUnsealedHeader)

	// a non-seal trailing digest item is also an unsealed header
	header.Digest = append(header.Digest, &types.PreRuntimeDigest{
		ConsensusEngineID: EngineID,
		Data:              []byte{1},
	})
	_, err = verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.ErrorIs(t, err, ErrUnsealedHeader)
}

func TestVerifyBlock_WrongEngine(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)

	header := newSealedHeader(t, kr.KeyAlice, types.NewEmptyHeader())
	seal := header.Digest[len(header.Digest)-1].(*types.SealDigest)
	seal.ConsensusEngineID = types.ConsensusEngineID{'B', 'A', 'B', 'E'}

	_, err := verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.ErrorIs(t, err, ErrWrongEngineSeal)

	// the foreign seal is left on the header
	require.Len(t, header.Digest, 1)
}

func TestVerifyBlock_InvalidSealEncoding(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)

	header := newSealedHeader(t, kr.KeyAlice, types.NewEmptyHeader())
	seal := header.Digest[len(header.Digest)-1].(*types.SealDigest)
	seal.Data = seal.Data[:10]

	_, err := verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.ErrorIs(t, err, ErrInvalidSealEncoding)
}

func TestVerifyBlock_InvalidSignature(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)

	// sealed by Bob, who is not the block authority
	header := newSealedHeader(t, kr.KeyBob, types.NewEmptyHeader())
	_, err := verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.ErrorIs(t, err, ErrInvalidSealSignature)
}

func TestVerifyBlock_CorruptedSignature(t *testing.T) {
	kr := newTestKeyring(t)
	verifier := newTestVerifier(t, kr.KeyAlice)

	header := newSealedHeader(t, kr.KeyAlice, types.NewEmptyHeader())
	seal := header.Digest[len(header.Digest)-1].(*types.SealDigest)
	seal.Data = bytes.Repeat([]byte{0x00}, 64)

	_, err := verifier.VerifyBlock(BlockOriginNetworkBroadcast, header, types.Body{}, nil)
	require.ErrorIs(t, err, ErrInvalidSealSignature)
}

func TestNewVerifier_NilAuthority(t *testing.T) {
	_, err := NewVerifier(nil)
	require.Error(t, err)
}
