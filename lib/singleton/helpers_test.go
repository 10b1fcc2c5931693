// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"testing"

	"github.com/ChainSafe/singleton/dot/state"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
	"github.com/ChainSafe/singleton/lib/keystore"

	"github.com/ChainSafe/chaindb"
	"github.com/stretchr/testify/require"
)

func newTestKeyring(t *testing.T) *keystore.Sr25519Keyring {
	t.Helper()

	kr, err := keystore.NewSr25519Keyring()
	require.NoError(t, err)
	return kr
}

func newTestBlockState(t *testing.T) *state.BlockState {
	t.Helper()

	db, err := chaindb.NewBadgerDB(&chaindb.Config{
		InMemory: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	bs, err := state.NewBlockState(db, types.NewEmptyHeader())
	require.NoError(t, err)
	return bs
}

// newSealedHeader builds a child of parent and seals it with the given keypair
func newSealedHeader(t *testing.T, kp *sr25519.Keypair, parent *types.Header) *types.Header {
	t.Helper()

	header := types.NewHeader(parent.Hash(), common.Hash{}, common.Hash{},
		parent.Number+1, types.Digest{})

	sig, err := kp.Sign(header.Hash().ToBytes())
	require.NoError(t, err)

	seal, err := NewSeal(sig)
	require.NoError(t, err)

	header.Digest = append(header.Digest, seal.ToDigest())
	return header
}

// recordingBlockImport records the params of every ImportBlock call
type recordingBlockImport struct {
	imported []*BlockImportParams
	err      error
}

func (r *recordingBlockImport) ImportBlock(params *BlockImportParams) error {
	if r.err != nil {
		return r.err
	}

	r.imported = append(r.imported, params)
	return nil
}

func (r *recordingBlockImport) CheckBlock(_ *BlockCheckParams) error {
	return nil
}

// chainBlockImport commits imported blocks to a real block state,
// re-attaching post-digests the way the chain-level import does
type chainBlockImport struct {
	blockState *state.BlockState
}

func newChainBlockImport(bs *state.BlockState) *chainBlockImport {
	return &chainBlockImport{blockState: bs}
}

func (c *chainBlockImport) ImportBlock(params *BlockImportParams) error {
	header := params.Header.DeepCopy()
	header.Digest = append(header.Digest, params.PostDigests...)

	if err := c.blockState.AddBlock(&types.Block{
		Header: *header,
		Body:   params.Body,
	}); err != nil {
		return err
	}

	if params.Finalized {
		return c.blockState.SetFinalisedHash(params.PostHash, params.Justification)
	}

	return nil
}

func (c *chainBlockImport) CheckBlock(_ *BlockCheckParams) error {
	return nil
}

// staticSyncer reports a fixed syncing state
type staticSyncer struct {
	syncing bool
}

func (s staticSyncer) IsMajorSyncing() bool {
	return s.syncing
}
