// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package core

import (
	"bytes"
	"testing"

	"github.com/ChainSafe/singleton/dot/state"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/singleton"

	"github.com/ChainSafe/chaindb"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *state.BlockState) {
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

	svc, err := NewService(bs)
	require.NoError(t, err)
	return svc, bs
}

// newImportParams builds import params for an unsealed child of parent
// carrying a dummy seal as a post-digest
func newImportParams(t *testing.T, parent *types.Header) *singleton.BlockImportParams {
	t.Helper()

	header := types.NewHeader(parent.Hash(), common.Hash{}, common.Hash{},
		parent.Number+1, types.Digest{})

	seal := &types.SealDigest{
		ConsensusEngineID: types.ConsensusEngineID{'s', 'g', 't', 'n'},
		Data:              bytes.Repeat([]byte{0xab}, 64),
	}

	sealed := header.DeepCopy()
	sealed.Digest = append(sealed.Digest, seal)

	params := singleton.NewBlockImportParams(singleton.BlockOriginOwn, header)
	params.PostDigests = []types.DigestItem{seal}
	params.PostHash = sealed.Hash()
	params.Body = types.Body{}
	return params
}

func TestImportBlock_StoredUnderPostHash(t *testing.T) {
	svc, bs := newTestService(t)

	genesis, err := bs.GetHeader(bs.GenesisHash())
	require.NoError(t, err)

	params := newImportParams(t, genesis)
	require.NoError(t, svc.ImportBlock(params))

	// the stored header carries the re-attached seal and hashes to PostHash
	stored, err := bs.GetHeader(params.PostHash)
	require.NoError(t, err)
	require.Len(t, stored.Digest, 1)
	require.Equal(t, params.PostHash, stored.Hash())

	// the import params header stays unsealed
	require.Empty(t, params.Header.Digest)

	best, err := bs.BestBlockHash()
	require.NoError(t, err)
	require.Equal(t, params.PostHash, best)
}

func TestImportBlock_Finalized(t *testing.T) {
	svc, bs := newTestService(t)

	genesis, err := bs.GetHeader(bs.GenesisHash())
	require.NoError(t, err)

	params := newImportParams(t, genesis)
	params.Justification = bytes.Repeat([]byte{0xcd}, 64)
	params.Finalized = true

	require.NoError(t, svc.ImportBlock(params))

	finalised, err := bs.GetHighestFinalisedHash()
	require.NoError(t, err)
	require.Equal(t, params.PostHash, finalised)

	stored, err := bs.GetJustification(params.PostHash)
	require.NoError(t, err)
	require.Equal(t, params.Justification, stored)
}

func TestImportBlock_UnknownParent(t *testing.T) {
	svc, _ := newTestService(t)

	orphan := types.NewHeader(common.Hash{0xff}, common.Hash{}, common.Hash{}, 5, types.Digest{})
	params := singleton.NewBlockImportParams(singleton.BlockOriginNetworkBroadcast, orphan)
	params.PostHash = orphan.Hash()
	params.Body = types.Body{}

	require.ErrorIs(t, svc.ImportBlock(params), state.ErrParentNotFound)
}

func TestCheckBlock(t *testing.T) {
	svc, bs := newTestService(t)

	genesis, err := bs.GetHeader(bs.GenesisHash())
	require.NoError(t, err)

	// a known block passes
	require.NoError(t, svc.CheckBlock(&singleton.BlockCheckParams{
		Hash:   bs.GenesisHash(),
		Number: 0,
	}))

	// an unknown block with a known parent passes
	require.NoError(t, svc.CheckBlock(&singleton.BlockCheckParams{
		Hash:       common.Hash{0x01},
		ParentHash: genesis.Hash(),
		Number:     1,
	}))

	// an unknown block with an unknown parent fails
	err = svc.CheckBlock(&singleton.BlockCheckParams{
		Hash:       common.Hash{0x02},
		ParentHash: common.Hash{0x03},
		Number:     2,
	})
	require.ErrorIs(t, err, ErrUnknownParent)
}
