// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"bytes"
	"testing"
	"time"

	"github.com/ChainSafe/singleton/dot/network"
	"github.com/ChainSafe/singleton/dot/state"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
	"github.com/ChainSafe/singleton/lib/keystore"

	"github.com/stretchr/testify/require"
)

func newTestGadget(t *testing.T, kr *keystore.Sr25519Keyring, bs *state.BlockState,
	net *network.Service, attester bool) *FinalityGadget {
	t.Helper()

	cfg := &FinalityGadgetConfig{
		FinalityAuthority: kr.KeyBob.Public().(*sr25519.PublicKey),
		BlockState:        bs,
		Network:           net,
	}
	if attester {
		cfg.Keypair = kr.KeyBob
	}

	gadget, err := NewFinalityGadget(cfg)
	require.NoError(t, err)
	return gadget
}

// addSealedBlock seals a child of the best block with Alice's key and
// commits it
func addSealedBlock(t *testing.T, kr *keystore.Sr25519Keyring, bs *state.BlockState) *types.Header {
	t.Helper()

	parent, err := bs.BestBlockHeader()
	require.NoError(t, err)

	header := newSealedHeader(t, kr.KeyAlice, parent)
	require.NoError(t, bs.AddBlock(&types.Block{
		Header: *header,
		Body:   types.Body{},
	}))
	return header
}

func TestHandleFinalityMessage(t *testing.T) {
	kr := newTestKeyring(t)
	bs := newTestBlockState(t)
	gadget := newTestGadget(t, kr, bs, network.NewService(SingletonProtocolID), false)

	header := addSealedBlock(t, kr, bs)
	hash := header.Hash()

	sig, err := kr.KeyBob.Sign(hash.ToBytes())
	require.NoError(t, err)

	justification, err := NewFinalityJustification(sig)
	require.NoError(t, err)

	msg := &FinalityMessage{
		Hash:          hash,
		Justification: *justification,
	}
	require.NoError(t, gadget.handleFinalityMessage(msg.ToConsensusMessage()))

	finalised, err := bs.GetHighestFinalisedHash()
	require.NoError(t, err)
	require.Equal(t, hash, finalised)

	stored, err := bs.GetJustification(hash)
	require.NoError(t, err)
	require.Equal(t, sig, stored)
}

func TestHandleFinalityMessage_InvalidSignature(t *testing.T) {
	kr := newTestKeyring(t)
	bs := newTestBlockState(t)
	gadget := newTestGadget(t, kr, bs, network.NewService(SingletonProtocolID), false)

	header := addSealedBlock(t, kr, bs)
	hash := header.Hash()

	// signed by the wrong key
	sig, err := kr.KeyCharlie.Sign(hash.ToBytes())
	require.NoError(t, err)

	justification, err := NewFinalityJustification(sig)
	require.NoError(t, err)

	msg := &FinalityMessage{
		Hash:          hash,
		Justification: *justification,
	}
	err = gadget.handleFinalityMessage(msg.ToConsensusMessage())
	require.ErrorIs(t, err, ErrInvalidJustification)

	finalised, err := bs.GetHighestFinalisedHash()
	require.NoError(t, err)
	require.Equal(t, bs.GenesisHash(), finalised)
}

func TestHandleFinalityMessage_CorruptedSignature(t *testing.T) {
	kr := newTestKeyring(t)
	bs := newTestBlockState(t)
	gadget := newTestGadget(t, kr, bs, network.NewService(SingletonProtocolID), false)

	header := addSealedBlock(t, kr, bs)

	justification, err := NewFinalityJustification(bytes.Repeat([]byte{0x00}, 64))
	require.NoError(t, err)

	msg := &FinalityMessage{
		Hash:          header.Hash(),
		Justification: *justification,
	}
	err = gadget.handleFinalityMessage(msg.ToConsensusMessage())
	require.ErrorIs(t, err, ErrInvalidJustification)

	finalised, err := bs.GetHighestFinalisedHash()
	require.NoError(t, err)
	require.Equal(t, bs.GenesisHash(), finalised)
}

func TestAttest(t *testing.T) {
	kr := newTestKeyring(t)
	bs := newTestBlockState(t)
	net := network.NewService(SingletonProtocolID)
	gadget := newTestGadget(t, kr, bs, net, true)

	inbound := net.Subscribe(FinalityTopic())

	header := addSealedBlock(t, kr, bs)
	hash := header.Hash()

	require.NoError(t, gadget.attest(header))

	// the attester finalises locally without waiting for its own gossip
	finalised, err := bs.GetHighestFinalisedHash()
	require.NoError(t, err)
	require.Equal(t, hash, finalised)

	select {
	case notification := <-inbound:
		msg, err := decodeFinalityMessage(notification.Message)
		require.NoError(t, err)
		require.Equal(t, hash, msg.Hash)

		ok, err := kr.KeyBob.Public().Verify(hash.ToBytes(), msg.Justification.Encode())
		require.NoError(t, err)
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("attestation was not flooded")
	}
}

func TestFinalityGossip(t *testing.T) {
	kr := newTestKeyring(t)
	net := network.NewService(SingletonProtocolID)

	// the attester and an observer share the gossip hub but hold
	// separate chain databases
	attesterState := newTestBlockState(t)
	observerState := newTestBlockState(t)

	attester := newTestGadget(t, kr, attesterState, net, true)
	observer := newTestGadget(t, kr, observerState, net, false)

	require.NoError(t, attester.Start())
	require.NoError(t, observer.Start())
	t.Cleanup(func() {
		_ = attester.Stop()
		_ = observer.Stop()
	})

	// give both loops time to subscribe before the block arrives
	time.Sleep(100 * time.Millisecond)

	parent, err := attesterState.BestBlockHeader()
	require.NoError(t, err)
	header := newSealedHeader(t, kr.KeyAlice, parent)
	hash := header.Hash()

	block := &types.Block{
		Header: *header,
		Body:   types.Body{},
	}
	require.NoError(t, observerState.AddBlock(block))
	require.NoError(t, attesterState.AddBlock(block))

	require.Eventually(t, func() bool {
		finalised, err := observerState.GetHighestFinalisedHash()
		return err == nil && finalised == hash
	}, 5*time.Second, 10*time.Millisecond)

	finalised, err := attesterState.GetHighestFinalisedHash()
	require.NoError(t, err)
	require.Equal(t, hash, finalised)
}
