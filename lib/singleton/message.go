// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/singleton/dot/network"
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

// finalityMessageLength is a block hash followed by a justification signature
const finalityMessageLength = common.HashLength + sr25519.SignatureLength

// FinalityMessage is a gossiped claim that the finality authority has
// finalised the block with the given post-seal hash
type FinalityMessage struct {
	Hash          common.Hash
	Justification FinalityJustification
}

// Encode returns the fixed-length encoding of the message
func (m *FinalityMessage) Encode() []byte {
	enc := make([]byte, 0, finalityMessageLength)
	enc = append(enc, m.Hash.ToBytes()...)
	enc = append(enc, m.Justification.Encode()...)
	return enc
}

// Decode decodes the fixed-length encoding into the message
func (m *FinalityMessage) Decode(in []byte) error {
	if len(in) != finalityMessageLength {
		return fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidFinalityMessage, finalityMessageLength, len(in))
	}

	copy(m.Hash[:], in[:common.HashLength])
	copy(m.Justification.Signature[:], in[common.HashLength:])
	return nil
}

// ToConsensusMessage returns the message wrapped for gossip, tagged with
// the protocol's engine id
func (m *FinalityMessage) ToConsensusMessage() *network.ConsensusMessage {
	data := make([]byte, 0, len(EngineID)+finalityMessageLength)
	data = append(data, EngineID[:]...)
	data = append(data, m.Encode()...)
	return &network.ConsensusMessage{
		Data: data,
	}
}

// decodeFinalityMessage unwraps a gossiped consensus message, rejecting
// messages tagged with a foreign engine id
func decodeFinalityMessage(cm *network.ConsensusMessage) (*FinalityMessage, error) {
	if len(cm.Data) < len(EngineID) {
		return nil, fmt.Errorf("%w: message too short", ErrInvalidFinalityMessage)
	}

	if !bytes.Equal(cm.Data[:len(EngineID)], EngineID[:]) {
		return nil, fmt.Errorf("%w: %v", ErrWrongEngineMessage, cm.Data[:len(EngineID)])
	}

	msg := new(FinalityMessage)
	if err := msg.Decode(cm.Data[len(EngineID):]); err != nil {
		return nil, err
	}

	return msg, nil
}
