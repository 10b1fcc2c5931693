// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package network holds the wire types and collaborator contracts of the
// gossip transport. The transport implementation itself (peer discovery,
// streams, flood fan-out) lives outside this repository; Service is a
// single-process stand-in that loops floods back to local subscribers so
// a devnet node is runnable without it.
package network

import (
	"fmt"

	"github.com/libp2p/go-libp2p-core/peer"
)

// ConsensusMsgType is the message type byte of consensus messages
const ConsensusMsgType = byte(3)

// Message must be implemented by all network messages
type Message interface {
	Type() byte
	String() string
	Encode() ([]byte, error)
	Decode([]byte) error
}

// ConsensusMessage is mostly opaque to us
type ConsensusMessage struct {
	Data []byte
}

// Type returns ConsensusMsgType
func (cm *ConsensusMessage) Type() byte {
	return ConsensusMsgType
}

// String is the string
func (cm *ConsensusMessage) String() string {
	return fmt.Sprintf("ConsensusMessage Data=0x%x", cm.Data)
}

// Encode encodes a consensus message
func (cm *ConsensusMessage) Encode() ([]byte, error) {
	return cm.Data, nil
}

// Decode the message into a ConsensusMessage
func (cm *ConsensusMessage) Decode(in []byte) error {
	cm.Data = in
	return nil
}

// TopicNotification is delivered to topic subscribers for every message
// seen on a topic, including messages this node flooded itself.
type TopicNotification struct {
	// Sender is the peer the message arrived from. It is empty for
	// messages originating locally.
	Sender  peer.ID
	Message *ConsensusMessage
}
