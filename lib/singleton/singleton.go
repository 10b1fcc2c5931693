// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package singleton implements a minimal single-authority consensus
// protocol. One fixed keypair (the block authority) seals every block, and
// a second, independently-held keypair (the finality authority) attests
// that blocks are irreversible by flooding signed finality messages to all
// peers. The two keys are separate trust roots: compromising one does not
// allow forging the other.
package singleton

import (
	log "github.com/ChainSafe/log15"
	"github.com/libp2p/go-libp2p-core/protocol"

	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/common"
)

var logger = log.New("pkg", "singleton")

// EngineID is the consensus engine ID carried by this protocol's digest
// items and gossip messages. Headers sealed or messages tagged for a
// different engine are rejected.
var EngineID = types.ConsensusEngineID{'s', 'g', 't', 'n'}

// SingletonProtocolID is the protocol identifier announced for finality gossip.
var SingletonProtocolID protocol.ID = "/chainsafe/singleton/1" //nolint

// finalityTopic is hashed to derive the single gossip topic shared by all
// finality traffic; there is no per-height or per-fork partitioning.
var finalityTopic = []byte("sgtn-finality")

// FinalityTopic returns the gossip topic used for finality messages
func FinalityTopic() common.Hash {
	return common.MustBlake2bHash(finalityTopic)
}
