// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package network

import (
	"sync"

	log "github.com/ChainSafe/log15"
	"github.com/libp2p/go-libp2p-core/protocol"

	"github.com/ChainSafe/singleton/lib/common"
)

var logger = log.New("pkg", "network")

const topicBufferSize = 128

// Service is an in-process gossip hub. Flood delivers the payload to every
// local subscriber of the topic; delivery and retention beyond that are the
// transport's problem, so a dropped message on a full subscriber channel is
// not an error.
type Service struct {
	sync.RWMutex
	protocolID protocol.ID
	topics     map[common.Hash][]chan *TopicNotification
}

// NewService returns a gossip Service for the given protocol
func NewService(protocolID protocol.ID) *Service {
	logger.Debug("created gossip service", "protocol", protocolID)
	return &Service{
		protocolID: protocolID,
		topics:     make(map[common.Hash][]chan *TopicNotification),
	}
}

// ProtocolID returns the protocol identifier this service gossips under.
// A networked transport announces it when negotiating streams.
func (s *Service) ProtocolID() protocol.ID {
	return s.protocolID
}

// Subscribe returns a channel receiving every message flooded on the topic
func (s *Service) Subscribe(topic common.Hash) <-chan *TopicNotification {
	s.Lock()
	defer s.Unlock()

	ch := make(chan *TopicNotification, topicBufferSize)
	s.topics[topic] = append(s.topics[topic], ch)
	return ch
}

// Flood sends the message to all subscribers of the topic. The force flag
// is accepted for interface compatibility with flooding transports that
// rate limit; it has no effect locally.
func (s *Service) Flood(topic common.Hash, msg *ConsensusMessage, _ bool) {
	s.RLock()
	defer s.RUnlock()

	for _, ch := range s.topics[topic] {
		select {
		case ch <- &TopicNotification{Message: msg}:
		default:
			logger.Trace("dropping gossip message, subscriber channel full", "topic", topic)
		}
	}
}
