// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package dot assembles the node from its services.
package dot

import (
	"fmt"

	"github.com/ChainSafe/singleton/dot/core"
	"github.com/ChainSafe/singleton/dot/network"
	"github.com/ChainSafe/singleton/dot/state"
	"github.com/ChainSafe/singleton/dot/types"
	"github.com/ChainSafe/singleton/lib/authorship"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
	"github.com/ChainSafe/singleton/lib/keystore"
	"github.com/ChainSafe/singleton/lib/singleton"

	"github.com/ChainSafe/chaindb"
	log "github.com/ChainSafe/log15"
)

var logger = log.New("pkg", "dot")

// Service is anything the node starts and stops
type Service interface {
	Start() error
	Stop() error
}

// Node is an assembled node: the chain database, the gossip hub, the
// import pipeline and whichever consensus roles the config enables.
type Node struct {
	db         chaindb.Database
	BlockState *state.BlockState
	Network    *network.Service
	Queue      *singleton.ImportQueue

	services []Service
}

// noopSyncer reports the node as never majorly syncing. A networked node
// would wire the sync service here.
type noopSyncer struct{}

func (noopSyncer) IsMajorSyncing() bool { return false }

// NewNode assembles a node from the given config. The well-known Alice
// key is the block authority and Bob the finality authority.
func NewNode(cfg *Config) (*Node, error) {
	keyring, err := keystore.NewSr25519Keyring()
	if err != nil {
		return nil, fmt.Errorf("creating keyring: %w", err)
	}

	blockAuthority := keyring.KeyAlice.Public().(*sr25519.PublicKey)
	finalityAuthority := keyring.KeyBob.Public().(*sr25519.PublicKey)

	db, err := chaindb.NewBadgerDB(&chaindb.Config{
		DataDir:  cfg.BasePath,
		InMemory: cfg.InMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("opening chain database: %w", err)
	}

	genesisHeader := types.NewEmptyHeader()
	blockState, err := state.NewBlockState(db, genesisHeader)
	if err != nil {
		return nil, fmt.Errorf("creating block state: %w", err)
	}

	coreSvc, err := core.NewService(blockState)
	if err != nil {
		return nil, fmt.Errorf("creating core service: %w", err)
	}

	blockImport, err := singleton.NewSingletonBlockImport(coreSvc, finalityAuthority)
	if err != nil {
		return nil, fmt.Errorf("creating block import: %w", err)
	}

	verifier, err := singleton.NewVerifier(blockAuthority)
	if err != nil {
		return nil, fmt.Errorf("creating verifier: %w", err)
	}

	queue, err := singleton.NewImportQueue(verifier, blockImport)
	if err != nil {
		return nil, fmt.Errorf("creating import queue: %w", err)
	}

	net := network.NewService(singleton.SingletonProtocolID)

	node := &Node{
		db:         db,
		BlockState: blockState,
		Network:    net,
		Queue:      queue,
	}

	if cfg.Authority {
		author, err := singleton.NewBlockAuthor(&singleton.BlockAuthorConfig{
			Keypair:         keyring.KeyAlice,
			BlockState:      blockState,
			ProposerFactory: authorship.NewBasicProposerFactory(),
			BlockImport:     blockImport,
			Syncer:          noopSyncer{},
		})
		if err != nil {
			return nil, fmt.Errorf("creating block author: %w", err)
		}
		node.services = append(node.services, author)
	}

	if cfg.FinalityGadget || cfg.FinalityGadgetValidator {
		gadgetCfg := &singleton.FinalityGadgetConfig{
			FinalityAuthority: finalityAuthority,
			BlockState:        blockState,
			Network:           net,
		}
		if cfg.FinalityGadgetValidator {
			gadgetCfg.Keypair = keyring.KeyBob
		}

		gadget, err := singleton.NewFinalityGadget(gadgetCfg)
		if err != nil {
			return nil, fmt.Errorf("creating finality gadget: %w", err)
		}
		node.services = append(node.services, gadget)
	}

	return node, nil
}

// Start starts the node's services
func (n *Node) Start() error {
	for _, svc := range n.services {
		if err := svc.Start(); err != nil {
			return fmt.Errorf("starting service: %w", err)
		}
	}

	logger.Info("node started", "genesis", n.BlockState.GenesisHash())
	return nil
}

// Stop stops the node's services and closes the chain database
func (n *Node) Stop() error {
	for _, svc := range n.services {
		if err := svc.Stop(); err != nil {
			logger.Warn("failed to stop service", "error", err)
		}
	}

	return n.db.Close()
}
