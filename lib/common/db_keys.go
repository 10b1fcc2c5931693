// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

var (
	// BestBlockHashKey is the db location of the hash of the best (unfinalised) block header.
	BestBlockHashKey = []byte("best_hash")
	// FinalizedBlockHashKey is the db location of the hash of the latest finalised block header.
	FinalizedBlockHashKey = []byte("finalised_head")
	// GenesisBlockHashKey is the db location of the genesis block hash.
	GenesisBlockHashKey = []byte("genesis_hash")
)
