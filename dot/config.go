// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package dot

// Config is the runtime configuration of a node
type Config struct {
	// BasePath is the directory holding the chain database. Ignored when
	// InMemory is set.
	BasePath string
	// InMemory keeps the chain database in memory
	InMemory bool
	// Authority enables the block authoring loop, signing with the
	// block authority key
	Authority bool
	// FinalityGadget enables the finality gadget as an observer
	FinalityGadget bool
	// FinalityGadgetValidator runs the finality gadget with the finality
	// authority key, attesting every new best block. Implies FinalityGadget.
	FinalityGadgetValidator bool
	// LogLevel is the log15 level name, eg "info" or "debug"
	LogLevel string
}

// DefaultConfig returns a config for a non-authority in-memory node
func DefaultConfig() *Config {
	return &Config{
		InMemory: true,
		LogLevel: "info",
	}
}
