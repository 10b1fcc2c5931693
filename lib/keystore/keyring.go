// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package keystore provides the development keyring used to select the
// block and finality authorities on a devnet. Encrypted keystores and key
// management in general are out of scope; the node only needs the two
// fixed authority keypairs.
package keystore

import (
	"github.com/ChainSafe/singleton/lib/common"
	"github.com/ChainSafe/singleton/lib/crypto"
	"github.com/ChainSafe/singleton/lib/crypto/sr25519"
)

// private keys generated using `subkey inspect //Name`
var sr25519PrivateKeys = []string{
	"0xe5be9a5092b81bca64be81d212e7f2f9eba183bb7a90954f7b76361f6edb5c0a",
	"0x398f0c28f98885e046333d4a41c19cee4c37368a9832c6502f6cfd182e2aef89",
	"0xbc1ede780f784bb6991a585e4f6e61522c14e1cae6ad0895fb57b9a205a8f938",
	"0x868020ae0687dda7d57565093a69090211449845a7e11453612800b663307246",
	"0x786ad0e2df456fe43dd1f91ebca22e235bc162e0bb8d53c633e8c85b2af68b7a",
	"0x42438b7883391c05512a938e36c2df0131e088b3756d6aa7a755fbff19d2f842",
}

// Keyring represents a test keyring
type Keyring interface {
	Alice() crypto.Keypair
	Bob() crypto.Keypair
	Charlie() crypto.Keypair
	Dave() crypto.Keypair
	Eve() crypto.Keypair
	Ferdie() crypto.Keypair
}

// Sr25519Keyring represents a test keyring
type Sr25519Keyring struct {
	KeyAlice   *sr25519.Keypair
	KeyBob     *sr25519.Keypair
	KeyCharlie *sr25519.Keypair
	KeyDave    *sr25519.Keypair
	KeyEve     *sr25519.Keypair
	KeyFerdie  *sr25519.Keypair

	Keys []*sr25519.Keypair
}

// NewSr25519Keyring returns an initialised sr25519 Keyring
func NewSr25519Keyring() (*Sr25519Keyring, error) {
	kr := new(Sr25519Keyring)

	for _, hexSeed := range sr25519PrivateKeys {
		seed, err := common.HexToBytes(hexSeed)
		if err != nil {
			return nil, err
		}

		kp, err := sr25519.NewKeypairFromSeed(seed)
		if err != nil {
			return nil, err
		}

		kr.Keys = append(kr.Keys, kp)
	}

	kr.KeyAlice = kr.Keys[0]
	kr.KeyBob = kr.Keys[1]
	kr.KeyCharlie = kr.Keys[2]
	kr.KeyDave = kr.Keys[3]
	kr.KeyEve = kr.Keys[4]
	kr.KeyFerdie = kr.Keys[5]
	return kr, nil
}

// Alice returns Alice's key
func (kr *Sr25519Keyring) Alice() crypto.Keypair {
	return kr.KeyAlice
}

// Bob returns Bob's key
func (kr *Sr25519Keyring) Bob() crypto.Keypair {
	return kr.KeyBob
}

// Charlie returns Charlie's key
func (kr *Sr25519Keyring) Charlie() crypto.Keypair {
	return kr.KeyCharlie
}

// Dave returns Dave's key
func (kr *Sr25519Keyring) Dave() crypto.Keypair {
	return kr.KeyDave
}

// Eve returns Eve's key
func (kr *Sr25519Keyring) Eve() crypto.Keypair {
	return kr.KeyEve
}

// Ferdie returns Ferdie's key
func (kr *Sr25519Keyring) Ferdie() crypto.Keypair {
	return kr.KeyFerdie
}
