// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package sr25519

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/singleton/lib/crypto"

	"github.com/ChainSafe/go-schnorrkel"
	"github.com/gtank/merlin"
)

// SignatureLength is the expected length of a signature
const SignatureLength = 64

// PublicKeyLength is the expected length of a public key
const PublicKeyLength = 32

// PrivateKeyLength is the expected length of a private key
const PrivateKeyLength = 32

// SeedLength is the expected length of a seed
const SeedLength = 32

// SigningContext is the context for signatures used or created with substrate
var SigningContext = []byte("substrate")

var errSignatureLengthMismatch = fmt.Errorf("signature length must be %d bytes", SignatureLength)

// Keypair is a sr25519 public-private keypair
type Keypair struct {
	public  *PublicKey
	private *PrivateKey
}

// PublicKey holds reference to a sr25519.PublicKey
type PublicKey struct {
	key *schnorrkel.PublicKey
}

// PrivateKey holds reference to a sr25519.SecretKey
type PrivateKey struct {
	key *schnorrkel.SecretKey
}

// NewSigningContext returns a new transcript initialised with the context and a message.
// The same transcript construction is used when signing and when verifying.
func NewSigningContext(msg []byte) *merlin.Transcript {
	return schnorrkel.NewSigningContext(SigningContext, msg)
}

// NewKeypair returns a sr25519 Keypair given a schnorrkel secret key
func NewKeypair(priv *schnorrkel.SecretKey) (*Keypair, error) {
	pub, err := priv.Public()
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// NewKeypairFromSeed returns a new sr25519 Keypair given a seed
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("cannot generate key from seed: seed is not %d bytes long", SeedLength)
	}

	buf := [SeedLength]byte{}
	copy(buf[:], seed)

	msc, err := schnorrkel.NewMiniSecretKeyFromRaw(buf)
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  &PublicKey{key: msc.Public()},
		private: &PrivateKey{key: msc.ExpandEd25519()},
	}, nil
}

// GenerateKeypair returns a new sr25519 keypair
func GenerateKeypair() (*Keypair, error) {
	priv, pub, err := schnorrkel.GenerateKeypair()
	if err != nil {
		return nil, err
	}

	return &Keypair{
		public:  &PublicKey{key: pub},
		private: &PrivateKey{key: priv},
	}, nil
}

// NewPublicKey returns a sr25519 PublicKey that corresponds to the input bytes
func NewPublicKey(in []byte) (*PublicKey, error) {
	if len(in) != PublicKeyLength {
		return nil, errors.New("cannot create public key: input is not 32 bytes")
	}

	buf := [PublicKeyLength]byte{}
	copy(buf[:], in)

	pub := &schnorrkel.PublicKey{}
	if err := pub.Decode(buf); err != nil {
		return nil, err
	}

	return &PublicKey{key: pub}, nil
}

// Sign uses the keypair to sign the message using the sr25519 signature algorithm
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return kp.private.Sign(msg)
}

// Public returns the public key corresponding to this keypair
func (kp *Keypair) Public() crypto.PublicKey {
	return kp.public
}

// Private returns the private key corresponding to this keypair
func (kp *Keypair) Private() crypto.PrivateKey {
	return kp.private
}

// Sign uses the private key to sign the message using the sr25519 signature algorithm
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if k.key == nil {
		return nil, errors.New("key is nil")
	}

	t := NewSigningContext(msg)
	sig, err := k.key.Sign(t)
	if err != nil {
		return nil, err
	}

	enc := sig.Encode()
	return enc[:], nil
}

// Public returns the public key corresponding to this private key
func (k *PrivateKey) Public() (crypto.PublicKey, error) {
	if k.key == nil {
		return nil, errors.New("key is nil")
	}

	pub, err := k.key.Public()
	if err != nil {
		return nil, err
	}

	return &PublicKey{key: pub}, nil
}

// Encode returns the 32-byte encoding of the private key
func (k *PrivateKey) Encode() []byte {
	if k.key == nil {
		return nil
	}

	enc := k.key.Encode()
	return enc[:]
}

// Decode decodes the input bytes into a private key and sets the receiver the decoded key
func (k *PrivateKey) Decode(in []byte) error {
	if len(in) != PrivateKeyLength {
		return errors.New("input to sr25519 private key decode is not 32 bytes")
	}

	b := [PrivateKeyLength]byte{}
	copy(b[:], in)
	k.key = &schnorrkel.SecretKey{}
	return k.key.Decode(b)
}

// Hex returns the private key as a '0x' prefixed hex string
func (k *PrivateKey) Hex() string {
	return fmt.Sprintf("0x%x", k.Encode())
}

// Verify uses the sr25519 signature algorithm to verify that the message was signed by
// this public key; it returns true if this key created the signature for the message,
// false otherwise
func (k *PublicKey) Verify(msg, sig []byte) (bool, error) {
	if k.key == nil {
		return false, errors.New("nil public keys cannot verify messages")
	}

	if len(sig) != SignatureLength {
		return false, errSignatureLengthMismatch
	}

	b := [SignatureLength]byte{}
	copy(b[:], sig)

	s := &schnorrkel.Signature{}
	if err := s.Decode(b); err != nil {
		return false, err
	}

	t := NewSigningContext(msg)
	return k.key.Verify(s, t)
}

// Encode returns the 32-byte encoding of the public key
func (k *PublicKey) Encode() []byte {
	if k.key == nil {
		return nil
	}

	enc := k.key.Encode()
	return enc[:]
}

// Decode decodes the input bytes into a public key and sets the receiver the decoded key
func (k *PublicKey) Decode(in []byte) error {
	if len(in) != PublicKeyLength {
		return errors.New("input to sr25519 public key decode is not 32 bytes")
	}

	b := [PublicKeyLength]byte{}
	copy(b[:], in)
	k.key = &schnorrkel.PublicKey{}
	return k.key.Decode(b)
}

// Hex returns the public key as a '0x' prefixed hex string
func (k *PublicKey) Hex() string {
	return fmt.Sprintf("0x%x", k.Encode())
}
