// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package singleton

import (
	"errors"
)

// ErrUnsealedHeader is returned when verifying a header with no seal digest
var ErrUnsealedHeader = errors.New("unsealed header")

// ErrWrongEngineSeal is returned when a header's seal was produced for a different consensus engine
var ErrWrongEngineSeal = errors.New("header seal is for a different engine")

// ErrInvalidSealEncoding is returned when a header's seal cannot be decoded as a signature
var ErrInvalidSealEncoding = errors.New("header seal encoding is invalid")

// ErrInvalidSealSignature is returned when a header's seal does not verify against the block authority key
var ErrInvalidSealSignature = errors.New("invalid seal signature")

// ErrInvalidJustification is returned when a finality signature does not verify against the finality authority key
var ErrInvalidJustification = errors.New("invalid finality justification signature")

// ErrInvalidFinalityMessage is returned when a gossip payload cannot be decoded as a FinalityMessage
var ErrInvalidFinalityMessage = errors.New("cannot decode finality message")

// ErrWrongEngineMessage is returned when a gossip payload is tagged for a different consensus engine
var ErrWrongEngineMessage = errors.New("gossip message is for a different engine")

var (
	errNilBlockAuthority    = errors.New("cannot have nil block authority public key")
	errNilVerifier          = errors.New("cannot have nil Verifier")
	errNilFinalityAuthority = errors.New("cannot have nil finality authority public key")
	errNilBlockState        = errors.New("cannot have nil BlockState")
	errNilBlockImport       = errors.New("cannot have nil BlockImport")
	errNilProposerFactory   = errors.New("cannot have nil ProposerFactory")
	errNilNetwork           = errors.New("cannot have nil Network")
	errNilKeypair           = errors.New("cannot author blocks without a block authority keypair")
)
