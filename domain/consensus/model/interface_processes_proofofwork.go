package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// EpochHistory is the data a difficulty retarget is computed from: a
// finished epoch and the headers that opened and closed it
type EpochHistory struct {
	Epoch       *externalapi.Epoch
	FirstHeader *externalapi.DomainHeader
	LastHeader  *externalapi.DomainHeader
}

// ProofOfWork verifies block seals and computes the difficulty of the next
// epoch
type ProofOfWork interface {
	Verify(powHash *externalapi.DomainHash, nonce uint64, proof []byte, compactTarget uint32) bool
	NextDifficulty(history *EpochHistory) uint32
}
