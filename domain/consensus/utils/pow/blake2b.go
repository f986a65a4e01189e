package pow

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// blake2bTarget seals a header with a nonce alone: blake2b(powHash || nonce)
// must not exceed the target. The header hash commits to the proof, so any
// proof bytes would let one seal stand for many headers and are rejected.
type blake2bTarget struct {
	retargeter
}

// Verify implements model.ProofOfWork
func (b *blake2bTarget) Verify(powHash *externalapi.DomainHash, nonce uint64, proof []byte, compactTarget uint32) bool {
	if len(proof) != 0 {
		return false
	}
	hash := SealHash(powHash, nonce)
	return checkHashAgainstTarget(&hash, compactTarget)
}

// SealHash returns blake2b(powHash || nonce), nonce encoded little-endian
func SealHash(powHash *externalapi.DomainHash, nonce uint64) [32]byte {
	var message [externalapi.DomainHashSize + 8]byte
	copy(message[:], powHash.ByteSlice())
	binary.LittleEndian.PutUint64(message[externalapi.DomainHashSize:], nonce)
	return blake2b.Sum256(message[:])
}
