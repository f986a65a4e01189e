package pow

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// sipHashKeys is the 256-bit siphash-2-4 state that keys a cuckoo graph.
// Unlike standard SipHash, the whole initial state is taken from the key and
// the message is a single 64-bit word.
type sipHashKeys struct {
	k0 uint64
	k1 uint64
	k2 uint64
	k3 uint64
}

// newSipHashKeys derives the graph keys of a seal attempt from blake2b(powHash || nonce)
func newSipHashKeys(powHash *externalapi.DomainHash, nonce uint64) *sipHashKeys {
	var message [externalapi.DomainHashSize + 8]byte
	copy(message[:], powHash.ByteSlice())
	binary.LittleEndian.PutUint64(message[externalapi.DomainHashSize:], nonce)
	keys := blake2b.Sum256(message[:])

	return &sipHashKeys{
		k0: binary.LittleEndian.Uint64(keys[:8]),
		k1: binary.LittleEndian.Uint64(keys[8:16]),
		k2: binary.LittleEndian.Uint64(keys[16:24]),
		k3: binary.LittleEndian.Uint64(keys[24:32]),
	}
}

func sipRound(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v2 += v3
	v1 = bits.RotateLeft64(v1, 13)
	v3 = bits.RotateLeft64(v3, 16)
	v1 ^= v0
	v3 ^= v2
	v0 = bits.RotateLeft64(v0, 32)
	v2 += v1
	v0 += v3
	v1 = bits.RotateLeft64(v1, 17)
	v3 = bits.RotateLeft64(v3, 21)
	v1 ^= v2
	v3 ^= v0
	v2 = bits.RotateLeft64(v2, 32)
	return v0, v1, v2, v3
}

// hash24 returns siphash-2-4 of a single word
func (k *sipHashKeys) hash24(nonce uint64) uint64 {
	v0, v1, v2, v3 := k.k0, k.k1, k.k2, k.k3^nonce
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0 ^= nonce
	v2 ^= 0xff
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	return (v0 ^ v1) ^ (v2 ^ v3)
}
