package pow

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/dagconfig"
)

const maxCuckooEdgeBits = 32

// cuckoo verifies cuckoo cycle seals. A seal is a cycle of cycleLength edges
// in a bipartite graph of 2^edgeBits edges, where the endpoints of an edge
// are siphash-2-4 values keyed by blake2b(powHash || nonce). Additionally,
// blake2b of the proof must not exceed the target.
type cuckoo struct {
	retargeter
	edgeBits    uint8
	edgeMask    uint64
	cycleLength int
}

func newCuckoo(params *dagconfig.Params) (*cuckoo, error) {
	if params.CuckooEdgeBits == 0 || params.CuckooEdgeBits > maxCuckooEdgeBits {
		return nil, errors.Errorf("cuckoo edge bits must be between 1 and %d, got %d",
			maxCuckooEdgeBits, params.CuckooEdgeBits)
	}
	if params.CuckooCycleLength < 2 || params.CuckooCycleLength%2 != 0 {
		return nil, errors.Errorf("cuckoo cycle length must be a positive even number, got %d",
			params.CuckooCycleLength)
	}

	return &cuckoo{
		retargeter:  retargeter{params},
		edgeBits:    params.CuckooEdgeBits,
		edgeMask:    (uint64(1) << params.CuckooEdgeBits) - 1,
		cycleLength: params.CuckooCycleLength,
	}, nil
}

// EncodeCuckooProof serializes the edges of a cuckoo cycle into a header proof
func EncodeCuckooProof(edges []uint32) []byte {
	proof := make([]byte, 4*len(edges))
	for i, edge := range edges {
		binary.LittleEndian.PutUint32(proof[4*i:], edge)
	}
	return proof
}

func (c *cuckoo) decodeProof(proof []byte) ([]uint32, bool) {
	if len(proof) != 4*c.cycleLength {
		return nil, false
	}
	edges := make([]uint32, c.cycleLength)
	for i := range edges {
		edges[i] = binary.LittleEndian.Uint32(proof[4*i:])
	}
	return edges, true
}

// Verify implements model.ProofOfWork
func (c *cuckoo) Verify(powHash *externalapi.DomainHash, nonce uint64, proof []byte, compactTarget uint32) bool {
	edges, ok := c.decodeProof(proof)
	if !ok {
		return false
	}
	if !c.verifyCycle(newSipHashKeys(powHash, nonce), edges) {
		return false
	}
	proofHash := blake2b.Sum256(proof)
	return checkHashAgainstTarget(&proofHash, compactTarget)
}

func (c *cuckoo) sipNode(keys *sipHashKeys, edge uint32, uOrV uint64) uint64 {
	return keys.hash24(2*uint64(edge)+uOrV) & c.edgeMask
}

// verifyCycle checks that edges are strictly ascending and form a single
// cycle of length cycleLength
func (c *cuckoo) verifyCycle(keys *sipHashKeys, edges []uint32) bool {
	if len(edges) != c.cycleLength {
		return false
	}

	// nodes[2*n] and nodes[2*n+1] are the u and v endpoints of edges[n]
	nodes := make([]uint64, 2*c.cycleLength)
	var xorU, xorV uint64
	for n, edge := range edges {
		if uint64(edge) > c.edgeMask {
			return false
		}
		if n > 0 && edge <= edges[n-1] {
			return false
		}
		nodes[2*n] = c.sipNode(keys, edge, 0)
		nodes[2*n+1] = c.sipNode(keys, edge, 1)
		xorU ^= nodes[2*n]
		xorV ^= nodes[2*n+1]
	}
	// Every node of a cycle is visited twice
	if xorU|xorV != 0 {
		return false
	}

	// Walk the cycle. From every endpoint, exactly one other edge must share
	// it, and the walk must return to the start after visiting every edge.
	visited := 0
	i := 0
	for {
		j := i
		for k := (i + 2) % len(nodes); k != i; k = (k + 2) % len(nodes) {
			if nodes[k] == nodes[i] {
				if j != i {
					return false
				}
				j = k
			}
		}
		if j == i {
			return false
		}
		i = j ^ 1
		visited++
		if i == 0 {
			break
		}
	}
	return visited == c.cycleLength
}
