package merkle

import (
	"math"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
)

// nextPowerOfTwo returns the next highest power of two from a given number if
// it is not already a power of two. This is a helper function used during the
// calculation of a merkle tree.
func nextPowerOfTwo(n int) int {
	// Return the number if it's already a power of 2.
	if n&(n-1) == 0 {
		return n
	}

	// Figure out and return the next power of two.
	exponent := uint(math.Log2(float64(n))) + 1
	return 1 << exponent // 2^exponent
}

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation. This is a helper
// function used to aid in the generation of a merkle tree.
func hashMerkleBranches(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	// Concatenate the left and right nodes.
	w := hashes.NewMerkleBranchHashWriter()

	w.InfallibleWrite(left.ByteSlice())
	w.InfallibleWrite(right.ByteSlice())

	return w.Finalize()
}

// CalculateTransactionsRoot calculates the merkle root of a tree consisting
// of the given transactions' IDs
func CalculateTransactionsRoot(transactions []*externalapi.DomainTransaction) *externalapi.DomainHash {
	txHashes := make([]*externalapi.DomainHash, len(transactions))
	for i, tx := range transactions {
		txHashes[i] = (*externalapi.DomainHash)(consensushashing.TransactionID(tx))
	}
	return merkleRoot(txHashes)
}

// CalculateWitnessesRoot calculates the merkle root of a tree consisting
// of the given transactions' witness hashes
func CalculateWitnessesRoot(transactions []*externalapi.DomainTransaction) *externalapi.DomainHash {
	witnessHashes := make([]*externalapi.DomainHash, len(transactions))
	for i, tx := range transactions {
		witnessHashes[i] = consensushashing.TransactionWitnessHash(tx)
	}
	return merkleRoot(witnessHashes)
}

// CalculateUnclesHash calculates the commitment of a block to its uncles:
// the hash of the concatenated uncle header hashes, or the zero hash when
// there are none.
func CalculateUnclesHash(uncles []*externalapi.DomainHeader) *externalapi.DomainHash {
	if len(uncles) == 0 {
		return &externalapi.DomainHash{}
	}
	w := hashes.NewUnclesHashWriter()
	for _, uncle := range uncles {
		w.InfallibleWrite(consensushashing.HeaderHash(uncle).ByteSlice())
	}
	return w.Finalize()
}

// merkleRoot creates a merkle tree from a slice of hashes, and returns its
// root. Missing right siblings are hashed as zero hashes, so a list and
// the same list with its last element duplicated have different roots.
func merkleRoot(hashes []*externalapi.DomainHash) *externalapi.DomainHash {
	// Calculate how many entries are required to hold the binary merkle
	// tree as a linear array and create an array of that size.
	if len(hashes) == 0 {
		return &externalapi.DomainHash{}
	}

	nextPoT := nextPowerOfTwo(len(hashes))
	arraySize := nextPoT*2 - 1
	merkles := make([]*externalapi.DomainHash, arraySize)

	// Create the base transaction hashes and populate the array with them.
	copy(merkles, hashes)

	// Start the array offset after the last transaction and adjusted to the
	// next power of two.
	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		// When there is no left child node, the parent is nil too.
		case merkles[i] == nil:
			merkles[offset] = nil

		// When there is no right child, the parent is generated by
		// hashing the concatenation of the left child with zeros.
		case merkles[i+1] == nil:
			newHash := hashMerkleBranches(merkles[i], &externalapi.DomainHash{})
			merkles[offset] = newHash

		// The normal case sets the parent node to the hash
		// of the concatentation of the left and right children.
		default:
			newHash := hashMerkleBranches(merkles[i], merkles[i+1])
			merkles[offset] = newHash
		}
		offset++
	}

	return merkles[len(merkles)-1]
}
