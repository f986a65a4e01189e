package hashes

import (
	"hash"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	transactionHashDomain        = "TransactionHash"
	transactionWitnessHashDomain = "TransactionWitnessHash"
	headerHashDomain             = "BlockHash"
	powHashDomain                = "ProofOfWorkHash"
	merkleBranchHashDomain       = "MerkleBranchHash"
	unclesHashDomain             = "UnclesHash"
	scriptHashDomain             = "ScriptHash"
	sighashDomain                = "SignatureHash"
)

// HashWriter is used to incrementally hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// The used hash function is blake2b.
// This can only be created via one of the domain separated constructors
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting hash
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	// This should prevent `Sum` for allocating an output buffer, by using the DomainHash buffer. we still copy because we don't want to rely on that.
	copy(sum[:], h.Sum(sum[:0]))
	return externalapi.NewDomainHashFromByteArray(&sum)
}

func newKeyedHashWriter(domain string) HashWriter {
	// blake2b.New256 only fails for keys longer than 64 bytes
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}

// NewTransactionHashWriter Returns a new HashWriter used for transaction IDs
func NewTransactionHashWriter() HashWriter {
	return newKeyedHashWriter(transactionHashDomain)
}

// NewTransactionWitnessHashWriter Returns a new HashWriter used for hashing a
// transaction together with its witnesses
func NewTransactionWitnessHashWriter() HashWriter {
	return newKeyedHashWriter(transactionWitnessHashDomain)
}

// NewHeaderHashWriter Returns a new HashWriter used for hashing block headers
func NewHeaderHashWriter() HashWriter {
	return newKeyedHashWriter(headerHashDomain)
}

// NewPoWHashWriter Returns a new HashWriter used for hashing the sealed part of a header
func NewPoWHashWriter() HashWriter {
	return newKeyedHashWriter(powHashDomain)
}

// NewMerkleBranchHashWriter Returns a new HashWriter used for a merkle tree branch
func NewMerkleBranchHashWriter() HashWriter {
	return newKeyedHashWriter(merkleBranchHashDomain)
}

// NewUnclesHashWriter Returns a new HashWriter used for committing to the uncles of a block
func NewUnclesHashWriter() HashWriter {
	return newKeyedHashWriter(unclesHashDomain)
}

// NewScriptHashWriter Returns a new HashWriter used for script hashes
func NewScriptHashWriter() HashWriter {
	return newKeyedHashWriter(scriptHashDomain)
}

// NewSighashWriter Returns a new HashWriter used for signature hashes
func NewSighashWriter() HashWriter {
	return newKeyedHashWriter(sighashDomain)
}

// DataHash returns the plain blake2b-256 hash of the given data. It is used
// for cell data, which is referenced by scripts through their code hash.
func DataHash(data []byte) *externalapi.DomainHash {
	sum := blake2b.Sum256(data)
	return externalapi.NewDomainHashFromByteArray(&sum)
}

// Blake2b160 returns the first 20 bytes of the plain blake2b-256 hash of
// the given data
func Blake2b160(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:20]
}
