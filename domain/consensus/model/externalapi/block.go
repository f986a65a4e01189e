package externalapi

import "bytes"

// DomainBlock represents a block: a header, the uncle headers it
// includes, and its transactions. The first transaction is the cellbase.
type DomainBlock struct {
	Header       *DomainHeader
	Uncles       []*DomainHeader
	Transactions []*DomainTransaction
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	unclesClone := make([]*DomainHeader, len(block.Uncles))
	for i, uncle := range block.Uncles {
		unclesClone[i] = uncle.Clone()
	}

	transactionClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionClone[i] = tx.Clone()
	}

	return &DomainBlock{
		Header:       block.Header.Clone(),
		Uncles:       unclesClone,
		Transactions: transactionClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainBlock{&DomainHeader{}, []*DomainHeader{}, []*DomainTransaction{}}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if len(block.Transactions) != len(other.Transactions) || len(block.Uncles) != len(other.Uncles) {
		return false
	}

	if !block.Header.Equal(other.Header) {
		return false
	}

	for i, uncle := range block.Uncles {
		if !uncle.Equal(other.Uncles[i]) {
			return false
		}
	}

	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}

	return true
}

// DomainHeader represents the header part of a block
type DomainHeader struct {
	Version            uint32
	ParentHash         DomainHash
	TimeInMilliseconds int64
	Height             uint64
	EpochNumber        uint64
	CompactTarget      uint32
	TransactionsRoot   DomainHash
	WitnessesRoot      DomainHash
	UnclesHash         DomainHash
	Nonce              uint64
	Proof              []byte
}

// Clone returns a clone of DomainHeader
func (header *DomainHeader) Clone() *DomainHeader {
	return &DomainHeader{
		Version:            header.Version,
		ParentHash:         header.ParentHash,
		TimeInMilliseconds: header.TimeInMilliseconds,
		Height:             header.Height,
		EpochNumber:        header.EpochNumber,
		CompactTarget:      header.CompactTarget,
		TransactionsRoot:   header.TransactionsRoot,
		WitnessesRoot:      header.WitnessesRoot,
		UnclesHash:         header.UnclesHash,
		Nonce:              header.Nonce,
		Proof:              append([]byte(nil), header.Proof...),
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainHeader{0, DomainHash{}, 0, 0, 0, 0,
	DomainHash{}, DomainHash{}, DomainHash{}, 0, []byte{}}

// Equal returns whether header equals to other
func (header *DomainHeader) Equal(other *DomainHeader) bool {
	if header == nil || other == nil {
		return header == other
	}

	return header.Version == other.Version &&
		header.ParentHash.Equal(&other.ParentHash) &&
		header.TimeInMilliseconds == other.TimeInMilliseconds &&
		header.Height == other.Height &&
		header.EpochNumber == other.EpochNumber &&
		header.CompactTarget == other.CompactTarget &&
		header.TransactionsRoot.Equal(&other.TransactionsRoot) &&
		header.WitnessesRoot.Equal(&other.WitnessesRoot) &&
		header.UnclesHash.Equal(&other.UnclesHash) &&
		header.Nonce == other.Nonce &&
		bytes.Equal(header.Proof, other.Proof)
}
