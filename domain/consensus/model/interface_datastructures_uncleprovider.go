package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// UncleProvider answers uncle eligibility questions relative to a single
// chain of blocks
type UncleProvider interface {
	// IsUncleIncluded returns whether the given header was already included
	// as an uncle by a block of the chain.
	IsUncleIncluded(uncleHash *externalapi.DomainHash) (bool, error)

	// IsMainChainAncestor returns whether the given block is part of the
	// chain.
	IsMainChainAncestor(blockHash *externalapi.DomainHash) (bool, error)
}
