package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// TransactionResolver turns a transaction into a ResolvedTransaction by
// looking up the cells it consumes and depends on
type TransactionResolver interface {
	Resolve(transaction *externalapi.DomainTransaction, cells CellProvider) (*externalapi.ResolvedTransaction, error)

	// Purge forgets every cached resolution. It must be called whenever the
	// chain state changes.
	Purge()

	// CacheStats returns the number of cache hits and misses so far
	CacheStats() (hits uint64, misses uint64)
}
