package transactionresolver

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model"
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/resolvedtxlrucache"
)

type transactionResolver struct {
	cacheLock sync.Mutex
	cache     *resolvedtxlrucache.LRUCache

	hits   uint64
	misses uint64
}

// New instantiates a new TransactionResolver that remembers the last
// cacheSize successful resolutions
func New(cacheSize int) (model.TransactionResolver, error) {
	cache, err := resolvedtxlrucache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &transactionResolver{cache: cache}, nil
}

// Resolve binds every input and cell dep of transaction to a live cell. A
// cellbase spends no cell, so it resolves to no cells at all.
func (tr *transactionResolver) Resolve(transaction *externalapi.DomainTransaction,
	cells model.CellProvider) (*externalapi.ResolvedTransaction, error) {

	transactionID := consensushashing.TransactionID(transaction)
	if transaction.IsCellbase() {
		return &externalapi.ResolvedTransaction{
			Transaction:   transaction,
			TransactionID: transactionID,
		}, nil
	}

	tr.cacheLock.Lock()
	entry, ok := tr.cache.Get(transactionID)
	tr.cacheLock.Unlock()
	if ok {
		atomic.AddUint64(&tr.hits, 1)
		log.Tracef("Resolved transaction %s from cache", transactionID)
		return &externalapi.ResolvedTransaction{
			Transaction:    transaction,
			TransactionID:  transactionID,
			ResolvedInputs: entry.ResolvedInputs,
			ResolvedDeps:   entry.ResolvedDeps,
		}, nil
	}
	atomic.AddUint64(&tr.misses, 1)

	resolvedInputs := make([]*externalapi.CellMeta, len(transaction.Inputs))
	for i, input := range transaction.Inputs {
		cell, err := resolveCell(cells, &input.PreviousOutpoint, false)
		if err != nil {
			return nil, err
		}
		resolvedInputs[i] = cell
	}

	resolvedDeps := make([]*externalapi.CellMeta, len(transaction.CellDeps))
	for i, dep := range transaction.CellDeps {
		cell, err := resolveCell(cells, dep, true)
		if err != nil {
			return nil, err
		}
		resolvedDeps[i] = cell
	}

	tr.cacheLock.Lock()
	tr.cache.Add(transactionID, resolvedInputs, resolvedDeps)
	tr.cacheLock.Unlock()

	return &externalapi.ResolvedTransaction{
		Transaction:    transaction,
		TransactionID:  transactionID,
		ResolvedInputs: resolvedInputs,
		ResolvedDeps:   resolvedDeps,
	}, nil
}

func resolveCell(cells model.CellProvider, outpoint *externalapi.DomainOutpoint,
	isDep bool) (*externalapi.CellMeta, error) {

	cell, status, err := cells.Cell(outpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up cell %s", outpoint)
	}
	if status != externalapi.CellStatusLive {
		return nil, ruleerrors.NewErrUnresolvableInput(outpoint, status, isDep)
	}
	if cell == nil {
		return nil, errors.Errorf("cell %s is live but its data is missing", outpoint)
	}
	return cell, nil
}

// Purge forgets every cached resolution
func (tr *transactionResolver) Purge() {
	tr.cacheLock.Lock()
	defer tr.cacheLock.Unlock()

	log.Debugf("Purging %d cached resolutions", tr.cache.Len())
	tr.cache.Clear()
}

// CacheStats returns the number of cache hits and misses so far
func (tr *transactionResolver) CacheStats() (hits uint64, misses uint64) {
	return atomic.LoadUint64(&tr.hits), atomic.LoadUint64(&tr.misses)
}
