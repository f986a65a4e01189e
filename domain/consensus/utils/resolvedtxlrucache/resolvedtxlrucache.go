package resolvedtxlrucache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// Entry is the cell data a transaction was resolved to
type Entry struct {
	ResolvedInputs []*externalapi.CellMeta
	ResolvedDeps   []*externalapi.CellMeta
}

// LRUCache is a least-recently-used cache of transaction resolutions
// indexed by DomainTransactionID
type LRUCache struct {
	cache *lru.Cache
}

// New creates a new LRUCache
func New(capacity int) (*LRUCache, error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create a resolution cache of capacity %d", capacity)
	}
	return &LRUCache{cache: cache}, nil
}

// Add adds an entry to the LRUCache. The cache keeps its own copies of the
// given cells.
func (c *LRUCache) Add(key *externalapi.DomainTransactionID, resolvedInputs, resolvedDeps []*externalapi.CellMeta) {
	c.cache.Add(*key, &Entry{
		ResolvedInputs: cloneCellMetas(resolvedInputs),
		ResolvedDeps:   cloneCellMetas(resolvedDeps),
	})
}

// Get returns a copy of the entry for the given key, or (nil, false)
// otherwise. The caller owns the returned cells.
func (c *LRUCache) Get(key *externalapi.DomainTransactionID) (*Entry, bool) {
	value, ok := c.cache.Get(*key)
	if !ok {
		return nil, false
	}
	entry := value.(*Entry)
	return &Entry{
		ResolvedInputs: cloneCellMetas(entry.ResolvedInputs),
		ResolvedDeps:   cloneCellMetas(entry.ResolvedDeps),
	}, true
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache) Has(key *externalapi.DomainTransactionID) bool {
	return c.cache.Contains(*key)
}

// Remove removes the entry for the the given key. Does nothing if
// the entry does not exist
func (c *LRUCache) Remove(key *externalapi.DomainTransactionID) {
	c.cache.Remove(*key)
}

// Clear clears the cache
func (c *LRUCache) Clear() {
	c.cache.Purge()
}

// Len returns the number of entries in the cache
func (c *LRUCache) Len() int {
	return c.cache.Len()
}

func cloneCellMetas(cells []*externalapi.CellMeta) []*externalapi.CellMeta {
	clone := make([]*externalapi.CellMeta, len(cells))
	for i, cell := range cells {
		clone[i] = cell.Clone()
	}
	return clone
}
