package consensus

import (
	"runtime"

	"github.com/321cherish/ckb/domain/dagconfig"
)

const defaultResolverCacheSize = 10_000

// Config is a descriptor for the consensus engine: the chain parameters
// of the network plus the knobs of this node
type Config struct {
	dagconfig.Params

	// SkipProofOfWork disables the verification of header seals. It is
	// meant for tests only.
	SkipProofOfWork bool

	// ResolverCacheSize is the number of transaction resolutions kept by
	// the resolver cache. A non-positive value selects the default.
	ResolverCacheSize int

	// VerifyWorkers bounds the number of transactions and uncles of a block
	// verified concurrently. A non-positive value selects the number of
	// CPUs.
	VerifyWorkers int
}

func (c *Config) resolverCacheSize() int {
	if c.ResolverCacheSize <= 0 {
		return defaultResolverCacheSize
	}
	return c.ResolverCacheSize
}

func (c *Config) verifyWorkers() int {
	if c.VerifyWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.VerifyWorkers
}
