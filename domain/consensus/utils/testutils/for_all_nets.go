package testutils

import (
	"testing"

	"github.com/321cherish/ckb/domain/consensus"
	"github.com/321cherish/ckb/domain/dagconfig"
)

// ForAllNets runs the passed testFunc with all available networks
// if skipPow = true - header seals are not verified, which is required to
// build chains on networks sealed with cuckoo cycles
func ForAllNets(t *testing.T, skipPow bool, testFunc func(*testing.T, *consensus.Config)) {
	allParams := []dagconfig.Params{
		dagconfig.MainnetParams,
		dagconfig.TestnetParams,
		dagconfig.SimnetParams,
		dagconfig.DevnetParams,
	}

	for _, params := range allParams {
		consensusConfig := consensus.Config{Params: params}
		t.Run(consensusConfig.Name, func(t *testing.T) {
			t.Parallel()
			consensusConfig.SkipProofOfWork = skipPow
			t.Logf("Running test for %s", consensusConfig.Name)
			testFunc(t, &consensusConfig)
		})
	}
}
