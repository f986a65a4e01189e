package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/memchainstate"
	"github.com/321cherish/ckb/infrastructure/logger"
	"github.com/321cherish/ckb/util/panics"
	"github.com/321cherish/ckb/version"
)

func main() {
	defer panics.HandlePanic(log, "MAIN", nil)

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	log.Infof("Version %s", version.Version())

	err = verifyGenesis(cfg)
	if err != nil {
		log.Criticalf("Genesis verification failed: %+v", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

// verifyGenesis verifies the genesis block of the selected network against
// a chain state holding nothing before it
func verifyGenesis(cfg *configFlags) error {
	consensusConfig := &consensus.Config{Params: *cfg.NetParams()}
	genesis := consensusConfig.GenesisBlock

	if cfg.DumpBlock {
		log.Infof("Genesis block of %s:\n%s", consensusConfig.Name, spew.Sdump(genesis))
	}

	genesisHash := consensushashing.BlockHash(genesis)
	if !genesisHash.Equal(consensusConfig.GenesisHash) {
		return errors.Errorf("genesis block hashes to %s while the network expects %s",
			genesisHash, consensusConfig.GenesisHash)
	}

	c, err := consensus.NewFactory().NewConsensus(consensusConfig)
	if err != nil {
		return err
	}
	state, err := memchainstate.New(&consensusConfig.Params, c.EpochManager())
	if err != nil {
		return err
	}

	err = c.VerifyBlock(context.Background(), genesis, state.GenesisVerifyContext())
	if err != nil {
		return errors.Wrapf(err, "genesis block %s of %s is invalid", genesisHash, consensusConfig.Name)
	}

	reward, err := c.RewardFor(0, c.GenesisEpoch())
	if err != nil {
		return err
	}
	log.Infof("Genesis block %s of %s is valid (epoch length %d, target %08x, reward %d)",
		genesisHash, consensusConfig.Name, c.GenesisEpoch().Length, c.GenesisEpoch().CompactTarget,
		reward.Total())
	return nil
}
