package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/utils/difficulty"
	"github.com/321cherish/ckb/domain/dagconfig"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet            bool   `long:"testnet" description:"Use the test network"`
	Simnet             bool   `long:"simnet" description:"Use the simulation test network"`
	Devnet             bool   `long:"devnet" description:"Use the development test network"`
	OverrideParamsFile string `long:"override-params-file" description:"Overrides chain params (allowed only on devnet)"`

	ActiveNetParams *dagconfig.Params
}

// overrideParamsConfig lists the parameters that may be overridden. Parameters
// the genesis block depends on are absent, since overriding them would
// invalidate it.
type overrideParamsConfig struct {
	PowMax                           *string `json:"powMax"`
	TargetTimePerBlockInMilliSeconds *int64  `json:"targetTimePerBlockInMilliSeconds"`
	RetargetBound                    *uint64 `json:"retargetBound"`
	CellbaseMaturity                 *uint64 `json:"cellbaseMaturity"`
	MaxBlockCycles                   *uint64 `json:"maxBlockCycles"`
	MedianTimeBlockCount             *int    `json:"medianTimeBlockCount"`
	MaxUncles                        *int    `json:"maxUncles"`
	MaxUncleAge                      *uint64 `json:"maxUncleAge"`
}

// ResolveNetwork parses the network command line argument and sets ActiveNetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// The params are copied so that overrides never leak into the
	// package level values
	params := dagconfig.MainnetParams
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		params = dagconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		params = dagconfig.SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		params = dagconfig.DevnetParams
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, simnet, devnet, etc.) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}
	networkFlags.ActiveNetParams = &params

	return networkFlags.overrideParams()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideParams() error {
	if networkFlags.OverrideParamsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-params-file is allowed only when using devnet")
	}

	overrideParamsFile, err := os.Open(networkFlags.OverrideParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideParamsFile.Close()

	decoder := json.NewDecoder(overrideParamsFile)
	decoder.DisallowUnknownFields()
	config := &overrideParamsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(err, "couldn't decode %s", networkFlags.OverrideParamsFile)
	}

	params := networkFlags.ActiveNetParams

	if config.PowMax != nil {
		powMax, err := uint256.FromHex("0x" + strings.TrimPrefix(*config.PowMax, "0x"))
		if err != nil {
			return errors.Wrapf(err, "couldn't convert %s to a 256-bit integer", *config.PowMax)
		}

		genesisTarget, err := difficulty.CompactToTarget(params.GenesisBlock.Header.CompactTarget)
		if err != nil {
			return err
		}
		if powMax.Lt(genesisTarget) {
			return errors.Errorf("powMax (%s) is smaller than genesis's target (%s)", powMax.Hex(),
				genesisTarget.Hex())
		}
		params.PowMax = powMax
	}

	if config.TargetTimePerBlockInMilliSeconds != nil {
		if *config.TargetTimePerBlockInMilliSeconds <= 0 {
			return errors.Errorf("targetTimePerBlockInMilliSeconds must be positive")
		}
		params.TargetTimePerBlock = time.Duration(*config.TargetTimePerBlockInMilliSeconds) * time.Millisecond
	}

	if config.RetargetBound != nil {
		if *config.RetargetBound == 0 {
			return errors.Errorf("retargetBound must be positive")
		}
		params.RetargetBound = *config.RetargetBound
	}

	if config.CellbaseMaturity != nil {
		params.CellbaseMaturity = *config.CellbaseMaturity
	}

	if config.MaxBlockCycles != nil {
		params.MaxBlockCycles = *config.MaxBlockCycles
	}

	if config.MedianTimeBlockCount != nil {
		if *config.MedianTimeBlockCount <= 0 {
			return errors.Errorf("medianTimeBlockCount must be positive")
		}
		params.MedianTimeBlockCount = *config.MedianTimeBlockCount
	}

	if config.MaxUncles != nil {
		params.MaxUncles = *config.MaxUncles
	}

	if config.MaxUncleAge != nil {
		params.MaxUncleAge = *config.MaxUncleAge
	}

	return nil
}
