// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// PowFunction selects the proof-of-work adapter a network seals its blocks with.
type PowFunction uint8

const (
	// PowFunctionCuckoo is a siphash-2-4 keyed cuckoo cycle seal.
	PowFunctionCuckoo PowFunction = iota

	// PowFunctionBlake2b is a plain blake2b hash-below-target seal.
	PowFunctionBlake2b

	// PowFunctionDummy accepts any seal.
	PowFunctionDummy
)

var powFunctionStrings = map[PowFunction]string{
	PowFunctionCuckoo:  "cuckoo",
	PowFunctionBlake2b: "blake2b",
	PowFunctionDummy:   "dummy",
}

func (p PowFunction) String() string {
	if s, ok := powFunctionStrings[p]; ok {
		return s
	}
	return "unknown"
}

// These variables are the proof of work limit parameters for each default
// network.
var (
	// mainPowMax is the highest proof of work value a block can have for the
	// main network. It is the value 2^255 - 1.
	mainPowMax = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))

	// testnetPowMax is the highest proof of work value a block can have for
	// the test network. It is the value 2^255 - 1.
	testnetPowMax = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))

	// simnetPowMax is the highest proof of work value a block can have for
	// the simulation test network. It is the value 2^255 - 1.
	simnetPowMax = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))

	// devnetPowMax is the highest proof of work value a block can have for
	// the development network. It is the value 2^255 - 1.
	devnetPowMax = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))
)

const (
	defaultEpochLength            = 1800
	defaultTargetTimePerBlock     = 8 * time.Second
	defaultRetargetBound          = 2
	defaultPrimaryEpochReward     = 191_780_821_917_808
	defaultSecondaryEpochReward   = 61_369_863_013_698
	defaultPrimaryHalvingInterval = 8760
	defaultMaxBlockCycles         = 3_500_000_000
	defaultMedianTimeBlockCount   = 37
	defaultMaxUncles              = 2
	defaultMaxUncleAge            = 6
	defaultMaxBlockVersion        = 0

	simnetEpochLength = 100
	devnetEpochLength = 10
)

// Params defines a network by its consensus parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *externalapi.DomainBlock

	// GenesisHash is the starting block hash.
	GenesisHash *externalapi.DomainHash

	// PowFunction selects the seal verified by the header verifier.
	PowFunction PowFunction

	// CuckooEdgeBits is log2 of the number of edges of the cuckoo graph.
	CuckooEdgeBits uint8

	// CuckooCycleLength is the number of edges a cuckoo proof must contain.
	CuckooCycleLength int

	// PowMax defines the highest allowed proof of work target for a block.
	PowMax *uint256.Int

	// EpochLength is the number of blocks in every epoch.
	EpochLength uint64

	// TargetTimePerBlock is the desired amount of time to generate each
	// block. An epoch is expected to last EpochLength times this.
	TargetTimePerBlock time.Duration

	// RetargetBound limits how much the target may move between two
	// consecutive epochs, in either direction.
	RetargetBound uint64

	// PrimaryEpochReward is the primary issuance of the first epoch, shared
	// among its blocks.
	PrimaryEpochReward uint64

	// SecondaryEpochReward is the secondary issuance of every epoch.
	SecondaryEpochReward uint64

	// PrimaryHalvingInterval is the number of epochs after which the
	// primary epoch reward is halved.
	PrimaryHalvingInterval uint64

	// CellbaseMaturity is the number of blocks required before the outputs
	// of a cellbase can be spent or used as a dep.
	CellbaseMaturity uint64

	// MaxBlockCycles is the script execution budget of a whole block.
	MaxBlockCycles uint64

	// MedianTimeBlockCount is the number of ancestors whose median timestamp
	// a new header must exceed.
	MedianTimeBlockCount int

	// MaxUncles is the highest number of uncles a block may include.
	MaxUncles int

	// MaxUncleAge is the highest height distance between a block and any of
	// its uncles.
	MaxUncleAge uint64

	// MaxBlockVersion is the newest block version this node understands.
	MaxBlockVersion uint32
}

// TargetEpochDuration returns the expected duration of an epoch of the
// given length, measured from its first block to its last.
func (p *Params) TargetEpochDuration(length uint64) time.Duration {
	if length < 2 {
		return p.TargetTimePerBlock
	}
	return time.Duration(length-1) * p.TargetTimePerBlock
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:                   "ckb-mainnet",
	GenesisBlock:           genesisBlock,
	GenesisHash:            genesisHash,
	PowFunction:            PowFunctionCuckoo,
	CuckooEdgeBits:         29,
	CuckooCycleLength:      42,
	PowMax:                 mainPowMax,
	EpochLength:            defaultEpochLength,
	TargetTimePerBlock:     defaultTargetTimePerBlock,
	RetargetBound:          defaultRetargetBound,
	PrimaryEpochReward:     defaultPrimaryEpochReward,
	SecondaryEpochReward:   defaultSecondaryEpochReward,
	PrimaryHalvingInterval: defaultPrimaryHalvingInterval,
	CellbaseMaturity:       4 * defaultEpochLength,
	MaxBlockCycles:         defaultMaxBlockCycles,
	MedianTimeBlockCount:   defaultMedianTimeBlockCount,
	MaxUncles:              defaultMaxUncles,
	MaxUncleAge:            defaultMaxUncleAge,
	MaxBlockVersion:        defaultMaxBlockVersion,
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:                   "ckb-testnet",
	GenesisBlock:           testnetGenesisBlock,
	GenesisHash:            testnetGenesisHash,
	PowFunction:            PowFunctionCuckoo,
	CuckooEdgeBits:         15,
	CuckooCycleLength:      12,
	PowMax:                 testnetPowMax,
	EpochLength:            defaultEpochLength,
	TargetTimePerBlock:     defaultTargetTimePerBlock,
	RetargetBound:          defaultRetargetBound,
	PrimaryEpochReward:     defaultPrimaryEpochReward,
	SecondaryEpochReward:   defaultSecondaryEpochReward,
	PrimaryHalvingInterval: defaultPrimaryHalvingInterval,
	CellbaseMaturity:       100,
	MaxBlockCycles:         defaultMaxBlockCycles,
	MedianTimeBlockCount:   defaultMedianTimeBlockCount,
	MaxUncles:              defaultMaxUncles,
	MaxUncleAge:            defaultMaxUncleAge,
	MaxBlockVersion:        defaultMaxBlockVersion,
}

// SimnetParams defines the network parameters for the simulation test
// network. Blocks are sealed with a plain blake2b hash so that tests can
// mine them quickly.
var SimnetParams = Params{
	Name:                   "ckb-simnet",
	GenesisBlock:           simnetGenesisBlock,
	GenesisHash:            simnetGenesisHash,
	PowFunction:            PowFunctionBlake2b,
	PowMax:                 simnetPowMax,
	EpochLength:            simnetEpochLength,
	TargetTimePerBlock:     time.Second,
	RetargetBound:          defaultRetargetBound,
	PrimaryEpochReward:     defaultPrimaryEpochReward,
	SecondaryEpochReward:   defaultSecondaryEpochReward,
	PrimaryHalvingInterval: 10,
	CellbaseMaturity:       10,
	MaxBlockCycles:         defaultMaxBlockCycles,
	MedianTimeBlockCount:   11,
	MaxUncles:              defaultMaxUncles,
	MaxUncleAge:            defaultMaxUncleAge,
	MaxBlockVersion:        defaultMaxBlockVersion,
}

// DevnetParams defines the network parameters for the development network.
// Its seal is never checked.
var DevnetParams = Params{
	Name:                   "ckb-devnet",
	GenesisBlock:           devnetGenesisBlock,
	GenesisHash:            devnetGenesisHash,
	PowFunction:            PowFunctionDummy,
	PowMax:                 devnetPowMax,
	EpochLength:            devnetEpochLength,
	TargetTimePerBlock:     time.Second,
	RetargetBound:          defaultRetargetBound,
	PrimaryEpochReward:     defaultPrimaryEpochReward,
	SecondaryEpochReward:   defaultSecondaryEpochReward,
	PrimaryHalvingInterval: 10,
	CellbaseMaturity:       0,
	MaxBlockCycles:         defaultMaxBlockCycles,
	MedianTimeBlockCount:   defaultMedianTimeBlockCount,
	MaxUncles:              defaultMaxUncles,
	MaxUncleAge:            defaultMaxUncleAge,
	MaxBlockVersion:        defaultMaxBlockVersion,
}
