// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/consensushashing"
	"github.com/321cherish/ckb/domain/consensus/utils/constants"
	"github.com/321cherish/ckb/domain/consensus/utils/merkle"
)

// genesisCompactTarget is the target every default network starts its
// first epoch with.
const genesisCompactTarget = 0x207fffff

// genesisBlockReward returns the reward of the first block of an epoch with
// the given totals. The first total%length blocks of an epoch receive one
// extra shannon.
func genesisBlockReward(primaryEpochReward, secondaryEpochReward, epochLength uint64) uint64 {
	primary := primaryEpochReward / epochLength
	if primaryEpochReward%epochLength > 0 {
		primary++
	}
	secondary := secondaryEpochReward / epochLength
	if secondaryEpochReward%epochLength > 0 {
		secondary++
	}
	return primary + secondary
}

// newGenesisCellbase builds the cellbase of a genesis block. Its single
// output is locked by a script whose code can never be provided, so the
// genesis reward is unspendable.
func newGenesisCellbase(reward uint64, message []byte) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: constants.TransactionVersion,
		Inputs: []*externalapi.DomainCellInput{{
			PreviousOutpoint: *externalapi.NullOutpoint(),
			Since:            0,
		}},
		Outputs: []*externalapi.DomainCellOutput{{
			Capacity: reward,
			Lock:     &externalapi.Script{},
		}},
		OutputsData: [][]byte{{}},
		Witnesses:   [][]byte{message},
	}
}

func newGenesisBlock(timeInMilliseconds int64, compactTarget uint32, reward uint64,
	message []byte) *externalapi.DomainBlock {

	transactions := []*externalapi.DomainTransaction{newGenesisCellbase(reward, message)}
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainHeader{
			Version:            constants.BlockVersion,
			ParentHash:         externalapi.DomainHash{},
			TimeInMilliseconds: timeInMilliseconds,
			Height:             0,
			EpochNumber:        0,
			CompactTarget:      compactTarget,
			TransactionsRoot:   *merkle.CalculateTransactionsRoot(transactions),
			WitnessesRoot:      *merkle.CalculateWitnessesRoot(transactions),
			UnclesHash:         *merkle.CalculateUnclesHash(nil),
			Nonce:              0,
		},
		Uncles:       []*externalapi.DomainHeader{},
		Transactions: transactions,
	}
}

// genesisBlock defines the genesis block of the chain which serves as the
// public transaction ledger for the main network.
var genesisBlock = newGenesisBlock(0x17a7a4f8d00, genesisCompactTarget,
	genesisBlockReward(defaultPrimaryEpochReward, defaultSecondaryEpochReward, defaultEpochLength),
	[]byte("ckb-mainnet"))

// genesisHash is the hash of the first block in the chain for the main
// network.
var genesisHash = consensushashing.BlockHash(genesisBlock)

// testnetGenesisBlock defines the genesis block for the test network.
var testnetGenesisBlock = newGenesisBlock(0x17a7a4f8d00, genesisCompactTarget,
	genesisBlockReward(defaultPrimaryEpochReward, defaultSecondaryEpochReward, defaultEpochLength),
	[]byte("ckb-testnet"))

// testnetGenesisHash is the hash of the first block in the chain for the
// test network.
var testnetGenesisHash = consensushashing.BlockHash(testnetGenesisBlock)

// simnetGenesisBlock defines the genesis block for the simulation test
// network.
var simnetGenesisBlock = newGenesisBlock(0x17a7a4f8d00, genesisCompactTarget,
	genesisBlockReward(defaultPrimaryEpochReward, defaultSecondaryEpochReward, simnetEpochLength),
	[]byte("ckb-simnet"))

// simnetGenesisHash is the hash of the first block in the chain for the
// simulation test network.
var simnetGenesisHash = consensushashing.BlockHash(simnetGenesisBlock)

// devnetGenesisBlock defines the genesis block for the development network.
var devnetGenesisBlock = newGenesisBlock(0x17a7a4f8d00, genesisCompactTarget,
	genesisBlockReward(defaultPrimaryEpochReward, defaultSecondaryEpochReward, devnetEpochLength),
	[]byte("ckb-devnet"))

// devnetGenesisHash is the hash of the first block in the chain for the
// development network.
var devnetGenesisHash = consensushashing.BlockHash(devnetGenesisBlock)
