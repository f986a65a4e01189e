package testutils

import (
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
	"github.com/321cherish/ckb/domain/consensus/utils/memchainstate"
	"github.com/321cherish/ckb/domain/consensus/utils/scriptvm"
)

// AlwaysSuccessLock returns a lock script anyone can unlock, given the
// always-success code as a cell dep
func AlwaysSuccessLock() *externalapi.Script {
	return &externalapi.Script{CodeHash: *scriptvm.AlwaysSuccessCodeHash}
}

// AlwaysFailureLock returns a lock script no one can unlock
func AlwaysFailureLock() *externalapi.Script {
	return &externalapi.Script{CodeHash: *scriptvm.AlwaysFailureCodeHash}
}

// SystemCellOutpoint returns the outpoint AddSystemCells keeps code at
func SystemCellOutpoint(code []byte) *externalapi.DomainOutpoint {
	transactionID := externalapi.DomainTransactionID(*hashes.DataHash(code))
	return externalapi.NewDomainOutpoint(&transactionID, 0)
}

// AddSystemCells makes the code of every built-in script program live in
// chain, as if it were created by a transaction of the genesis block
func AddSystemCells(chain *memchainstate.ChainState) {
	genesisHash := chain.Params().GenesisHash
	codes := [][]byte{
		scriptvm.AlwaysSuccessCode,
		scriptvm.AlwaysFailureCode,
		scriptvm.Secp256k1Blake2bSighashAllCode,
	}
	for _, code := range codes {
		chain.AddCell(&externalapi.CellMeta{
			Outpoint: *SystemCellOutpoint(code),
			Output: &externalapi.DomainCellOutput{
				Capacity: 0,
				Lock:     AlwaysFailureLock(),
			},
			Data: code,
			TransactionInfo: &externalapi.TransactionInfo{
				BlockHash:   *genesisHash,
				BlockHeight: 0,
				BlockEpoch:  0,
				IsCellbase:  false,
			},
		})
	}
}
