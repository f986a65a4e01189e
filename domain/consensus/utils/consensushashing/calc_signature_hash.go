package consensushashing

import (
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
)

// CalculateSighashAll returns the message signed by lock scripts that commit
// to the whole transaction. Witnesses are not part of the transaction ID,
// so a signature stored in a witness does not invalidate itself.
func CalculateSighashAll(transactionID *externalapi.DomainTransactionID) *externalapi.DomainHash {
	writer := hashes.NewSighashWriter()
	writer.InfallibleWrite(transactionID.ByteArray()[:])
	return writer.Finalize()
}
