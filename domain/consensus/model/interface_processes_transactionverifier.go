package model

import (
	"context"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// TransactionVerifier checks a resolved non-cellbase transaction and
// returns the cycles its scripts consumed
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, transaction *externalapi.ResolvedTransaction,
		verifyContext *VerifyContext) (uint64, error)
}
