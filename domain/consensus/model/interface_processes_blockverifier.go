package model

import (
	"context"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
)

// BlockVerifier checks a whole block: its header, commitments, cellbase,
// transactions and uncles
type BlockVerifier interface {
	VerifyBlock(ctx context.Context, block *externalapi.DomainBlock, verifyContext *VerifyContext) error
}
