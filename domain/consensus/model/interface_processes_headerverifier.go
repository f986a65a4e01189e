package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// HeaderVerifier checks that a header may extend its parent
type HeaderVerifier interface {
	VerifyHeader(header *externalapi.DomainHeader, parent *externalapi.DomainHeader,
		epoch *externalapi.Epoch, verifyContext *VerifyContext) error
}
