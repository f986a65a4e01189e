package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// PastMedianTimeManager provides a method to resolve the
// past median time of a block
type PastMedianTimeManager interface {
	PastMedianTime(headers HeaderProvider, blockHash *externalapi.DomainHash) (int64, error)
}
