package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// EpochManager derives epochs from one another
type EpochManager interface {
	GenesisEpoch() *externalapi.Epoch
	NextEpoch(current *externalapi.Epoch, firstHeader, lastHeader *externalapi.DomainHeader) (*externalapi.Epoch, error)
}
