package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// HeaderProvider gives access to the history of headers
type HeaderProvider interface {
	Header(blockHash *externalapi.DomainHash) (*externalapi.DomainHeader, error)
	HasHeader(blockHash *externalapi.DomainHash) (bool, error)
}
