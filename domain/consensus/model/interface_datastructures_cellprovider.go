package model

import "github.com/321cherish/ckb/domain/consensus/model/externalapi"

// CellProvider looks up cells of the chain state the engine verifies against
type CellProvider interface {
	// Cell returns the cell at outpoint together with its status. The
	// returned CellMeta is non-nil only when the status is CellStatusLive.
	Cell(outpoint *externalapi.DomainOutpoint) (*externalapi.CellMeta, externalapi.CellStatus, error)
}
