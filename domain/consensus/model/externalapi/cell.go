package externalapi

import "bytes"

// TransactionInfo records where the transaction that created a cell
// was committed
type TransactionInfo struct {
	BlockHash   DomainHash
	BlockHeight uint64
	BlockEpoch  uint64
	IsCellbase  bool
}

// CellMeta is a live cell as reported by the chain state: the output
// itself, its data, and the block its transaction was committed in.
type CellMeta struct {
	Outpoint        DomainOutpoint
	Output          *DomainCellOutput
	Data            []byte
	TransactionInfo *TransactionInfo
}

// IsCellbase returns whether the cell was created by a cellbase transaction
func (cell *CellMeta) IsCellbase() bool {
	return cell.TransactionInfo != nil && cell.TransactionInfo.IsCellbase
}

// Clone returns a clone of CellMeta
func (cell *CellMeta) Clone() *CellMeta {
	var transactionInfoClone *TransactionInfo
	if cell.TransactionInfo != nil {
		info := *cell.TransactionInfo
		transactionInfoClone = &info
	}

	return &CellMeta{
		Outpoint:        cell.Outpoint,
		Output:          cell.Output.Clone(),
		Data:            append([]byte(nil), cell.Data...),
		TransactionInfo: transactionInfoClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &CellMeta{DomainOutpoint{}, &DomainCellOutput{}, []byte{}, &TransactionInfo{}}

// Equal returns whether cell equals to other
func (cell *CellMeta) Equal(other *CellMeta) bool {
	if cell == nil || other == nil {
		return cell == other
	}

	if (cell.TransactionInfo == nil) != (other.TransactionInfo == nil) {
		return false
	}
	if cell.TransactionInfo != nil && *cell.TransactionInfo != *other.TransactionInfo {
		return false
	}

	return cell.Outpoint.Equal(&other.Outpoint) &&
		cell.Output.Equal(other.Output) &&
		bytes.Equal(cell.Data, other.Data)
}

// CellStatus is the chain state's answer to a point lookup of an outpoint
type CellStatus uint8

const (
	// CellStatusUnknown means the outpoint is not known to the chain state.
	// The cell may still appear later.
	CellStatusUnknown CellStatus = iota

	// CellStatusLive means the cell exists and is unspent
	CellStatusLive

	// CellStatusDead means the cell existed and has been spent
	CellStatusDead
)

var cellStatusStrings = map[CellStatus]string{
	CellStatusUnknown: "Unknown",
	CellStatusLive:    "Live",
	CellStatusDead:    "Dead",
}

func (cs CellStatus) String() string {
	return cellStatusStrings[cs]
}
