package externalapi

import (
	"bytes"
	"fmt"
	"math"
)

// DomainTransaction represents a transaction that consumes live cells
// and creates new ones
type DomainTransaction struct {
	Version     uint32
	CellDeps    []*DomainOutpoint
	Inputs      []*DomainCellInput
	Outputs     []*DomainCellOutput
	OutputsData [][]byte
	Witnesses   [][]byte
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	cellDepsClone := make([]*DomainOutpoint, len(tx.CellDeps))
	for i, dep := range tx.CellDeps {
		cellDepsClone[i] = dep.Clone()
	}

	inputsClone := make([]*DomainCellInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputsClone[i] = input.Clone()
	}

	outputsClone := make([]*DomainCellOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputsClone[i] = output.Clone()
	}

	return &DomainTransaction{
		Version:     tx.Version,
		CellDeps:    cellDepsClone,
		Inputs:      inputsClone,
		Outputs:     outputsClone,
		OutputsData: cloneByteSlices(tx.OutputsData),
		Witnesses:   cloneByteSlices(tx.Witnesses),
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainTransaction{0, []*DomainOutpoint{}, []*DomainCellInput{}, []*DomainCellOutput{},
	[][]byte{}, [][]byte{}}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if tx.Version != other.Version {
		return false
	}

	if len(tx.CellDeps) != len(other.CellDeps) {
		return false
	}
	for i, dep := range tx.CellDeps {
		if !dep.Equal(other.CellDeps[i]) {
			return false
		}
	}

	if len(tx.Inputs) != len(other.Inputs) {
		return false
	}
	for i, input := range tx.Inputs {
		if !input.Equal(other.Inputs[i]) {
			return false
		}
	}

	if len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i, output := range tx.Outputs {
		if !output.Equal(other.Outputs[i]) {
			return false
		}
	}

	return byteSlicesEqual(tx.OutputsData, other.OutputsData) &&
		byteSlicesEqual(tx.Witnesses, other.Witnesses)
}

// IsCellbase returns whether the transaction has the shape of a cellbase:
// a single input that spends the null outpoint
func (tx *DomainTransaction) IsCellbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PreviousOutpoint.IsNull()
}

// DomainCellInput represents a reference to a live cell that a transaction consumes
type DomainCellInput struct {
	PreviousOutpoint DomainOutpoint
	Since            uint64
}

// Clone returns a clone of DomainCellInput
func (input *DomainCellInput) Clone() *DomainCellInput {
	return &DomainCellInput{
		PreviousOutpoint: *input.PreviousOutpoint.Clone(),
		Since:            input.Since,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainCellInput{DomainOutpoint{}, 0}

// Equal returns whether input equals to other
func (input *DomainCellInput) Equal(other *DomainCellInput) bool {
	if input == nil || other == nil {
		return input == other
	}

	return input.PreviousOutpoint.Equal(&other.PreviousOutpoint) &&
		input.Since == other.Since
}

// NullOutpointIndex is the output index of the null outpoint
const NullOutpointIndex = math.MaxUint32

// DomainOutpoint identifies a cell by the ID of the transaction that
// created it and the index of the output within that transaction
type DomainOutpoint struct {
	TransactionID DomainTransactionID
	Index         uint32
}

// NewDomainOutpoint instantiates a new DomainOutpoint with the given id and index
func NewDomainOutpoint(id *DomainTransactionID, index uint32) *DomainOutpoint {
	return &DomainOutpoint{
		TransactionID: *id,
		Index:         index,
	}
}

// NullOutpoint returns the synthetic outpoint spent by a cellbase
func NullOutpoint() *DomainOutpoint {
	return &DomainOutpoint{Index: NullOutpointIndex}
}

// IsNull returns whether the outpoint is the synthetic cellbase outpoint
func (op *DomainOutpoint) IsNull() bool {
	return op.Index == NullOutpointIndex && (*DomainHash)(&op.TransactionID).IsZero()
}

// Clone returns a clone of DomainOutpoint
func (op *DomainOutpoint) Clone() *DomainOutpoint {
	return &DomainOutpoint{
		TransactionID: op.TransactionID,
		Index:         op.Index,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainOutpoint{DomainTransactionID{}, 0}

// Equal returns whether op equals to other
func (op *DomainOutpoint) Equal(other *DomainOutpoint) bool {
	if op == nil || other == nil {
		return op == other
	}

	return *op == *other
}

// String stringifies an outpoint.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("(%s: %d)", op.TransactionID, op.Index)
}

// DomainCellOutput represents a cell created by a transaction
type DomainCellOutput struct {
	Capacity uint64
	Lock     *Script
	Type     *Script
}

// Clone returns a clone of DomainCellOutput
func (output *DomainCellOutput) Clone() *DomainCellOutput {
	return &DomainCellOutput{
		Capacity: output.Capacity,
		Lock:     output.Lock.Clone(),
		Type:     output.Type.Clone(),
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainCellOutput{0, &Script{}, &Script{}}

// Equal returns whether output equals to other
func (output *DomainCellOutput) Equal(other *DomainCellOutput) bool {
	if output == nil || other == nil {
		return output == other
	}

	return output.Capacity == other.Capacity &&
		output.Lock.Equal(other.Lock) &&
		output.Type.Equal(other.Type)
}

// DomainTransactionID represents the ID of a transaction
type DomainTransactionID DomainHash

// NewDomainTransactionIDFromByteArray constructs a new TransactionID out of a byte array
func NewDomainTransactionIDFromByteArray(transactionIDBytes *[DomainHashSize]byte) *DomainTransactionID {
	return (*DomainTransactionID)(NewDomainHashFromByteArray(transactionIDBytes))
}

// String stringifies a transaction ID.
func (id DomainTransactionID) String() string {
	return DomainHash(id).String()
}

// Equal returns whether id equals to other
func (id *DomainTransactionID) Equal(other *DomainTransactionID) bool {
	return (*DomainHash)(id).Equal((*DomainHash)(other))
}

// ByteArray returns the bytes in this transactionID represented as a byte array.
// The transactionID bytes are cloned, therefore it is safe to modify the resulting array.
func (id *DomainTransactionID) ByteArray() *[DomainHashSize]byte {
	return (*DomainHash)(id).ByteArray()
}

func cloneByteSlices(slices [][]byte) [][]byte {
	if slices == nil {
		return nil
	}
	clone := make([][]byte, len(slices))
	for i, slice := range slices {
		clone[i] = append([]byte(nil), slice...)
	}
	return clone
}

func byteSlicesEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
