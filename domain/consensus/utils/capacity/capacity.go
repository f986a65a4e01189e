package capacity

import (
	"math/bits"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/constants"
	"github.com/pkg/errors"
)

// ErrOverflow is returned when a capacity sum does not fit in 64 bits
var ErrOverflow = errors.New("capacity overflow")

// SafeAdd returns a+b, or ErrOverflow if the sum overflows
func SafeAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errors.WithStack(ErrOverflow)
	}
	return sum, nil
}

// SafeMul returns a*b, or ErrOverflow if the product overflows
func SafeMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errors.WithStack(ErrOverflow)
	}
	return lo, nil
}

// Sum returns the sum of the given capacities, or ErrOverflow
func Sum(capacities ...uint64) (uint64, error) {
	total := uint64(0)
	for _, capacity := range capacities {
		var err error
		total, err = SafeAdd(total, capacity)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// ScriptSize returns the number of bytes a script occupies in a cell
func ScriptSize(script *externalapi.Script) uint64 {
	if script == nil {
		return 0
	}
	return constants.ScriptCodeHashSize + uint64(len(script.Args))
}

// OccupiedCapacity returns the capacity, in shannons, the given output needs
// to store itself and its data on chain
func OccupiedCapacity(output *externalapi.DomainCellOutput, data []byte) (uint64, error) {
	occupiedBytes, err := Sum(constants.CapacityFieldSize, ScriptSize(output.Lock),
		ScriptSize(output.Type), uint64(len(data)))
	if err != nil {
		return 0, err
	}
	return SafeMul(occupiedBytes, constants.ShannonsPerByte)
}
