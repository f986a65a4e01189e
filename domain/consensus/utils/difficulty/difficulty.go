// Package difficulty converts between the compact representation of a
// proof-of-work target, the 256-bit target itself and the difficulty it
// stands for, and computes epoch retargets.
//
// The compact form is the same as the "bits" field of Bitcoin headers: the
// most significant byte is an exponent in bytes, and the remaining three
// bytes are the mantissa. Bit 23 is a sign bit, and a negative target is
// never valid.
package difficulty

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

const (
	compactMantissaMask = 0x007fffff
	compactSignBit      = 0x00800000
)

var maxTarget = new(uint256.Int).SetAllOne()

// CompactToTarget converts a compact representation of a target to the
// target itself. It returns an error for negative, zero or overflowing
// targets.
func CompactToTarget(compact uint32) (*uint256.Int, error) {
	if compact&compactSignBit != 0 {
		return nil, errors.Errorf("compact target %08x is negative", compact)
	}

	mantissa := uint64(compact & compactMantissaMask)
	exponent := uint(compact >> 24)

	target := new(uint256.Int)
	if exponent <= 3 {
		target.SetUint64(mantissa >> (8 * (3 - exponent)))
	} else {
		shift := 8 * (exponent - 3)
		target.SetUint64(mantissa)
		if mantissa != 0 && uint(target.BitLen())+shift > 256 {
			return nil, errors.Errorf("compact target %08x overflows 256 bits", compact)
		}
		target.Lsh(target, shift)
	}

	if target.IsZero() {
		return nil, errors.Errorf("compact target %08x is zero", compact)
	}
	return target, nil
}

// TargetToCompact converts a target to its compact representation. The
// conversion truncates the target to its three most significant bytes.
func TargetToCompact(target *uint256.Int) uint32 {
	if target.IsZero() {
		return 0
	}

	exponent := uint(target.ByteLen())
	var mantissa uint32
	if exponent <= 3 {
		mantissa = uint32(target.Uint64())
		mantissa <<= 8 * (3 - exponent)
	} else {
		mantissa = uint32(new(uint256.Int).Rsh(target, 8*(exponent-3)).Uint64())
	}

	// The sign bit is set, so shift the mantissa down one byte and bump the
	// exponent to keep the target positive.
	if mantissa&compactSignBit != 0 {
		mantissa >>= 8
		exponent++
	}

	return uint32(exponent<<24) | mantissa
}

// CompactToDifficulty returns the difficulty the given compact target stands
// for: the number of hashes expected to find a seal, 2^256 / (target + 1)
// rounded down.
func CompactToDifficulty(compact uint32) (*uint256.Int, error) {
	target, err := CompactToTarget(compact)
	if err != nil {
		return nil, err
	}
	if target.Eq(maxTarget) {
		return uint256.NewInt(1), nil
	}
	denominator := new(uint256.Int).AddUint64(target, 1)
	// (2^256 - 1 - target) / (target + 1) + 1 == 2^256 / (target + 1)
	difficulty := new(uint256.Int).Sub(maxTarget, target)
	difficulty.Div(difficulty, denominator)
	return difficulty.AddUint64(difficulty, 1), nil
}

// Retarget computes the compact target of the next epoch. The target is
// scaled by actualDuration/targetDuration and then clamped so that it moves
// by no more than a factor of bound in either direction, and never exceeds
// powMax. An invalid old target resets the difficulty to powMax.
func Retarget(oldCompact uint32, targetDuration, actualDuration int64, bound uint64,
	powMax *uint256.Int) uint32 {

	oldTarget, err := CompactToTarget(oldCompact)
	if err != nil {
		return TargetToCompact(powMax)
	}
	if targetDuration < 1 {
		targetDuration = 1
	}
	if actualDuration < 0 {
		actualDuration = 0
	}
	if bound < 1 {
		bound = 1
	}

	upper, overflow := new(uint256.Int).MulOverflow(oldTarget, uint256.NewInt(bound))
	if overflow {
		upper.Set(maxTarget)
	}
	lower := new(uint256.Int).Div(oldTarget, uint256.NewInt(bound))

	newTarget, overflow := new(uint256.Int).MulDivOverflow(oldTarget,
		uint256.NewInt(uint64(actualDuration)), uint256.NewInt(uint64(targetDuration)))
	if overflow || newTarget.Gt(upper) {
		newTarget.Set(upper)
	}
	if newTarget.Lt(lower) {
		newTarget.Set(lower)
	}
	if newTarget.Gt(powMax) {
		newTarget.Set(powMax)
	}
	if newTarget.IsZero() {
		newTarget.SetOne()
	}

	return TargetToCompact(newTarget)
}
