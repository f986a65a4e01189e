package capacity

import (
	"math"
	"testing"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/constants"
	"github.com/pkg/errors"
)

func TestSafeArithmetic(t *testing.T) {
	tests := []struct {
		name        string
		operation   func() (uint64, error)
		expected    uint64
		expectedErr error
	}{
		{"add", func() (uint64, error) { return SafeAdd(2, 3) }, 5, nil},
		{"add to max", func() (uint64, error) { return SafeAdd(math.MaxUint64-1, 1) }, math.MaxUint64, nil},
		{"add overflow", func() (uint64, error) { return SafeAdd(math.MaxUint64, 1) }, 0, ErrOverflow},
		{"mul", func() (uint64, error) { return SafeMul(7, 6) }, 42, nil},
		{"mul overflow", func() (uint64, error) { return SafeMul(math.MaxUint64/2+1, 2) }, 0, ErrOverflow},
		{"sum", func() (uint64, error) { return Sum(1, 2, 3, 4) }, 10, nil},
		{"sum overflow", func() (uint64, error) { return Sum(math.MaxUint64/2, math.MaxUint64/2, 2) }, 0, ErrOverflow},
	}
	for _, test := range tests {
		result, err := test.operation()
		if !errors.Is(err, test.expectedErr) {
			t.Errorf("%s: expected error %v, got %v", test.name, test.expectedErr, err)
			continue
		}
		if result != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, result)
		}
	}
}

func TestOccupiedCapacity(t *testing.T) {
	output := &externalapi.DomainCellOutput{
		Capacity: 0,
		Lock:     &externalapi.Script{Args: make([]byte, 20)},
	}
	occupied, err := OccupiedCapacity(output, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("OccupiedCapacity: %+v", err)
	}
	// capacity field + code hash + args + data
	expectedBytes := uint64(8 + 32 + 20 + 3)
	if occupied != expectedBytes*constants.ShannonsPerByte {
		t.Fatalf("expected %d, got %d", expectedBytes*constants.ShannonsPerByte, occupied)
	}

	output.Type = &externalapi.Script{}
	withType, err := OccupiedCapacity(output, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("OccupiedCapacity: %+v", err)
	}
	if withType != occupied+32*constants.ShannonsPerByte {
		t.Fatalf("an empty type script should occupy its code hash, got %d", withType-occupied)
	}
}
