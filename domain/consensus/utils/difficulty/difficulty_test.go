package difficulty

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestCompactToTarget(t *testing.T) {
	tests := []struct {
		compact        uint32
		expectedTarget string
		expectedError  bool
	}{
		{0x087fffff, "9223370937343148032", false},
		{0x03123456, "1193046", false},
		{0x05009234, "2452881408", false},
		{0x1d00ffff, "26959535291011309493156476344723991336010898738574164086137773096960", false},
		{0x207fffff, "57896037716911750921221705069588091649609539881711309849342236841432341020672", false},
		{0x00000000, "", true},
		{0x01003456, "", true},
		{0x04923456, "", true},
		{0x22ffffff, "", true},
	}

	for _, test := range tests {
		target, err := CompactToTarget(test.compact)
		if test.expectedError {
			if err == nil {
				t.Errorf("CompactToTarget(%08x): expected an error but got target %s", test.compact, target.Dec())
			}
			continue
		}
		if err != nil {
			t.Errorf("CompactToTarget(%08x): unexpected error: %+v", test.compact, err)
			continue
		}
		if target.Dec() != test.expectedTarget {
			t.Errorf("CompactToTarget(%08x): expected %s but got %s", test.compact, test.expectedTarget, target.Dec())
		}
	}
}

func TestTargetToCompactRoundTrip(t *testing.T) {
	for _, compact := range []uint32{0x087fffff, 0x03123456, 0x05009234, 0x1d00ffff, 0x207fffff} {
		target, err := CompactToTarget(compact)
		if err != nil {
			t.Fatalf("CompactToTarget(%08x): %+v", compact, err)
		}
		if roundTrip := TargetToCompact(target); roundTrip != compact {
			t.Errorf("TargetToCompact(CompactToTarget(%08x)) = %08x", compact, roundTrip)
		}
	}

	powMax := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))
	if compact := TargetToCompact(powMax); compact != 0x207fffff {
		t.Errorf("TargetToCompact(2^255-1): expected 207fffff but got %08x", compact)
	}
	if compact := TargetToCompact(new(uint256.Int)); compact != 0 {
		t.Errorf("TargetToCompact(0): expected 0 but got %08x", compact)
	}
}

func TestCompactToDifficulty(t *testing.T) {
	// 0x207fffff is just below 2^255, so it stands for a difficulty of 2.
	difficulty, err := CompactToDifficulty(0x207fffff)
	if err != nil {
		t.Fatalf("CompactToDifficulty: %+v", err)
	}
	if !difficulty.Eq(uint256.NewInt(2)) {
		t.Errorf("expected difficulty 2 but got %s", difficulty.Dec())
	}

	easier, err := CompactToDifficulty(0x1d01fffe)
	if err != nil {
		t.Fatalf("CompactToDifficulty: %+v", err)
	}
	harder, err := CompactToDifficulty(0x1d00ffff)
	if err != nil {
		t.Fatalf("CompactToDifficulty: %+v", err)
	}
	if !harder.Gt(easier) {
		t.Errorf("a smaller target must have a higher difficulty: %s <= %s", harder.Dec(), easier.Dec())
	}
}

func TestRetarget(t *testing.T) {
	powMax := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))

	tests := []struct {
		name            string
		oldCompact      uint32
		actualDuration  int64
		expectedCompact uint32
	}{
		{"on schedule", 0x1d00ffff, 1000, 0x1d00ffff},
		{"twice as slow", 0x1d00ffff, 2000, 0x1d01fffe},
		{"twice as fast", 0x1d00ffff, 500, 0x1c7fff80},
		{"one and a half as slow", 0x1d00ffff, 1500, 0x1d017ffe},
		{"ten times as slow is clamped", 0x1d00ffff, 10000, 0x1d01fffe},
		{"ten times as fast is clamped", 0x1d00ffff, 100, 0x1c7fff80},
		{"zero duration is clamped", 0x1d00ffff, 0, 0x1c7fff80},
		{"negative duration is clamped", 0x1d00ffff, -5, 0x1c7fff80},
		{"capped at pow max", 0x207fffff, 2000, 0x207fffff},
		{"invalid old target resets to pow max", 0x04923456, 1000, 0x207fffff},
	}

	for _, test := range tests {
		compact := Retarget(test.oldCompact, 1000, test.actualDuration, 2, powMax)
		if compact != test.expectedCompact {
			t.Errorf("%s: expected %08x but got %08x", test.name, test.expectedCompact, compact)
		}
	}
}
