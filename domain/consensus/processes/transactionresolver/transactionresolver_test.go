package transactionresolver

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	pkgerrors "github.com/pkg/errors"

	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/ruleerrors"
)

type fakeCellProvider struct {
	cells   map[externalapi.DomainOutpoint]*externalapi.CellMeta
	dead    map[externalapi.DomainOutpoint]struct{}
	err     error
	lookups int
}

func newFakeCellProvider() *fakeCellProvider {
	return &fakeCellProvider{
		cells: make(map[externalapi.DomainOutpoint]*externalapi.CellMeta),
		dead:  make(map[externalapi.DomainOutpoint]struct{}),
	}
}

func (f *fakeCellProvider) Cell(outpoint *externalapi.DomainOutpoint) (
	*externalapi.CellMeta, externalapi.CellStatus, error) {

	f.lookups++
	if f.err != nil {
		return nil, externalapi.CellStatusUnknown, f.err
	}
	if cell, ok := f.cells[*outpoint]; ok {
		return cell, externalapi.CellStatusLive, nil
	}
	if _, ok := f.dead[*outpoint]; ok {
		return nil, externalapi.CellStatusDead, nil
	}
	return nil, externalapi.CellStatusUnknown, nil
}

func (f *fakeCellProvider) addCell(outpoint *externalapi.DomainOutpoint, capacity uint64) {
	f.cells[*outpoint] = &externalapi.CellMeta{
		Outpoint:        *outpoint,
		Output:          &externalapi.DomainCellOutput{Capacity: capacity, Lock: &externalapi.Script{}},
		Data:            []byte{},
		TransactionInfo: &externalapi.TransactionInfo{BlockHeight: 1},
	}
}

func outpoint(b byte, index uint32) *externalapi.DomainOutpoint {
	return externalapi.NewDomainOutpoint(
		externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{b}), index)
}

func spendingTransaction(inputs []*externalapi.DomainOutpoint, deps []*externalapi.DomainOutpoint) *externalapi.DomainTransaction {
	tx := &externalapi.DomainTransaction{
		CellDeps:    deps,
		Outputs:     []*externalapi.DomainCellOutput{{Capacity: 1, Lock: &externalapi.Script{}}},
		OutputsData: [][]byte{{}},
	}
	for _, input := range inputs {
		tx.Inputs = append(tx.Inputs, &externalapi.DomainCellInput{PreviousOutpoint: *input})
	}
	return tx
}

func TestResolve(t *testing.T) {
	cells := newFakeCellProvider()
	cells.addCell(outpoint(1, 0), 100)
	cells.addCell(outpoint(1, 1), 200)
	cells.addCell(outpoint(2, 0), 300)

	resolver, err := New(10)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	tx := spendingTransaction(
		[]*externalapi.DomainOutpoint{outpoint(1, 1), outpoint(1, 0)},
		[]*externalapi.DomainOutpoint{outpoint(2, 0)})
	rtx, err := resolver.Resolve(tx, cells)
	if err != nil {
		t.Fatalf("Resolve: %+v", err)
	}

	if rtx.Transaction != tx {
		t.Errorf("the resolved transaction must wrap the given transaction")
	}
	if len(rtx.ResolvedInputs) != 2 || rtx.ResolvedInputs[0].Output.Capacity != 200 ||
		rtx.ResolvedInputs[1].Output.Capacity != 100 {
		t.Errorf("inputs resolved out of order: %s", spew.Sdump(rtx.ResolvedInputs))
	}
	if len(rtx.ResolvedDeps) != 1 || rtx.ResolvedDeps[0].Output.Capacity != 300 {
		t.Errorf("unexpected resolved deps: %s", spew.Sdump(rtx.ResolvedDeps))
	}
}

func TestResolveCache(t *testing.T) {
	cells := newFakeCellProvider()
	cells.addCell(outpoint(1, 0), 100)

	resolver, err := New(10)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	tx := spendingTransaction([]*externalapi.DomainOutpoint{outpoint(1, 0)}, nil)
	first, err := resolver.Resolve(tx, cells)
	if err != nil {
		t.Fatalf("Resolve: %+v", err)
	}
	lookups := cells.lookups

	// An equal transaction built separately hits the cache
	sameTx := tx.Clone()
	second, err := resolver.Resolve(sameTx, cells)
	if err != nil {
		t.Fatalf("Resolve: %+v", err)
	}
	if cells.lookups != lookups {
		t.Errorf("a cache hit must not query the chain state")
	}
	if second.Transaction != sameTx {
		t.Errorf("a cache hit must wrap the caller's transaction")
	}
	if !first.Equal(second) {
		t.Errorf("a cache hit must resolve to identical cells. Want: %s, got: %s",
			spew.Sdump(first), spew.Sdump(second))
	}

	second.ResolvedInputs[0].Output.Capacity++
	third, err := resolver.Resolve(tx.Clone(), cells)
	if err != nil {
		t.Fatalf("Resolve: %+v", err)
	}
	if !first.Equal(third) {
		t.Errorf("modifying a resolution changed the cached cells: %s", spew.Sdump(third))
	}

	hits, misses := resolver.CacheStats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits and 1 miss but got %d hits and %d misses", hits, misses)
	}

	resolver.Purge()
	_, err = resolver.Resolve(tx, cells)
	if err != nil {
		t.Fatalf("Resolve: %+v", err)
	}
	if cells.lookups == lookups {
		t.Errorf("a purged resolution must query the chain state again")
	}
	hits, misses = resolver.CacheStats()
	if hits != 2 || misses != 2 {
		t.Errorf("expected 2 hits and 2 misses but got %d hits and %d misses", hits, misses)
	}
}

func TestResolveUnresolvable(t *testing.T) {
	cells := newFakeCellProvider()
	cells.addCell(outpoint(1, 0), 100)
	cells.dead[*outpoint(1, 1)] = struct{}{}

	resolver, err := New(10)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	tests := []struct {
		name              string
		tx                *externalapi.DomainTransaction
		expectedOutpoint  *externalapi.DomainOutpoint
		expectedIsDep     bool
		expectedRetriable bool
	}{
		{
			name:              "unknown input",
			tx:                spendingTransaction([]*externalapi.DomainOutpoint{outpoint(1, 0), outpoint(3, 0)}, nil),
			expectedOutpoint:  outpoint(3, 0),
			expectedRetriable: true,
		},
		{
			name:              "dead input",
			tx:                spendingTransaction([]*externalapi.DomainOutpoint{outpoint(1, 1)}, nil),
			expectedOutpoint:  outpoint(1, 1),
			expectedRetriable: false,
		},
		{
			name: "unknown dep",
			tx: spendingTransaction([]*externalapi.DomainOutpoint{outpoint(1, 0)},
				[]*externalapi.DomainOutpoint{outpoint(4, 2)}),
			expectedOutpoint:  outpoint(4, 2),
			expectedIsDep:     true,
			expectedRetriable: true,
		},
	}

	for _, test := range tests {
		_, err := resolver.Resolve(test.tx, cells)
		if !errors.Is(err, ruleerrors.ErrUnresolvableInput) {
			t.Errorf("%s: expected ErrUnresolvableInput but got %v", test.name, err)
			continue
		}
		var unresolvable ruleerrors.UnresolvableInput
		if !errors.As(err, &unresolvable) {
			t.Errorf("%s: expected an UnresolvableInput in %v", test.name, err)
			continue
		}
		if !unresolvable.Outpoint.Equal(test.expectedOutpoint) || unresolvable.IsDep != test.expectedIsDep {
			t.Errorf("%s: unexpected unresolvable outpoint: %s", test.name, spew.Sdump(unresolvable))
		}
		if ruleerrors.IsRetriable(err) != test.expectedRetriable {
			t.Errorf("%s: expected retriable=%t", test.name, test.expectedRetriable)
		}
	}

	// Failures are never cached
	hits, _ := resolver.CacheStats()
	if hits != 0 {
		t.Errorf("expected no cache hits but got %d", hits)
	}
}

func TestResolveCellbase(t *testing.T) {
	cells := newFakeCellProvider()
	resolver, err := New(10)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	cellbase := spendingTransaction([]*externalapi.DomainOutpoint{externalapi.NullOutpoint()}, nil)
	rtx, err := resolver.Resolve(cellbase, cells)
	if err != nil {
		t.Fatalf("Resolve: %+v", err)
	}
	if cells.lookups != 0 || len(rtx.ResolvedInputs) != 0 {
		t.Errorf("a cellbase must not be resolved against the chain state")
	}
}

func TestResolveChainStateFailure(t *testing.T) {
	cells := newFakeCellProvider()
	cells.err = pkgerrors.New("disk on fire")
	resolver, err := New(10)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	_, err = resolver.Resolve(spendingTransaction([]*externalapi.DomainOutpoint{outpoint(1, 0)}, nil), cells)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if ruleerrors.IsRuleError(err) {
		t.Errorf("a chain state failure must not be reported as a rule error: %v", err)
	}
}
