package externalapi

// ResolvedTransaction is a transaction with every input and cell dep bound
// to the live cell it references. It is built fresh for every verification
// and must not be mutated after construction.
type ResolvedTransaction struct {
	Transaction    *DomainTransaction
	TransactionID  *DomainTransactionID
	ResolvedInputs []*CellMeta
	ResolvedDeps   []*CellMeta
}

// IsCellbase returns whether the resolved transaction is a cellbase
func (rtx *ResolvedTransaction) IsCellbase() bool {
	return rtx.Transaction.IsCellbase()
}

// Equal returns whether rtx equals to other
func (rtx *ResolvedTransaction) Equal(other *ResolvedTransaction) bool {
	if rtx == nil || other == nil {
		return rtx == other
	}

	if !rtx.Transaction.Equal(other.Transaction) || !rtx.TransactionID.Equal(other.TransactionID) {
		return false
	}

	return cellMetasEqual(rtx.ResolvedInputs, other.ResolvedInputs) &&
		cellMetasEqual(rtx.ResolvedDeps, other.ResolvedDeps)
}

func cellMetasEqual(a, b []*CellMeta) bool {
	if len(a) != len(b) {
		return false
	}
	for i, cell := range a {
		if !cell.Equal(b[i]) {
			return false
		}
	}
	return true
}
