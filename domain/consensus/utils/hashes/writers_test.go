package hashes

import (
	"testing"
)

func TestDomainSeparation(t *testing.T) {
	constructors := map[string]func() HashWriter{
		"transaction":         NewTransactionHashWriter,
		"transaction witness": NewTransactionWitnessHashWriter,
		"header":              NewHeaderHashWriter,
		"pow":                 NewPoWHashWriter,
		"merkle branch":       NewMerkleBranchHashWriter,
		"uncles":              NewUnclesHashWriter,
		"script":              NewScriptHashWriter,
		"sighash":             NewSighashWriter,
	}

	seen := make(map[string]string)
	for name, constructor := range constructors {
		writer := constructor()
		writer.InfallibleWrite([]byte("same payload"))
		hash := writer.Finalize().String()
		if other, ok := seen[hash]; ok {
			t.Fatalf("%s and %s writers produced the same hash %s", name, other, hash)
		}
		seen[hash] = name
	}
}

func TestFinalizeIsDeterministic(t *testing.T) {
	first := NewHeaderHashWriter()
	first.InfallibleWrite([]byte{1, 2})
	first.InfallibleWrite([]byte{3})

	second := NewHeaderHashWriter()
	second.InfallibleWrite([]byte{1, 2, 3})

	if !first.Finalize().Equal(second.Finalize()) {
		t.Fatalf("incremental writes should hash like a single write")
	}
}

func TestBlake2b160(t *testing.T) {
	digest := Blake2b160([]byte("public key"))
	if len(digest) != 20 {
		t.Fatalf("expected 20 bytes, got %d", len(digest))
	}
	full := DataHash([]byte("public key")).ByteArray()
	for i := range digest {
		if digest[i] != full[i] {
			t.Fatalf("Blake2b160 should be a prefix of DataHash")
		}
	}
}
