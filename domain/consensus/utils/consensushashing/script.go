package consensushashing

import (
	"github.com/321cherish/ckb/domain/consensus/model/externalapi"
	"github.com/321cherish/ckb/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// ScriptHash returns the hash identifying a script. Inputs whose lock
// scripts share a hash are verified as one group.
func ScriptHash(script *externalapi.Script) *externalapi.DomainHash {
	writer := hashes.NewScriptHashWriter()
	err := writeScript(writer, script)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	return writer.Finalize()
}
