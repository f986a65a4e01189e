package memchainstate_test

import (
	"github.com/321cherish/ckb/domain/dagconfig"
)

func devnetParams() dagconfig.Params {
	params := dagconfig.DevnetParams
	params.CellbaseMaturity = 0
	return params
}
