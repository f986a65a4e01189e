package consensus

import (
	"github.com/321cherish/ckb/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BDAG")
