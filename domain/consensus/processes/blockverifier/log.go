package blockverifier

import (
	"github.com/321cherish/ckb/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BLKV")
