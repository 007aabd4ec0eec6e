// Package logging contains the singleton logger that we use globally.
// It deliberately has little else since it's a dependency everywhere.
package logging

import (
	"gopkg.in/op/go-logging.v1"
)

// Log is the singleton logger instance.
// We never alter individual levels and don't log the module name, so there
// is no need to have more than one, and it helps avoid race conditions.
//
// Level selection and backend formatting live in package cli
// (InitLogging), the only caller that needs to touch either; every
// other package just logs through Log at whatever level InitLogging
// last set, so there's nothing else for this package to re-export.
var Log = logging.MustGetLogger("hackbuild")
