// Package cli contains utilities shared by the command-line front end:
// logging setup and the small set of flag value types the command line
// needs (Verbosity here, Filepath in flags.go).
package cli

import (
	"os"

	"gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("cli")

// A Verbosity is used as a flag to define logging verbosity.
type Verbosity int

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (v *Verbosity) UnmarshalFlag(in string) error {
	switch in {
	case "error":
		*v = Verbosity(logging.ERROR)
	case "warning":
		*v = Verbosity(logging.WARNING)
	case "notice":
		*v = Verbosity(logging.NOTICE)
	case "info":
		*v = Verbosity(logging.INFO)
	case "debug":
		*v = Verbosity(logging.DEBUG)
	default:
		*v = Verbosity(logging.WARNING)
	}
	return nil
}

// InitLogging sets up the singleton logger at the given verbosity, writing to stderr.
func InitLogging(verbosity Verbosity) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-8s} %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(logging.Level(verbosity), "")
	logging.SetBackend(leveled)
}
