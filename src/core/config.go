package core

import (
	"bytes"
	"crypto/sha1"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/please-build/gcfg"
)

// ConfigFileName and ConfigLocalFileName are the two files
// ReadConfigFiles looks for, in order, at the repository root. The
// second is for untracked, machine-local overrides (credentials, local
// tool paths) and is read only if present.
const (
	ConfigFileName      = ".hackconfig"
	ConfigLocalFileName = ".hackconfig.local"
)

// Configuration is the repository's build configuration, read from
// .hackconfig (and .hackconfig.local) with gcfg, an ini-like config
// library. Field names are capitalised to match gcfg's default
// case-insensitive matching against lower-case ini keys.
type Configuration struct {
	Build struct {
		// PythonInstallMethod is read from the [build] section ("install"
		// or "develop"). The python plugin does not consult it; the
		// --python_install_method flag takes its default from its own
		// flag definition.
		PythonInstallMethod string
	}
	Debian struct {
		// Architecture overrides the value that would otherwise be
		// queried from dpkg-architecture.
		Architecture string
		// ExtraDepends are dependency specifications appended to every
		// debian_pkg target's control file, in addition to its own.
		ExtraDepends []string
	}
	MacOS struct {
		// Identifier is the package identifier prefix used for every
		// mac_pkg target (e.g. "com.example").
		Identifier string
	}
}

// DefaultConfiguration returns a Configuration populated with the
// built-in defaults, before any file has been read.
func DefaultConfiguration() *Configuration {
	c := &Configuration{}
	c.Build.PythonInstallMethod = "install"
	return c
}

// ReadConfigFiles reads .hackconfig and, if present, .hackconfig.local
// from repoRoot into a Configuration seeded with DefaultConfiguration,
// later files overriding earlier ones.
func ReadConfigFiles(repoRoot string) (*Configuration, error) {
	config := DefaultConfiguration()
	for _, name := range []string{ConfigFileName, ConfigLocalFileName} {
		path := filepath.Join(repoRoot, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &FilesystemError{Op: "stat config", Path: path, Err: err}
		}
		if err := gcfg.ReadFileInto(config, path); err != nil {
			return nil, &FilesystemError{Op: "read config", Path: path, Err: err}
		}
		log.Debug("loaded config %s", path)
	}
	return config, nil
}

// Hash returns a stable digest of this configuration, gob-encoded then
// SHA-1 hashed. Kept alongside the config for a future incremental-build
// mode; nothing in this implementation uses it to skip work.
func (c *Configuration) Hash() ([20]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return [20]byte{}, err
	}
	return sha1.Sum(buf.Bytes()), nil
}
