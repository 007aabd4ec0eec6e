// Package fs builds a symlinked shadow of a source directory tree, used
// by library builders to stage declared sources without copying bytes.
package fs

import (
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"

	"github.com/thought-machine/hackbuild/src/cli/logging"
	"github.com/thought-machine/hackbuild/src/core"
)

var log = logging.Log

// Mirror walks fromDir and reproduces its shape under toDir: every
// subdirectory gets a real directory, every regular file gets a
// symlink whose value is the relative path from the symlink's parent
// back to the original file. It is idempotent: running it twice over an
// unchanged fromDir leaves toDir unchanged the second time, and a stale
// symlink pointing at the wrong target is replaced rather than left in
// place.
func Mirror(fromDir, toDir string) error {
	return godirwalk.Walk(fromDir, &godirwalk.Options{
		Unsorted: false,
		Callback: func(path string, de *godirwalk.Dirent) error {
			rel, err := filepath.Rel(fromDir, path)
			if err != nil {
				return &core.FilesystemError{Op: "mirror", Path: path, Err: err}
			}
			if rel == "." {
				return mirrorDir(toDir)
			}
			dest := filepath.Join(toDir, rel)
			if de.IsDir() {
				return mirrorDir(dest)
			}
			return MirrorFile(path, dest)
		},
	})
}

func mirrorDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// MirrorFile creates, at dest, a symlink pointing at src, relative to
// dest's parent directory. If a symlink already exists there with the
// correct target it's left alone; with an incorrect target it's
// replaced; anything else at dest (a regular file, a directory) is
// also replaced, since this path is exclusively owned by the mirror.
// Exported for builders that mirror a specific file list rather than a
// whole subtree (e.g. a first-party library's declared srcs).
func MirrorFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: filepath.Dir(dest), Err: err}
	}

	relTarget, err := filepath.Rel(filepath.Dir(dest), src)
	if err != nil {
		return &core.FilesystemError{Op: "mirror", Path: dest, Err: err}
	}

	if existing, err := os.Readlink(dest); err == nil {
		if existing == relTarget {
			return nil
		}
		if err := os.Remove(dest); err != nil {
			return &core.FilesystemError{Op: "remove stale symlink", Path: dest, Err: err}
		}
	} else if _, statErr := os.Lstat(dest); statErr == nil {
		// Something exists at dest that isn't a symlink; this tree is
		// exclusively owned by the mirror, so replace it.
		if err := os.Remove(dest); err != nil {
			return &core.FilesystemError{Op: "remove", Path: dest, Err: err}
		}
	}

	if err := os.Symlink(relTarget, dest); err != nil {
		return &core.FilesystemError{Op: "symlink", Path: dest, Err: err}
	}
	log.Debug("mirrored %s -> %s", dest, relTarget)
	return nil
}
