// Package hash implements the supplemental "hackbuild hash" command: a
// purely informational blake3 digest of a target's staged source tree,
// role and declared dependencies, for human inspection or diffing between two
// worktrees. It is never consulted to decide whether a target's work
// can be skipped — content-addressed caching is an explicit Non-goal.
package hash

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/thought-machine/hackbuild/src/core"
)

// Target returns the hex-encoded blake3 digest of target's staged
// source directory (following any symlinks the Filesystem Mirror laid
// down) plus its role and declared dependency ids, so two targets with
// identical files but a different role or dependency list hash
// differently. Other attributes (e.g. entry point, version) are not
// part of the digest.
func Target(target *core.BuildTarget) (string, error) {
	h := blake3.New()
	if err := hashTree(h, target.Layout.SourceDir); err != nil {
		return "", err
	}
	fmt.Fprintf(h, "role=%s\n", target.Role)
	for _, dep := range target.Deps {
		fmt.Fprintf(h, "dep=%s\n", dep)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashTree walks dir in a deterministic (lexical) order, feeding each
// regular file's repo-relative-to-dir path and content into h. A
// missing dir (a target with no staged files yet) hashes as empty
// rather than erroring, since "hash" is meant to run against whatever
// state the tree happens to be in.
func hashTree(h io.Writer, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return &core.FilesystemError{Op: "walk", Path: dir, Err: err}
	}
	sort.Strings(paths)

	for _, path := range paths {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return &core.FilesystemError{Op: "relativize", Path: path, Err: err}
		}
		fmt.Fprintf(h, "file=%s\n", filepath.ToSlash(rel))
		f, err := os.Open(path)
		if err != nil {
			return &core.FilesystemError{Op: "open", Path: path, Err: err}
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return &core.FilesystemError{Op: "read", Path: path, Err: err}
		}
	}
	return nil
}
