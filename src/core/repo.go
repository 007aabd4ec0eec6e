package core

import (
	"os"
	"path/filepath"
)

// RepoAnchor is the subdirectory whose presence marks a repository root.
const RepoAnchor = ".repo"

// FindRepoRoot walks upward from startDir looking for the nearest
// ancestor (startDir included) containing a RepoAnchor subdirectory.
// Fails with RepoRootNotFound if the filesystem root is reached
// without finding one, or RepoAnchorNotDirectory if an anchor exists
// but isn't a directory.
func FindRepoRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", &FilesystemError{Op: "resolve", Path: startDir, Err: err}
	}
	for {
		anchor := filepath.Join(dir, RepoAnchor)
		info, err := os.Stat(anchor)
		if err == nil {
			if !info.IsDir() {
				return "", &RepoAnchorNotDirectoryError{Path: anchor}
			}
			return dir, nil
		}
		if !os.IsNotExist(err) {
			return "", &FilesystemError{Op: "stat", Path: anchor, Err: err}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &RepoRootNotFoundError{StartDir: startDir, Anchor: RepoAnchor}
		}
		dir = parent
	}
}
