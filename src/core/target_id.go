// Package core contains the data model shared by every other package in
// hackbuild: target identifiers, build targets, the dependency graph, the
// staging layout derived from a target, and the repository configuration.
package core

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/thought-machine/hackbuild/src/cli/logging"
)

var log = logging.Log

// targetIDPattern matches a textual target id: an optional path, and an
// optional ":name" suffix. The path component may not itself contain a
// colon, which is what keeps this to at most one colon overall.
var targetIDPattern = regexp.MustCompile(`^(?P<path>[^:]*)(?::(?P<name>[^:]+))?$`)

// A TargetID is the canonical (path, name) identifier of a build target,
// in textual form PATH:NAME (with PATH possibly empty and the :NAME
// suffix optional).
//
// A TargetID is absolute if Path begins with "/" (anchored at the
// repository root), relative otherwise. It's normalized iff it is
// absolute and named. TargetIDs are immutable once constructed; all
// normalization produces a new value.
type TargetID struct {
	Path string
	Name string
}

// NewTargetID constructs a TargetID from already-known-good components,
// validating them the same way ParseTargetID does.
func NewTargetID(path, name string) (TargetID, error) {
	if err := validateTargetIDParts(path, name); err != nil {
		return TargetID{}, err
	}
	return TargetID{Path: path, Name: name}, nil
}

// ParseTargetID parses a single target id from its textual PATH:NAME form.
func ParseTargetID(s string) (TargetID, error) {
	m := targetIDPattern.FindStringSubmatch(s)
	if m == nil {
		return TargetID{}, &InvalidTargetIDError{Value: s, Reason: "does not match PATH[:NAME]"}
	}
	path, name := m[1], m[2]
	if err := validateTargetIDParts(path, name); err != nil {
		return TargetID{}, err
	}
	return TargetID{Path: path, Name: name}, nil
}

func validateTargetIDParts(path, name string) error {
	if strings.Contains(path, ":") {
		return &InvalidTargetIDError{Value: path, Reason: "path cannot contain a colon"}
	}
	if strings.HasSuffix(path, "/") && path != "/" {
		return &InvalidTargetIDError{Value: path, Reason: `path cannot end in "/" unless it is the repository root`}
	}
	if strings.Contains(name, ":") {
		return &InvalidTargetIDError{Value: name, Reason: "name cannot contain a colon"}
	}
	return nil
}

// String returns the canonical textual form of this target id.
func (id TargetID) String() string {
	if id.HasName() {
		return id.Path + ":" + id.Name
	}
	return id.Path
}

// IsAbsolute returns true if this id is anchored at the repository root.
func (id TargetID) IsAbsolute() bool {
	return strings.HasPrefix(id.Path, "/")
}

// IsRelative is the negation of IsAbsolute.
func (id TargetID) IsRelative() bool {
	return !id.IsAbsolute()
}

// HasName returns true if a target name has been supplied.
func (id TargetID) HasName() bool {
	return id.Name != ""
}

// IsNormalized returns true if this id is both absolute and named.
func (id TargetID) IsNormalized() bool {
	return id.IsAbsolute() && id.HasName()
}

// Equal reports whether two target ids are the same target, by canonical
// string form.
func (id TargetID) Equal(other TargetID) bool {
	return id.String() == other.String()
}

// Hash returns a stable hash of this target id's canonical string form.
// The resolver's descriptor cache (keyed by directory) and the cycle
// detector (which compares ids with Equal) do not use it.
func (id TargetID) Hash() uint64 {
	return xxhash.Sum64String(id.String())
}

// RepoRelPath returns the filesystem path (relative to the repository
// root, using OS-neutral forward slashes) that this id's Path component
// denotes. The repository root itself ("/") maps to ".".
func (id TargetID) RepoRelPath() string {
	if id.Path == "" || id.Path == "/" {
		return "."
	}
	return strings.TrimPrefix(id.Path, "/")
}

// PackageDir is an alias of RepoRelPath kept for readability at call
// sites that are specifically deriving a package's own directory.
func (id TargetID) PackageDir() string {
	return id.RepoRelPath()
}

// A Normalizer converts arbitrary TargetIDs and bare repository paths
// into their normalized, repo-rooted form. It holds nothing but the
// absolute repository root, and its descriptor-scoped operations
// (NormalizeInDescriptor, NormalizePathInDescriptor) never touch the
// filesystem: they're pure string concatenation, safe to call while
// evaluating a descriptor for a directory that doesn't (yet) exist on
// disk under src/, build/, or pkg/.
type Normalizer struct {
	// RepoRoot is the absolute filesystem path to the repository root.
	RepoRoot string
}

// NewNormalizer constructs a Normalizer for the given absolute repository root.
func NewNormalizer(repoRoot string) *Normalizer {
	return &Normalizer{RepoRoot: repoRoot}
}

// Normalize converts an arbitrary TargetID into normalized form: a
// relative path is resolved via a commonprefix check against the
// repository root.
func (n *Normalizer) Normalize(id TargetID) (TargetID, error) {
	if id.IsNormalized() {
		return id, nil
	}
	p := id.Path
	if id.IsRelative() {
		var err error
		p, err = n.NormalizePath(id.Path)
		if err != nil {
			return TargetID{}, err
		}
	}
	return TargetID{Path: p, Name: id.Name}, nil
}

// NormalizeInDescriptor normalizes a TargetID that was encountered while
// evaluating the descriptor for repository directory D. This never
// touches the filesystem: "" resolves to D, a relative path is joined
// onto D, and an absolute path is kept (cleaned) as it is.
func (n *Normalizer) NormalizeInDescriptor(id TargetID, d string) TargetID {
	if id.IsNormalized() {
		return id
	}
	return TargetID{Path: n.NormalizePathInDescriptor(id.Path, d), Name: id.Name}
}

// NormalizePath converts a relative filesystem path into its
// repo-rooted absolute form: it's resolved against the current working
// directory, then checked against the repository root by common
// prefix. Fails with OutsideRepositoryError if the result does not lie
// under RepoRoot.
func (n *Normalizer) NormalizePath(p string) (string, error) {
	absRepoRoot, err := filepath.Abs(n.RepoRoot)
	if err != nil {
		return "", &OutsideRepositoryError{Path: p, RepoRoot: n.RepoRoot}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &OutsideRepositoryError{Path: p, RepoRoot: n.RepoRoot}
	}
	rel, err := filepath.Rel(absRepoRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &OutsideRepositoryError{Path: p, RepoRoot: n.RepoRoot}
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}

// NormalizePathInDescriptor resolves a free-form path encountered inside
// a descriptor at directory D, per the same rule as NormalizeInDescriptor:
// "" becomes D, a relative path is joined onto D, an absolute one is cleaned.
func (n *Normalizer) NormalizePathInDescriptor(p, d string) string {
	if p == "" {
		return d
	}
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Join(d, p)
}
