package core

import "fmt"

// InvalidTargetIDError is returned when a textual target id fails to
// parse: more than one colon, a path ending in "/", or similar.
type InvalidTargetIDError struct {
	Value  string
	Reason string
}

func (e *InvalidTargetIDError) Error() string {
	return fmt.Sprintf("invalid target id %q: %s", e.Value, e.Reason)
}

// TargetIDNotNormalizedError is returned where an API requires an
// already-normalized (absolute, named) TargetID and was given one that
// isn't.
type TargetIDNotNormalizedError struct {
	ID TargetID
}

func (e *TargetIDNotNormalizedError) Error() string {
	return fmt.Sprintf("target id %q is not normalized (must be absolute and named here)", e.ID)
}

// OutsideRepositoryError is returned when a path normalizes to somewhere
// outside the repository root.
type OutsideRepositoryError struct {
	Path     string
	RepoRoot string
}

func (e *OutsideRepositoryError) Error() string {
	return fmt.Sprintf("path %q is outside the repository root %q", e.Path, e.RepoRoot)
}

// RepoRootNotFoundError is returned when no repository anchor could be
// found by walking up from the starting directory.
type RepoRootNotFoundError struct {
	StartDir string
	Anchor   string
}

func (e *RepoRootNotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %q or any parent directory", e.Anchor, e.StartDir)
}

// RepoAnchorNotDirectoryError is returned when the repository anchor
// exists but is not a directory.
type RepoAnchorNotDirectoryError struct {
	Path string
}

func (e *RepoAnchorNotDirectoryError) Error() string {
	return fmt.Sprintf("repository anchor %q exists but is not a directory", e.Path)
}

// TargetNotFoundError is returned when a normalized target id does not
// name any target declared by its package's descriptor.
type TargetNotFoundError struct {
	ID TargetID
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target %q not found", e.ID)
}

// DuplicatePluginRuleError is returned by the Plugin Registry when two
// or more loaded plugins declare a rule function under the same name.
// Err names the plugins that both define Name. When several names
// collide, the Plugin Registry returns one DuplicatePluginRuleError per
// name, aggregated with go-multierror, rather than failing on the first.
type DuplicatePluginRuleError struct {
	Name string
	Err  error
}

func (e *DuplicatePluginRuleError) Error() string {
	return fmt.Sprintf("duplicate rule %q: %s", e.Name, e.Err)
}

func (e *DuplicatePluginRuleError) Unwrap() error {
	return e.Err
}

// DescriptorEvaluationError wraps the failure encountered while
// evaluating a package's descriptor file. Evaluation stops at the first
// failing rule call, so Err is always a single error.
type DescriptorEvaluationError struct {
	Path string
	Err  error
}

func (e *DescriptorEvaluationError) Error() string {
	return fmt.Sprintf("evaluating %s: %s", e.Path, e.Err)
}

func (e *DescriptorEvaluationError) Unwrap() error {
	return e.Err
}

// DependencyCycleError is returned when resolving a target's transitive
// dependency tree revisits a target already on the current resolution
// path. Spec §3 detects cycles "by non-termination of resolution"; we
// make that concrete with an explicit in-progress set rather than
// actually looping forever.
type DependencyCycleError struct {
	Path []TargetID
}

func (e *DependencyCycleError) Error() string {
	s := "dependency cycle: "
	for i, id := range e.Path {
		if i > 0 {
			s += " -> "
		}
		s += id.String()
	}
	return s
}

// FilesystemError wraps an *os.PathError (or similar) encountered while
// mirroring, staging, or cleaning a tree, tagging it with the operation
// that was in progress.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
