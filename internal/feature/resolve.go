// Package feature validates untrusted feature identifiers and turns them
// into filesystem paths confined to a configured base directory. A Name is
// only obtainable through Resolver.Resolve, so any Name in circulation has
// passed every check.
package feature

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxNameLen bounds a validated feature name. Keeps generated paths well
// under common filesystem limits after the execution/TASKn suffixes.
const MaxNameLen = 50

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// shellMeta are characters that must never survive into a path component
// that may later be interpolated into a producer command line.
const shellMeta = "$`;&|><\n\r"

// Name is a feature identifier that has passed all resolver checks.
// The zero value is invalid; obtain one via Resolver.Resolve.
type Name struct {
	name string
	dir  string // absolute directory under the resolver base
}

// String returns the validated identifier.
func (n Name) String() string { return n.name }

// Dir returns the feature's absolute directory under the base.
func (n Name) Dir() string { return n.dir }

// ExecutionDir returns the directory completion artifacts are written to.
func (n Name) ExecutionDir() string { return filepath.Join(n.dir, "execution") }

// Resolver validates raw feature identifiers against a fixed base directory.
type Resolver struct {
	base string // absolute, symlink-resolved
}

// NewResolver returns a Resolver rooted at baseDir. The directory must
// exist; it is resolved to an absolute, symlink-free path once so that
// later ancestry checks compare canonical paths.
func NewResolver(baseDir string) (*Resolver, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("canonicalize base dir: %w", err)
	}
	return &Resolver{base: abs}, nil
}

// Base returns the configured base directory.
func (r *Resolver) Base() string { return r.base }

// Resolve runs the ordered validation checks on raw and, on success,
// returns a Name whose directory is guaranteed to be a descendant of the
// base directory. Checks short-circuit: the first failure determines the
// SecurityError check kind.
func (r *Resolver) Resolve(raw string) (Name, error) {
	if strings.Contains(raw, "..") {
		return Name{}, &SecurityError{Check: CheckTraversal, Detail: "identifier contains a parent-directory sequence"}
	}

	candidate := stripExtension(raw)
	if candidate == "" || !namePattern.MatchString(candidate) {
		return Name{}, &SecurityError{Check: CheckWhitelist, Detail: "identifier must match [A-Za-z0-9_-]+"}
	}

	if len(candidate) > MaxNameLen {
		return Name{}, &SecurityError{Check: CheckLength, Detail: fmt.Sprintf("identifier exceeds %d characters", MaxNameLen)}
	}

	// Defense in depth: the whitelist above already excludes these, but a
	// future relaxation of the pattern must not silently reopen traversal.
	if strings.Contains(candidate, "..") || strings.ContainsAny(candidate, `/\`) {
		return Name{}, &SecurityError{Check: CheckResidualTraversal, Detail: "path separator survived sanitization"}
	}

	if strings.ContainsAny(raw, shellMeta) {
		return Name{}, &SecurityError{Check: CheckShellMeta, Detail: "identifier contains a control or shell metacharacter"}
	}

	dir := filepath.Clean(filepath.Join(r.base, candidate))
	rel, err := filepath.Rel(r.base, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Name{}, &SecurityError{Check: CheckEscape, Detail: "resolved path escapes the base directory"}
	}

	return Name{name: candidate, dir: dir}, nil
}

// stripExtension drops a trailing file extension so "demo.md" validates
// the same as "demo". Path separators are deliberately NOT stripped: an
// identifier carrying one is rejected by the whitelist, never repaired.
func stripExtension(raw string) string {
	if ext := filepath.Ext(raw); ext != "" && !strings.ContainsAny(ext, `/\`) {
		return strings.TrimSuffix(raw, ext)
	}
	return raw
}
