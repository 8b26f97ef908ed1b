package epub

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveUnder joins candidate to base if it is relative, canonicalizes
// the result (resolving "..", ".", and symlinks), and verifies that the
// canonical path is base or a descendant of base. Containment is checked
// on resolved paths, never on textual prefixes, so neither ".." segments
// nor symlinks can reach outside base.
//
// Resolution failures (the target does not exist, a symlink is broken,
// permission denied) return the wrapped filesystem error. Escapes return
// an error matching ErrNotContained.
func ResolveUnder(base, candidate string) (string, error) {
	joined := candidate
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(base, candidate)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", candidate, err)
	}

	baseResolved, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", fmt.Errorf("cannot resolve base %q: %w", base, err)
	}

	if !isSubpath(baseResolved, resolved) {
		return "", fmt.Errorf("%q resolves to %q outside %q: %w",
			candidate, resolved, baseResolved, ErrNotContained)
	}

	return resolved, nil
}

// isSubpath reports whether path equals base or lies beneath it. Both
// arguments must already be canonical.
func isSubpath(base, path string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}
