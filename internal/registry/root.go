package registry

import (
	"path/filepath"
)

// Root is a directory holding plugin directories, with a precedence rank.
// Rank 0 is the highest precedence.
type Root struct {
	Dir  string
	Rank int
}

// NewRoots ranks dirs in the order given: the first directory (user
// overrides) gets rank 0. Paths are cleaned; duplicates keep their first rank.
func NewRoots(dirs ...string) []Root {
	roots := make([]Root, 0, len(dirs))
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		clean := filepath.Clean(dir)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		roots = append(roots, Root{Dir: clean, Rank: len(roots)})
	}
	return roots
}
