package source

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Input resolution errors.
var (
	ErrNoInputs   = errors.New("no input files given")
	ErrNoMatch    = errors.New("input pattern matched no files")
	ErrBadPattern = errors.New("invalid input pattern")
)

// ResolveInputs expands glob patterns (including **) into file paths.
// Plain paths are kept as given, as is any argument naming an existing file
// even when it contains glob characters. Each pattern's matches are sorted,
// and patterns keep their listed order.
func ResolveInputs(patterns []string) ([]string, error) {
	var paths []string

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if !isPattern(pattern) || exists(pattern) {
			paths = append(paths, pattern)

			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadPattern, pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}

		sort.Strings(matches)
		paths = append(paths, matches...)
	}

	if len(paths) == 0 {
		return nil, ErrNoInputs
	}

	return paths, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func isPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
