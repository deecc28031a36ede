package types

import "strings"

const unknownProject = "unknown"

// ProjectLabel returns the last path segment of a working directory.
func ProjectLabel(cwd string) string {
	parts := strings.Split(cwd, "/")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return unknownProject
}
