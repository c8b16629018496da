package pattern

import (
	"path"
	"strings"
)

// NormalizePath converts a path to the slash-separated, root-relative clean
// form used for matching. It returns "" for the project root itself. A path
// that climbs above the root keeps its leading ".." segments; see EscapesRoot.
func NormalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, `\`) {
		raw = strings.ReplaceAll(raw, `\`, `/`)
	}

	raw = strings.TrimPrefix(raw, "./")
	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return ""
	}

	if isSimpleNormalizedPath(raw) {
		return raw
	}

	raw = path.Clean(raw)
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// EscapesRoot reports whether a normalized path points outside the project root.
// Such paths never match a pattern.
func EscapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../")
}

// normalizePattern prepares a source pattern for tokenizing.
func normalizePattern(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "./")
	raw = strings.Trim(raw, "/")
	return raw
}

// ancestors returns the directory prefixes of p, shallowest first.
func ancestors(p string) []string {
	var dirs []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			dirs = append(dirs, p[:i])
		}
	}
	return dirs
}

// isSimpleNormalizedPath reports whether path is already normalized enough to skip path.Clean.
func isSimpleNormalizedPath(p string) bool {
	if p == "." ||
		p == ".." ||
		strings.HasSuffix(p, "/") ||
		strings.HasPrefix(p, "../") ||
		strings.Contains(p, "//") ||
		strings.Contains(p, "/./") ||
		strings.Contains(p, "/../") ||
		strings.HasSuffix(p, "/..") ||
		strings.HasSuffix(p, "/.") {
		return false
	}

	return true
}
