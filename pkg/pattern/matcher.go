package pattern

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/layerlint/pkg/core"
)

// Match is the result of a successful match.
type Match struct {
	// Path is the portion of the input the pattern matched. In folder mode this
	// is the matching directory, otherwise the input path.
	Path string
	// Captures holds one entry per declared capture name. Captures whose token
	// matched nothing are bound to "".
	Captures map[string]string
}

// Matcher is a compiled element type definition. It is immutable and safe
// for concurrent use.
type Matcher struct {
	def      core.ElementTypeDef
	re       *regexp.Regexp
	bindings []string
	prefix   string
	sample   string
}

// Def returns the definition the matcher was compiled from, with the match
// mode resolved.
func (m *Matcher) Def() core.ElementTypeDef {
	return m.def
}

// Mode returns the resolved match mode.
func (m *Matcher) Mode() core.MatchMode {
	return m.def.Mode
}

// Regexp returns the source of the compiled regular expression.
func (m *Matcher) Regexp() string {
	return m.re.String()
}

// Sample returns a path the pattern is known to match under its own mode.
func (m *Matcher) Sample() string {
	if m.def.Mode == core.MatchFolder {
		return m.sample + "/x"
	}
	return m.sample
}

// Match tests a path. isDir tells whether the path names a directory.
// The path is normalized first.
func (m *Matcher) Match(p string, isDir bool) (Match, bool) {
	p = NormalizePath(p)
	if p == "" || EscapesRoot(p) || !m.mayContain(p) {
		return Match{}, false
	}

	switch m.def.Mode {
	case core.MatchFile:
		if isDir {
			return Match{}, false
		}
		return m.matchExact(p)
	case core.MatchFull:
		return m.matchExact(p)
	default:
		return m.matchFolder(p)
	}
}

// mayContain rejects paths outside the literal prefix without running the regexp.
func (m *Matcher) mayContain(p string) bool {
	if m.prefix == "" {
		return true
	}
	return p == m.prefix || strings.HasPrefix(p, m.prefix+"/")
}

func (m *Matcher) matchExact(p string) (Match, bool) {
	groups := m.re.FindStringSubmatch(p)
	if groups == nil {
		return Match{}, false
	}
	return Match{Path: p, Captures: m.bind(groups)}, true
}

// matchFolder tries each directory containing p, shallowest first, then p
// itself. The first candidate whose captures are all non-empty wins; failing
// that, the shallowest match.
func (m *Matcher) matchFolder(p string) (Match, bool) {
	dirs := append(ancestors(p), p)

	var fallback Match
	found := false
	for _, dir := range dirs {
		mt, ok := m.matchExact(dir)
		if !ok {
			continue
		}
		if allBound(mt.Captures) {
			return mt, true
		}
		if !found {
			fallback, found = mt, true
		}
	}
	return fallback, found
}

func (m *Matcher) bind(groups []string) map[string]string {
	if len(m.def.Captures) == 0 {
		return nil
	}
	captures := make(map[string]string, len(m.def.Captures))
	for i, name := range m.bindings {
		if name == "" || i+1 >= len(groups) {
			continue
		}
		captures[name] = groups[i+1]
	}
	for _, name := range m.def.Captures {
		if _, ok := captures[name]; !ok {
			captures[name] = ""
		}
	}
	return captures
}

func allBound(captures map[string]string) bool {
	for _, v := range captures {
		if v == "" {
			return false
		}
	}
	return true
}
