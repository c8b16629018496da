package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/layerlint/pkg/core"
)

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokStar
	tokGlobstar
	tokQuestion
	tokClass
	tokAlt
	tokNamed
)

// token is one lexical unit of a pattern segment.
type token struct {
	kind tokenKind
	// text holds literal text, class body, or capture name.
	text string
	// alts holds brace alternatives.
	alts []string
}

// captures reports whether the token opens a capture group.
func (t token) captures() bool {
	return t.kind == tokStar || t.kind == tokGlobstar || t.kind == tokNamed
}

// segment is the tokens between two slashes.
type segment []token

func (s segment) isGlobstar() bool {
	return len(s) == 1 && s[0].kind == tokGlobstar
}

// Compile compiles one element type definition into a Matcher.
// It never touches the filesystem.
func Compile(def core.ElementTypeDef) (*Matcher, error) {
	mode, ok := core.ParseMatchMode(string(def.Mode))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, def.Mode)
	}

	source := normalizePattern(def.Pattern)
	if source == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	segments, err := tokenize(source)
	if err != nil {
		return nil, err
	}

	// doublestar owns the reference glob grammar; named tokens are plain "*" to it.
	if !doublestar.ValidatePattern(globString(segments)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, def.Pattern)
	}

	bindings, err := bindCaptures(segments, def.Captures)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", def.Pattern, err)
	}

	expr := buildRegexp(segments)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %v", ErrInvalidPattern, def.Pattern, err)
	}

	def.Mode = mode
	return &Matcher{
		def:      def,
		re:       re,
		bindings: bindings,
		prefix:   literalDirPrefix(segments),
		sample:   samplePath(segments),
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// static catalogs.
func MustCompile(def core.ElementTypeDef) *Matcher {
	m, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return m
}

// tokenize splits a normalized pattern into segments of tokens.
// Consecutive "**" segments are rejected.
func tokenize(pattern string) ([]segment, error) {
	var segments []segment
	var current segment
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			current = append(current, token{kind: tokLiteral, text: lit.String()})
			lit.Reset()
		}
	}
	flushSegment := func() error {
		flushLiteral()
		if len(current) == 0 {
			return fmt.Errorf("%w: empty segment in %q", ErrInvalidPattern, pattern)
		}
		if current.isGlobstar() && len(segments) > 0 && segments[len(segments)-1].isGlobstar() {
			return fmt.Errorf("%w: repeated \"**\" segment in %q", ErrInvalidPattern, pattern)
		}
		segments = append(segments, current)
		current = nil
		return nil
	}

	segStart := 0
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '/':
			if err := flushSegment(); err != nil {
				return nil, err
			}
			segStart = i + 1
		case '\\':
			if i+1 >= len(pattern) {
				return nil, fmt.Errorf("%w: trailing escape in %q", ErrInvalidPattern, pattern)
			}
			i++
			lit.WriteByte(pattern[i])
		case '*':
			flushLiteral()
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				end := i + 2
				wholeSegment := i == segStart && (end == len(pattern) || pattern[end] == '/')
				i++
				if wholeSegment {
					current = append(current, token{kind: tokGlobstar})
					continue
				}
			}
			current = append(current, token{kind: tokStar})
		case '?':
			flushLiteral()
			current = append(current, token{kind: tokQuestion})
		case '[':
			end := findClassEnd(pattern, i)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated character class in %q", ErrInvalidPattern, pattern)
			}
			flushLiteral()
			current = append(current, token{kind: tokClass, text: pattern[i+1 : end]})
			i = end
		case '{':
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated alternation in %q", ErrInvalidPattern, pattern)
			}
			body := pattern[i+1 : i+end]
			if strings.ContainsAny(body, "/{[<") {
				return nil, fmt.Errorf("%w: alternation %q may only hold plain alternatives", ErrInvalidPattern, "{"+body+"}")
			}
			flushLiteral()
			current = append(current, token{kind: tokAlt, alts: strings.Split(body, ",")})
			i += end
		case '<':
			end := strings.IndexByte(pattern[i:], '>')
			if end > 1 && isIdentifier(pattern[i+1:i+end]) {
				flushLiteral()
				current = append(current, token{kind: tokNamed, text: pattern[i+1 : i+end]})
				i += end
				continue
			}
			lit.WriteByte(c)
		default:
			lit.WriteByte(c)
		}
	}

	if err := flushSegment(); err != nil {
		return nil, err
	}
	return segments, nil
}

// bindCaptures maps capture tokens to the declared names, positionally.
func bindCaptures(segments []segment, names []string) ([]string, error) {
	declared := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty capture name", ErrCaptureOrder)
		}
		if declared[name] {
			return nil, fmt.Errorf("%w: duplicate capture name %q", ErrCaptureOrder, name)
		}
		declared[name] = true
	}

	var bindings []string
	for _, seg := range segments {
		for _, tok := range seg {
			if !tok.captures() {
				continue
			}
			pos := len(bindings)
			if tok.kind == tokNamed {
				if !declared[tok.text] {
					return nil, fmt.Errorf("%w: <%s>", ErrUndeclaredCapture, tok.text)
				}
				if pos >= len(names) || names[pos] != tok.text {
					return nil, fmt.Errorf("%w: <%s> is capture token %d", ErrCaptureOrder, tok.text, pos+1)
				}
			}
			name := ""
			if pos < len(names) {
				name = names[pos]
			}
			bindings = append(bindings, name)
		}
	}

	if len(names) > len(bindings) {
		return nil, fmt.Errorf("%w: %d capture names for %d capture tokens", ErrCaptureOrder, len(names), len(bindings))
	}
	return bindings, nil
}

// buildRegexp converts segments to an anchored regexp. Capture tokens become
// groups in order; everything else is non-capturing.
func buildRegexp(segments []segment) string {
	var b strings.Builder
	b.WriteByte('^')

	for i, seg := range segments {
		last := i == len(segments)-1
		if seg.isGlobstar() {
			switch {
			case len(segments) == 1:
				b.WriteString(`(.*)`)
			case last:
				// The previous segment wrote no trailing slash.
				b.WriteString(`(?:/(.+))?`)
			default:
				b.WriteString(`(?:(.+)/)?`)
			}
			continue
		}

		for _, tok := range seg {
			b.WriteString(tokenRegexp(tok))
		}

		if !last && !(segments[i+1].isGlobstar() && i+1 == len(segments)-1) {
			b.WriteByte('/')
		}
	}

	b.WriteByte('$')
	return b.String()
}

func tokenRegexp(tok token) string {
	switch tok.kind {
	case tokStar:
		return `([^/]*)`
	case tokNamed:
		return `([^/]+)`
	case tokQuestion:
		return `[^/]`
	case tokClass:
		return classRegexp(tok.text)
	case tokAlt:
		parts := make([]string, len(tok.alts))
		for i, alt := range tok.alts {
			parts[i] = simpleGlobRegexp(alt)
		}
		return `(?:` + strings.Join(parts, "|") + `)`
	default:
		return regexp.QuoteMeta(tok.text)
	}
}

// simpleGlobRegexp converts an alternative that may hold "*" and "?".
func simpleGlobRegexp(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*':
			b.WriteString(`[^/]*`)
		case '?':
			b.WriteString(`[^/]`)
		default:
			b.WriteString(regexp.QuoteMeta(s[i : i+1]))
		}
	}
	return b.String()
}

// classRegexp converts a glob class body ("!a-z", "abc") to a regexp class.
func classRegexp(body string) string {
	var b strings.Builder
	b.WriteByte('[')

	idx := 0
	if idx < len(body) && (body[idx] == '!' || body[idx] == '^') {
		b.WriteByte('^')
		idx++
	}
	if idx < len(body) && body[idx] == ']' {
		b.WriteString(`\]`)
		idx++
	}

	for ; idx < len(body); idx++ {
		switch body[idx] {
		case '\\', '[':
			b.WriteByte('\\')
			b.WriteByte(body[idx])
		default:
			b.WriteByte(body[idx])
		}
	}

	b.WriteByte(']')
	return b.String()
}

// findClassEnd locates the closing bracket for a glob char class.
func findClassEnd(pat string, start int) int {
	idx := start + 1
	if idx < len(pat) && (pat[idx] == '!' || pat[idx] == '^') {
		idx++
	}
	if idx < len(pat) && pat[idx] == ']' {
		idx++
	}
	for ; idx < len(pat); idx++ {
		switch pat[idx] {
		case ']':
			return idx
		case '/':
			return -1
		}
	}
	return -1
}

// globString renders segments back to doublestar syntax.
func globString(segments []segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		var b strings.Builder
		for _, tok := range seg {
			switch tok.kind {
			case tokStar, tokNamed:
				b.WriteByte('*')
			case tokGlobstar:
				b.WriteString("**")
			case tokQuestion:
				b.WriteByte('?')
			case tokClass:
				b.WriteString("[" + tok.text + "]")
			case tokAlt:
				b.WriteString("{" + strings.Join(tok.alts, ",") + "}")
			default:
				b.WriteString(escapeGlobLiteral(tok.text))
			}
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, "/")
}

func escapeGlobLiteral(s string) string {
	if !strings.ContainsAny(s, `*?[]{}\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(`*?[]{}\`, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// literalDirPrefix returns the leading literal directories of the pattern,
// without a trailing slash. Every path a pattern can match starts with it.
func literalDirPrefix(segments []segment) string {
	var dirs []string
	for i, seg := range segments {
		if i == len(segments)-1 || len(seg) != 1 || seg[0].kind != tokLiteral {
			break
		}
		dirs = append(dirs, seg[0].text)
	}
	return strings.Join(dirs, "/")
}

// samplePath builds a representative path the pattern matches, choosing
// "x" for every wildcard.
func samplePath(segments []segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		var b strings.Builder
		for _, tok := range seg {
			switch tok.kind {
			case tokStar, tokNamed, tokGlobstar, tokQuestion:
				b.WriteByte('x')
			case tokClass:
				b.WriteString(sampleClassChar(tok.text))
			case tokAlt:
				alt := strings.NewReplacer("*", "x", "?", "x").Replace(tok.alts[0])
				b.WriteString(alt)
			default:
				b.WriteString(tok.text)
			}
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, "/")
}

func sampleClassChar(body string) string {
	if body == "" || body[0] == '!' || body[0] == '^' {
		return "_"
	}
	if body[0] == '\\' && len(body) > 1 {
		return body[1:2]
	}
	return body[:1]
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !(i > 0 && (isDigit || c == '-')) {
			return false
		}
	}
	return true
}
