package lint

// Options are the settings of one rule as decoded from lint.options.<ID>.
// Values arrive from YAML, JSON or environment decoding, so the accessors
// accept every representation those produce. A nil Options yields defaults.
type Options map[string]any

// Int returns the integer option key, or def when it is missing or not a
// number.
func (o Options) Int(key string, def int) int {
	switch n := o[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// Bool returns the boolean option key, or def.
func (o Options) Bool(key string, def bool) bool {
	if b, ok := o[key].(bool); ok {
		return b
	}
	return def
}

// Strings returns the string list option key. A single string is a
// one-element list; non-string list items are dropped.
func (o Options) Strings(key string, def []string) []string {
	switch v := o[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return def
	}
}
