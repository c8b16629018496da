package core

// ImportEdge is a resolved import from one file to another.
type ImportEdge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Reason is the machine-readable cause of a Violation.
type Reason string

// Violation reasons.
const (
	ReasonNoAllowEntry         Reason = "NoAllowEntry"
	ReasonCaptureMismatch      Reason = "CaptureMismatch"
	ReasonUnclassifiedEndpoint Reason = "UnclassifiedEndpoint"
)

// CaptureMismatch records one failed capture equality.
type CaptureMismatch struct {
	Capture  string `json:"capture"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	// Missing is true when the target has no such capture.
	Missing bool `json:"missing,omitempty"`
}

// Violation is a denied edge.
type Violation struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	FromType   string            `json:"from_type"`
	ToType     string            `json:"to_type"`
	Reason     Reason            `json:"reason"`
	Mismatches []CaptureMismatch `json:"mismatches,omitempty"`
	// EdgeIndex is the position of the edge in the input edge list.
	EdgeIndex int `json:"edge_index"`
}
