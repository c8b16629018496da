package core

// SourceFile is one file of the project under check.
type SourceFile struct {
	// Path is slash-separated and relative to the project root.
	Path string `json:"path" yaml:"path"`
	// Role selects the element catalog used to classify the file.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}
