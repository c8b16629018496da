package boundaries

import (
	"fmt"

	"github.com/leapstack-labs/layerlint/pkg/core"
)

// Resolve computes the expected value of a capture constraint for a source
// instance. A literal resolves to itself; a source reference resolves to the
// source's capture and fails with ErrUnresolvedCapture when it is absent.
func Resolve(t core.Template, src core.ElementInstance) (string, error) {
	switch t.Kind {
	case core.TemplateLiteral:
		return t.Value, nil
	case core.TemplateSourceCapture:
		v, ok := src.Capture(t.Value)
		if !ok {
			return "", fmt.Errorf("%w: %q on %s (%s)", ErrUnresolvedCapture, t.Value, src.Path, src.Type)
		}
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown template kind %d", ErrInvalidTemplate, t.Kind)
	}
}
