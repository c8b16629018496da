package rules

import (
	// Register boundary rules (LB01-LB04).
	_ "github.com/leapstack-labs/layerlint/pkg/lint/rules/elements"
	// Register structure rules (LB05-LB06).
	_ "github.com/leapstack-labs/layerlint/pkg/lint/rules/structure"
)
