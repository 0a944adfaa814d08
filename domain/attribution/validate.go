package attribution

import (
	"fmt"

	"climattr/internal/errors"
)

// ValidateBootstrapCI checks the requested confidence level. The bound
// convention follows the percentile formula: (100-ci)/2 and 100-(100-ci)/2
// must both be valid percentiles, so ci is an integer in (0, 100].
func ValidateBootstrapCI(ci int) error {
	if ci <= 0 || ci > 100 {
		return errors.ValidationError("ci must be an integer between 1 and 100")
	}
	return nil
}

// ValidateDirection checks a Direction value that may have bypassed
// ParseDirection (e.g. zero values or direct struct literals)
func ValidateDirection(d Direction) error {
	if d != Ascending && d != Descending {
		return errors.ValidationError("direction must be either 'ascending' or 'descending'")
	}
	return nil
}

// ValidateCorrectionMethod checks the bias-correction method name used by the
// scaling collaborator that feeds samples into the engine
func ValidateCorrectionMethod(method string) error {
	if method != "add" && method != "divide" {
		return errors.ValidationError("method must be either 'add' or 'divide'")
	}
	return nil
}

// ValidateParams checks the fitted-parameter arity contract: two parameters
// (loc, scale) or three (shape, loc, scale). Anything else is unusable.
func ValidateParams(params []float64) error {
	if len(params) != 2 && len(params) != 3 {
		return errors.FitError(fmt.Sprintf("fit returned %d parameters, want 2 or 3", len(params)))
	}
	return nil
}
