package dispatch

import (
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// LibEvaluator implements JMESPathEvaluator using go-jmespath.
type LibEvaluator struct{}

// Validate compiles the expression; an empty expression is valid.
func (LibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

// Evaluate runs the expression against data.
func (LibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}
