package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError collects every structural problem found in a graph.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid graph definition: %s", strings.Join(e.Problems, "; "))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structure of the definition: required ids and types,
// complete target ports, and map keys that agree with node ids. It does not
// check types against a registry or look for cycles.
func (g *Graph) Validate() error {
	if g == nil {
		return &ValidationError{Problems: []string{"graph is nil"}}
	}

	var problems []string
	if err := validate.Struct(g); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating graph: %w", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
		}
	}

	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		if n == nil {
			problems = append(problems, fmt.Sprintf("node '%s' is nil", id))
			continue
		}
		if n.ID != "" && n.ID != id {
			problems = append(problems, fmt.Sprintf("node keyed '%s' declares id '%s'", id, n.ID))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return &ValidationError{Problems: problems}
	}
	return nil
}
