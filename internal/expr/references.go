package expr

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// References lists what a field value reads: the unique root variable names
// and the unique function names, both sorted. Non-formula values reference
// nothing.
type References struct {
	Variables []string
	Functions []string
}

// Analyze reports the references of a field value. A formula that fails to
// parse returns a *CompileError.
func Analyze(input any) (References, error) {
	s, ok := input.(string)
	if !ok {
		return References{}, nil
	}
	source, isFormula := expressionSource(s)
	if !isFormula {
		return References{}, nil
	}

	formula, err := Parse(source)
	if err != nil {
		return References{}, err
	}

	vars := append([]string(nil), formula.roots...)
	sort.Strings(vars)

	return References{Variables: vars, Functions: calledFunctions(formula.expr)}, nil
}

// calledFunctions collects the name of every function call in the tree.
func calledFunctions(root hclsyntax.Expression) []string {
	seen := make(map[string]bool)
	hclsyntax.VisitAll(root, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			seen[call.Name] = true
		}
		return nil
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
