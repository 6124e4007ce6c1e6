package expr

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// CompileError reports a formula that could not be parsed.
type CompileError struct {
	Source string
	Diags  hcl.Diagnostics
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile expression %q: %s", e.Source, e.Diags.Error())
}

// EvalError reports a formula that parsed but failed while evaluating.
type EvalError struct {
	Source string
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("failed to evaluate expression %q: %v", e.Source, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Formula is a parsed expression together with the root names it reads.
type Formula struct {
	source string
	expr   hclsyntax.Expression
	roots  []string
}

// Parse parses formula text, without the leading '='.
func Parse(source string) (*Formula, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(source), "formula", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, &CompileError{Source: source, Diags: diags}
	}

	seen := make(map[string]struct{})
	var roots []string
	for _, traversal := range parsed.Variables() {
		root := traversal.RootName()
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}

	return &Formula{source: source, expr: parsed, roots: roots}, nil
}

// Source returns the formula text.
func (f *Formula) Source() string {
	return f.source
}

// Eval evaluates the formula. Only the names the formula references are
// converted into the HCL evaluation context.
func (f *Formula) Eval(ctx Context) (any, error) {
	vars := make(map[string]cty.Value, len(f.roots))
	for _, root := range f.roots {
		raw, ok := ctx[root]
		if !ok {
			continue
		}
		val, err := ToCty(raw)
		if err != nil {
			return nil, &EvalError{Source: f.source, Err: fmt.Errorf("variable '%s': %w", root, err)}
		}
		vars[root] = val
	}

	evalCtx := &hcl.EvalContext{Variables: vars, Functions: functions}
	val, diags := f.expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, &EvalError{Source: f.source, Err: diags}
	}

	native, err := FromCty(val)
	if err != nil {
		return nil, &EvalError{Source: f.source, Err: err}
	}
	return native, nil
}

// Compile turns a field value into a Mapper. Failures are logged on the
// logger carried by ctx and degrade to a Mapper that yields nil.
func Compile(ctx context.Context, input any) Mapper {
	s, ok := input.(string)
	if !ok {
		return func(Context) any { return input }
	}

	source, isFormula := expressionSource(s)
	if !isFormula {
		value := AutoConvert(s)
		return func(Context) any { return value }
	}

	logger := ctxlog.FromContext(ctx)
	formula, err := Parse(source)
	if err != nil {
		logger.Warn("Expression compile failed, field evaluates to null.", "expression", source, "error", err)
		return nullMapper
	}

	return func(c Context) any {
		v, err := formula.Eval(c)
		if err != nil {
			logger.Warn("Expression evaluation failed, returning null.", "expression", source, "error", err)
			return nil
		}
		return v
	}
}

func nullMapper(Context) any {
	return nil
}

// CompileColumnMapper compiles a column-mapper field. The value is either a
// formula ("=..." or {"expression": "..."}) or a column reference (a bare
// string or {"column": "..."}) that reads the named field of the current row.
func CompileColumnMapper(ctx context.Context, input any) Mapper {
	switch v := input.(type) {
	case string:
		if IsFormula(v) {
			return Compile(ctx, v)
		}
		return columnMapper(strings.TrimSpace(v))
	case map[string]any:
		if column, ok := v["column"].(string); ok {
			return columnMapper(strings.TrimSpace(column))
		}
		if source, ok := v["expression"].(string); ok {
			if !IsFormula(source) {
				source = "=" + source
			}
			return Compile(ctx, source)
		}
	}
	return Compile(ctx, input)
}

func columnMapper(column string) Mapper {
	if column == "" {
		return nullMapper
	}
	return func(c Context) any {
		row, _ := c[KeyRow].(map[string]any)
		return row[column]
	}
}
