package xpath

import (
	antchfxpath "github.com/antchfx/xpath"
	"github.com/pkg/errors"

	"github.com/andaru/netconfd/dom"
)

// ResultType tags which of Context's four fields carries the result
// of an evaluation, mirroring the XPath 1.0 data model's four value
// types: node-set, boolean, number, string.
type ResultType int

// ResultType values.
const (
	NodesetResult ResultType = iota
	BooleanResult
	NumberResult
	StringResult
)

// Context is the result of evaluating an XPath expression. Exactly
// one field is meaningful, selected by Type.
type Context struct {
	Type    ResultType
	Nodeset []dom.Node
	Bool    bool
	Num     float64
	Str     string
}

// Boolean converts the result to a boolean using the XPath 1.0
// coercion rules for its actual Type: a non-empty node-set is true, a
// non-zero non-NaN number is true, a non-empty string is true.
func (c *Context) Boolean() bool {
	switch c.Type {
	case BooleanResult:
		return c.Bool
	case NodesetResult:
		return len(c.Nodeset) > 0
	case NumberResult:
		return c.Num != 0 && c.Num == c.Num // false for NaN
	case StringResult:
		return c.Str != ""
	}
	return false
}

// NSC is a namespace context: prefix to namespace URI.
type NSC map[string]string

// Eval compiles and evaluates expr against ctxNode, which establishes
// both the context node and (via its root) the document the engine
// traverses. nsc resolves any prefixed QName tests embedded in expr;
// pass nil for an unprefixed expression.
func Eval(expr string, ctxNode dom.Node, nsc NSC) (*Context, error) {
	var compiled *antchfxpath.Expr
	var err error
	if len(nsc) > 0 {
		compiled, err = antchfxpath.CompileWithNS(expr, nsc)
	} else {
		compiled, err = antchfxpath.Compile(expr)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "xpath: compile %q", expr)
	}

	nav := newNavigator(ctxNode)
	v, err := compiled.Evaluate(nav)
	if err != nil {
		return nil, errors.Wrapf(err, "xpath: evaluate %q", expr)
	}

	switch r := v.(type) {
	case bool:
		return &Context{Type: BooleanResult, Bool: r}, nil
	case float64:
		return &Context{Type: NumberResult, Num: r}, nil
	case string:
		return &Context{Type: StringResult, Str: r}, nil
	case *antchfxpath.NodeIterator:
		var nodes []dom.Node
		for r.MoveNext() {
			if n, ok := r.Current().(*nodeNavigator); ok {
				nodes = append(nodes, n.curr)
			}
		}
		return &Context{Type: NodesetResult, Nodeset: nodes}, nil
	default:
		return nil, errors.Errorf("xpath: unexpected evaluate result %T", v)
	}
}
