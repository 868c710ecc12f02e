package bind

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/netconf"
	"github.com/andaru/netconfd/xpath"
	"github.com/andaru/netconfd/yangmodel"
)

// Validate walks root, previously bound to schema by xmlcodec.Parse and
// recorded in links, checking mandatory-child presence for
// CONTAINER/LIST nodes and value constraints for LEAF/LEAF-LIST
// nodes. It returns every violation found; a nil or empty result means
// root is valid against schema.
func (c *Context) Validate(root dom.Node, schema *yang.Entry, links *SchemaLinks) []*netconf.RPCError {
	var errs []*netconf.RPCError
	c.validateNode(root, schema, links, &errs)
	return errs
}

func (c *Context) validateNode(n dom.Node, schema *yang.Entry, links *SchemaLinks, errs *[]*netconf.RPCError) {
	if schema == nil {
		return
	}
	switch schema.Kind {
	case yang.LeafEntry:
		c.validateLeaf(n, schema, errs)
	case yang.DirectoryEntry:
		c.validateMandatoryChildren(n, schema, errs)
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			if ch.NodeType() != dom.NodeTypeElement {
				continue
			}
			childSchema := links.Lookup(ch)
			if childSchema == nil {
				childSchema = yangmodel.FindSyntax(schema, ch.Name().Local)
			}
			c.validateNode(ch, childSchema, links, errs)
		}
	}
	c.validateMustWhen(n, schema, errs)
}

// validateMandatoryChildren reports one missing-element error per
// mandatory child of schema absent from n's element children.
func (c *Context) validateMandatoryChildren(n dom.Node, schema *yang.Entry, errs *[]*netconf.RPCError) {
	for name, child := range schema.Dir {
		if !yangmodel.IsMandatory(child) {
			continue
		}
		if !hasElementChildNamed(n, name) {
			*errs = append(*errs, netconf.MissingMandatory(schema.Name, name))
		}
	}
}

func hasElementChildNamed(n dom.Node, local string) bool {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if ch.NodeType() == dom.NodeTypeElement && ch.Name().Local == local {
			return true
		}
	}
	return false
}

func (c *Context) validateLeaf(n dom.Node, schema *yang.Entry, errs *[]*netconf.RPCError) {
	if schema.Type == nil {
		return
	}
	ok, reason := validateValue(n.ChildValue(), schema.Type)
	if !ok {
		*errs = append(*errs, netconf.InvalidValue(schema.Name, reason))
	}
}

// validateMustWhen evaluates a leaf's MUST/WHEN YANG substatement, if
// present, via xpath.Eval. It is a supplement beyond the core
// invariants: schemas without either substatement are untouched.
func (c *Context) validateMustWhen(n dom.Node, schema *yang.Entry, errs *[]*netconf.RPCError) {
	if schema == nil || c.Modules == nil {
		return
	}
	for _, kind := range []string{"must", "when"} {
		vals, ok := schema.Extra[kind]
		if !ok {
			continue
		}
		for _, v := range vals {
			expr, ok := extractExprText(v)
			if !ok || expr == "" {
				continue
			}
			result, err := xpath.Eval(expr, n, nil)
			if err != nil {
				continue
			}
			if !result.Boolean() {
				*errs = append(*errs, &netconf.RPCError{
					Type:     netconf.ErrTypeApp,
					Tag:      netconf.ErrTagOperationFailed,
					Severity: netconf.SevError,
					AppTag:   kind + "-violation",
					Path:     schema.Name,
					Message:  fmt.Sprintf("%s condition failed: %s", kind, expr),
				})
			}
		}
	}
}

// extractExprText recovers the XPath expression text from a raw
// must/when AST value stashed in Entry.Extra. goyang represents both
// as a *yang.Value-shaped node whose Name carries the expression text,
// the same shape Entry.Default uses for a leaf's default statement.
func extractExprText(v interface{}) (string, bool) {
	if val, ok := v.(*yang.Value); ok && val != nil {
		return val.Name, true
	}
	return "", false
}

// validateValue checks value against t, trying union alternatives in
// declared order and returning the first success; a union with no
// matching alternative fails with the last alternative's reason.
func validateValue(value string, t *yang.YangType) (bool, string) {
	switch t.Kind {
	case yang.Ystring:
		return validateStringType(value, t)
	case yang.Ybool:
		if value != "true" && value != "false" {
			return false, fmt.Sprintf("%q is not a valid boolean", value)
		}
		return true, ""
	case yang.Yint8, yang.Yint16, yang.Yint32, yang.Yint64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false, fmt.Sprintf("%q is not a valid integer", value)
		}
		if !isInRanges(t.Range, yang.FromInt(n)) {
			return false, fmt.Sprintf("%d is outside the permitted range", n)
		}
		return true, ""
	case yang.Yuint8, yang.Yuint16, yang.Yuint32, yang.Yuint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return false, fmt.Sprintf("%q is not a valid unsigned integer", value)
		}
		if !isInRanges(t.Range, yang.FromUint(n)) {
			return false, fmt.Sprintf("%d is outside the permitted range", n)
		}
		return true, ""
	case yang.Yunion:
		var reason string
		for _, alt := range t.Type {
			ok, r := validateValue(value, alt)
			if ok {
				return true, ""
			}
			reason = r
		}
		return false, reason
	default:
		// Yenum, Yidentityref, Ybits, Ydecimal64, Yleafref and other
		// kinds are accepted by body presence alone; their full
		// constraint sets are outside this engine's scope.
		return true, ""
	}
}

func validateStringType(value string, t *yang.YangType) (bool, string) {
	strLen := uint64(len([]rune(value)))
	if len(t.Length) > 0 && !isInRanges(t.Length, yang.FromUint(strLen)) {
		return false, fmt.Sprintf("length %d is outside the permitted range", strLen)
	}
	for _, p := range t.Pattern {
		re, err := regexp.Compile(fixYangRegexp(p))
		if err != nil {
			continue
		}
		if !re.MatchString(value) {
			return false, fmt.Sprintf("%q does not match pattern %q", value, p)
		}
	}
	return true, ""
}

func isInRanges(yrs yang.YangRange, val yang.Number) bool {
	if len(yrs) == 0 {
		return true
	}
	for _, yr := range yrs {
		if (val.Less(yr.Max) || val.Equal(yr.Max)) && (yr.Min.Less(val) || yr.Min.Equal(val)) {
			return true
		}
	}
	return false
}

// fixYangRegexp anchors a YANG pattern restriction (implicitly
// whole-string per RFC 6020 9.4.4) for Go's RE2 engine, lifted from
// the ygot string_type.go technique of wrapping the body in ^(...)$.
func fixYangRegexp(pattern string) string {
	var buf bytes.Buffer
	var inEscape bool
	var prevChar rune
	addParens := false

	for i, ch := range pattern {
		if i == 0 && ch != '^' {
			buf.WriteRune('^')
			buf.WriteRune('(')
			addParens = true
		}
		switch ch {
		case '$':
			if !inEscape && i != len(pattern)-1 {
				buf.WriteRune('\\')
			}
		case '^':
			if !inEscape && prevChar != '[' && i != 0 {
				buf.WriteRune('\\')
			}
		}
		inEscape = !inEscape && ch == '\\'
		buf.WriteRune(ch)
		if i == len(pattern)-1 {
			if addParens {
				buf.WriteRune(')')
			}
			if ch != '$' {
				buf.WriteRune('$')
			}
		}
		prevChar = ch
	}
	return buf.String()
}
