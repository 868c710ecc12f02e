// Package xpath evaluates XPath 1.0 expressions over a dom.Node tree,
// implementing component 4.D. The grammar, operator precedence and
// function table come from github.com/antchfx/xpath; this package
// supplies the NodeNavigator adapter over dom.Node, the same shape
// antchfx/xmlquery uses to drive the same engine over its own tree.
package xpath

import (
	antchfxpath "github.com/antchfx/xpath"

	"github.com/andaru/netconfd/dom"
)

// nodeNavigator walks a dom.Node tree on behalf of antchfxpath.Expr.
// Unlike xmlquery's navigator, attribute traversal is driven by
// dom.AttributeProvider rather than a flat slice index, since the dom
// package keeps attributes in their own sibling chain.
type nodeNavigator struct {
	root, curr dom.Node
	attr       dom.Attr
}

func newNavigator(n dom.Node) *nodeNavigator {
	return &nodeNavigator{root: rootOf(n), curr: n}
}

func rootOf(n dom.Node) dom.Node {
	for p := n.Parent(); p != nil; n, p = p, p.Parent() {
	}
	return n
}

func (a *nodeNavigator) Copy() antchfxpath.NodeNavigator {
	n := *a
	return &n
}

func (a *nodeNavigator) NodeType() antchfxpath.NodeType {
	if a.attr != nil {
		return antchfxpath.AttributeNode
	}
	switch a.curr.NodeType() {
	case dom.NodeTypeElement:
		return antchfxpath.ElementNode
	case dom.NodeTypeText, dom.NodeTypeCDATASection:
		return antchfxpath.TextNode
	case dom.NodeTypeComment:
		return antchfxpath.CommentNode
	case dom.NodeTypeDocument, dom.NodeTypeDocumentFragment:
		return antchfxpath.RootNode
	default:
		return antchfxpath.TextNode
	}
}

func (a *nodeNavigator) LocalName() string {
	if a.attr != nil {
		return a.attr.Name().Local
	}
	if a.curr.NodeType() == dom.NodeTypeElement {
		return a.curr.Name().Local
	}
	return ""
}

// Prefix always reports the empty string. dom.Node records a name as
// an xml.Name{Space, Local} pair, never the original document's
// prefix spelling (dom.CreateElement and the unmarshaler both only
// ever populate Name; see xmlcodec.qualifiedName), so there is no
// prefix data to return here. A antchfxpath.Expr compiled with
// CompileWithNS still carries prefixed node tests verbatim (see
// Canonicalize, which only respells a prefix, not removes it), so
// those tests cannot be satisfied by this navigator; evaluate
// namespace-qualified steps by namespace URI instead, e.g.
// //*[local-name()='system' and namespace-uri()='...'], which match
// against LocalName/Value and do not consult Prefix. See DESIGN.md's
// xpath entry.
func (a *nodeNavigator) Prefix() string { return "" }

func (a *nodeNavigator) Value() string {
	if a.attr != nil {
		return a.attr.Value()
	}
	switch a.curr.NodeType() {
	case dom.NodeTypeElement, dom.NodeTypeDocument, dom.NodeTypeDocumentFragment:
		return a.curr.ChildValue()
	default:
		return a.curr.Value()
	}
}

func (a *nodeNavigator) MoveToRoot() { a.curr, a.attr = a.root, nil }

func (a *nodeNavigator) MoveToParent() bool {
	if a.attr != nil {
		a.attr = nil
		return true
	}
	if p := a.curr.Parent(); p != nil {
		a.curr = p
		return true
	}
	return false
}

func (a *nodeNavigator) MoveToNextAttribute() bool {
	ap, ok := a.curr.(dom.AttributeProvider)
	if !ok {
		return false
	}
	if a.attr == nil {
		first := ap.FirstAttribute()
		if first == nil {
			return false
		}
		a.attr = first
		return true
	}
	next := a.attr.NextSibling()
	if next == nil {
		return false
	}
	a.attr = next.(dom.Attr)
	return true
}

func (a *nodeNavigator) MoveToChild() bool {
	if a.attr != nil {
		return false
	}
	if c := firstUsableChild(a.curr); c != nil {
		a.curr = c
		return true
	}
	return false
}

func (a *nodeNavigator) MoveToFirst() bool {
	if a.attr != nil {
		return false
	}
	p := a.curr.Parent()
	if p == nil {
		return false
	}
	if c := firstUsableChild(p); c != nil {
		a.curr = c
		return true
	}
	return false
}

func (a *nodeNavigator) MoveToNext() bool {
	if a.attr != nil {
		return false
	}
	for s := a.curr.NextSibling(); s != nil; s = s.NextSibling() {
		if usable(s) {
			a.curr = s
			return true
		}
	}
	return false
}

func (a *nodeNavigator) MoveToPrevious() bool {
	if a.attr != nil {
		return false
	}
	for s := a.curr.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		if usable(s) {
			a.curr = s
			return true
		}
	}
	return false
}

func (a *nodeNavigator) MoveTo(other antchfxpath.NodeNavigator) bool {
	o, ok := other.(*nodeNavigator)
	if !ok {
		return false
	}
	a.root, a.curr, a.attr = o.root, o.curr, o.attr
	return true
}

func firstUsableChild(n dom.Node) dom.Node {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if usable(c) {
			return c
		}
	}
	return nil
}

// usable reports whether n is a node kind the navigator exposes to
// the XPath engine: elements, text and comments. Processing
// instructions and declarations are parser artifacts outside the
// document's data model and are skipped.
func usable(n dom.Node) bool {
	switch n.NodeType() {
	case dom.NodeTypeElement, dom.NodeTypeText, dom.NodeTypeCDATASection, dom.NodeTypeComment:
		return true
	default:
		return false
	}
}

var _ antchfxpath.NodeNavigator = &nodeNavigator{}
