// Package treediff implements schema-aware tree sorting and
// three-vector structural diff over dom.Node trees, component 4.E.
package treediff

import (
	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/netconfd/bind"
	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/yangmodel"
)

// Sort delegates to bind.Context's identity-preserving child sort,
// exposed here under the name spec.md's Sort & diff section uses.
func Sort(ctx *bind.Context, t dom.Node, s *yang.Entry) {
	ctx.Sort(t, s)
}

// Change pairs two leaves under the same identity whose body text
// differs.
type Change struct {
	First, Second dom.Node
}

// Diff compares t1 and t2 recursively against schema s, returning the
// elements present only in t1 (first), only in t2 (second), and the
// leaf pairs present in both whose body differs (changed). Identity
// for CONTAINER/LEAF is local-name equality within a shared parent;
// for LIST, local name plus equal key-tuple values; for LEAF-LIST,
// identical body text. Order within each vector matches first-
// encounter order in its source tree.
func Diff(t1, t2 dom.Node, s *yang.Entry) (first, second []dom.Node, changed []Change) {
	diffDirection(t1, t2, s, &first, &changed, true)
	diffDirection(t2, t1, s, &second, nil, false)
	return
}

// diffDirection walks from's element children, looking up each one's
// peer in to by the identity rule for its schema entry. recordChanged
// controls whether leaf body differences are appended to changed
// (done once, from the t1-rooted pass, to avoid double-reporting the
// same pair from the symmetric t2-rooted pass).
func diffDirection(from, to dom.Node, s *yang.Entry, out *[]dom.Node, changed *[]Change, recordChanged bool) {
	if s == nil {
		return
	}
	for c := from.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeElement {
			continue
		}
		name := c.Name().Local
		childSchema := yangmodel.FindSyntax(s, name)
		peer := findPeer(to, c, childSchema, name)
		if peer == nil {
			*out = append(*out, c)
			continue
		}
		if childSchema != nil && childSchema.Kind == yang.DirectoryEntry {
			diffDirection(c, peer, childSchema, out, changed, recordChanged)
			continue
		}
		if recordChanged && c.ChildValue() != peer.ChildValue() {
			*changed = append(*changed, Change{First: c, Second: peer})
		}
	}
}

// findPeer locates, among to's element children, the one identical to
// c under schema's identity rule.
func findPeer(to, c dom.Node, schema *yang.Entry, name string) dom.Node {
	isList := schema != nil && schema.Kind == yang.DirectoryEntry && schema.ListAttr != nil
	isLeafList := schema != nil && schema.Kind == yang.LeafEntry && schema.ListAttr != nil
	keys := yangmodel.KeysOf(schema)

	for cand := to.FirstChild(); cand != nil; cand = cand.NextSibling() {
		if cand.NodeType() != dom.NodeTypeElement || cand.Name().Local != name {
			continue
		}
		switch {
		case isList:
			if keyTupleEqual(c, cand, keys) {
				return cand
			}
		case isLeafList:
			if c.ChildValue() == cand.ChildValue() {
				return cand
			}
		default:
			return cand
		}
	}
	return nil
}

func keyTupleEqual(a, b dom.Node, keys []string) bool {
	for _, k := range keys {
		if childValue(a, k) != childValue(b, k) {
			return false
		}
	}
	return true
}

func childValue(n dom.Node, local string) string {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.NodeTypeElement && c.Name().Local == local {
			return c.ChildValue()
		}
	}
	return ""
}
