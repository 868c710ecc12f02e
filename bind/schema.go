package bind

import (
	"github.com/andaru/netconfd/dom"
	"github.com/openconfig/goyang/pkg/yang"
)

// SchemaLinks is the non-owning table of XML-element-to-YANG-node
// associations described in spec section 3 ("Schema link"). A link is
// valid only while the Context's module set remains loaded; there is
// no owning reference from the YANG side back to the XML tree.
type SchemaLinks struct {
	byNode map[interface{}]*yang.Entry
}

// NewSchemaLinks returns an empty link table.
func NewSchemaLinks() *SchemaLinks {
	return &SchemaLinks{byNode: make(map[interface{}]*yang.Entry)}
}

// Bind records that n is described by schema s.
func (l *SchemaLinks) Bind(n dom.Node, s *yang.Entry) {
	l.byNode[n.Identity()] = s
}

// Lookup returns the YANG schema node bound to n, or nil if n carries
// no binding (e.g. it was never validated, or binding failed for it).
func (l *SchemaLinks) Lookup(n dom.Node) *yang.Entry {
	return l.byNode[n.Identity()]
}

// Unbind removes any binding recorded for n, so that a node detached
// from its tree no longer carries a stale schema pointer.
func (l *SchemaLinks) Unbind(n dom.Node) {
	delete(l.byNode, n.Identity())
}
