package bind

import (
	"sort"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/yangmodel"
)

// Sort reorders parent's element children in place per spec: LIST
// instances by the lexicographic tuple of their key leaf values, and
// LEAF-LIST instances by parsed value; every other child keeps its
// original relative position. It recurses into every CONTAINER/LIST
// descendant. Relinking is identity-preserving: no node is copied or
// reallocated, only detached and reappended via dom.Node's own
// sibling pointers.
//
// Running Sort twice produces an identical child order (each
// comparison key is a pure function of already-sorted content), so
// Sort composes with Validate to satisfy the idempotence invariant.
func (c *Context) Sort(parent dom.Node, schema *yang.Entry) {
	if schema == nil {
		return
	}

	var items []sortItem
	groupOrder := map[string]int{}
	idx := 0
	for ch := parent.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if ch.NodeType() != dom.NodeTypeElement {
			continue
		}
		name := ch.Name().Local
		if _, ok := groupOrder[name]; !ok {
			groupOrder[name] = len(groupOrder)
		}
		items = append(items, sortItem{
			node:       ch,
			name:       name,
			groupOrder: groupOrder[name],
			origIndex:  idx,
			keyTuple:   sortKeyOf(ch, name, schema),
		})
		idx++
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.groupOrder != b.groupOrder {
			return a.groupOrder < b.groupOrder
		}
		for k := 0; k < len(a.keyTuple) && k < len(b.keyTuple); k++ {
			if a.keyTuple[k] != b.keyTuple[k] {
				return a.keyTuple[k] < b.keyTuple[k]
			}
		}
		return a.origIndex < b.origIndex
	})

	for _, it := range items {
		_ = parent.RemoveChild(it.node)
	}
	for _, it := range items {
		_ = parent.AppendChild(it.node)
	}

	for _, it := range items {
		childSchema := yangmodel.FindSyntax(schema, it.name)
		if childSchema != nil && childSchema.Kind == yang.DirectoryEntry {
			c.Sort(it.node, childSchema)
		}
	}
}

type sortItem struct {
	node       dom.Node
	name       string
	groupOrder int
	origIndex  int
	keyTuple   []string
}

// sortKeyOf returns the comparison tuple for a same-named run of
// children: key leaf values for a LIST, the parsed body for a
// LEAF-LIST, nil (no reordering within the group) otherwise.
func sortKeyOf(n dom.Node, name string, parentSchema *yang.Entry) []string {
	schema := yangmodel.FindSyntax(parentSchema, name)
	if schema == nil {
		return nil
	}
	if schema.Kind == yang.DirectoryEntry && schema.ListAttr != nil {
		keys := yangmodel.KeysOf(schema)
		tuple := make([]string, len(keys))
		for i, k := range keys {
			tuple[i] = childValueByLocalName(n, k)
		}
		return tuple
	}
	if schema.Kind == yang.LeafEntry && schema.ListAttr != nil {
		return []string{n.ChildValue()}
	}
	return nil
}

func childValueByLocalName(n dom.Node, local string) string {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if ch.NodeType() == dom.NodeTypeElement && ch.Name().Local == local {
			return ch.ChildValue()
		}
	}
	return ""
}
