package yangmodel

import (
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"
)

// FindChild returns the first child of node matching keyword, and, if
// argument is non-empty, also matching argument. It mirrors the
// clixon yang_find()/yang_find_syntax() family of lookups but operates
// on a goyang *yang.Entry, whose Dir map has already flattened
// uses/grouping expansion and augmentation.
//
// For keyword KEY, FindChild returns node itself when node has a key and
// argument is empty or equal to the whole node.Key string.
func FindChild(node *yang.Entry, keyword string, argument ...string) *yang.Entry {
	if node == nil {
		return nil
	}
	want := ""
	if len(argument) > 0 {
		want = argument[0]
	}
	switch strings.ToUpper(keyword) {
	case "KEY":
		if node.Key != "" && (want == "" || want == node.Key) {
			return node
		}
		return nil
	}
	for _, name := range sortedDirNames(node) {
		child := node.Dir[name]
		if want != "" && child.Name != want {
			continue
		}
		if entryKeyword(child) == strings.ToUpper(keyword) {
			return child
		}
	}
	return nil
}

// FindTopNode locates a top-level schema node by local name across
// every module in the collection, returning the first match found.
func (c *Collection) FindTopNode(localName string) *yang.Entry {
	var found *yang.Entry
	_ = c.IterLatest(func(mod *yang.Module) error {
		e := yang.ToEntry(mod)
		if e == nil {
			return nil
		}
		if child, ok := e.Dir[localName]; ok {
			found = child
			return errors.New("stop")
		}
		return nil
	})
	return found
}

// FindSyntax resolves a local name among the schema-visible children
// of node, including those brought in via choice/case wrapper levels
// (goyang already inlines uses/grouping into Dir, but choice/case
// nodes remain as their own Entry with their own Dir).
func FindSyntax(node *yang.Entry, localName string) *yang.Entry {
	if node == nil {
		return nil
	}
	if child, ok := node.Dir[localName]; ok {
		return child
	}
	for _, name := range sortedDirNames(node) {
		child := node.Dir[name]
		if child.Kind != yang.ChoiceEntry && child.Kind != yang.CaseEntry {
			continue
		}
		if found := FindSyntax(child, localName); found != nil {
			return found
		}
	}
	return nil
}

// FindRPC locates the `rpc` statement named localName across every
// module in the collection. The returned Entry's RPC field is always
// non-nil for a successful lookup; callers bind request children
// against RPC.Input and response children against RPC.Output.
func (c *Collection) FindRPC(localName string) *yang.Entry {
	var found *yang.Entry
	_ = c.IterLatest(func(mod *yang.Module) error {
		e := yang.ToEntry(mod)
		if e == nil {
			return nil
		}
		child, ok := e.Dir[localName]
		if !ok || child.RPC == nil {
			return nil
		}
		found = child
		return errors.New("stop")
	})
	return found
}

// KeysOf returns the ordered key-leaf names of a LIST entry, parsed
// from the whitespace-separated yang.Entry.Key field. Returns nil for
// a non-list entry or a keyless list.
func KeysOf(list *yang.Entry) []string {
	if list == nil || list.Key == "" {
		return nil
	}
	return strings.Fields(list.Key)
}

// IsMandatory reports whether leaf carries `mandatory true`. goyang
// does not promote "mandatory" to a dedicated Entry field; it lands in
// Entry.Extra["mandatory"] as the raw *yang.Value from the leaf's AST
// node, the same representation used for "default" before Entry.merge
// copies it into the dedicated Default field.
func IsMandatory(leaf *yang.Entry) bool {
	if leaf == nil {
		return false
	}
	vals, ok := leaf.Extra["mandatory"]
	if !ok || len(vals) == 0 {
		return false
	}
	v, ok := vals[0].(*yang.Value)
	return ok && v != nil && v.Name == "true"
}

// entryKeyword recovers an approximate YANG keyword for an Entry, used
// only by FindChild's keyword-based search (KEY is handled directly
// against Entry.Key since goyang does not retain it as a child Entry).
func entryKeyword(e *yang.Entry) string {
	switch e.Kind {
	case yang.DirectoryEntry:
		if e.ListAttr != nil {
			return "LIST"
		}
		return "CONTAINER"
	case yang.LeafEntry:
		if e.ListAttr != nil {
			return "LEAF-LIST"
		}
		return "LEAF"
	case yang.ChoiceEntry:
		return "CHOICE"
	case yang.CaseEntry:
		return "CASE"
	case yang.AnyXMLEntry, yang.AnyDataEntry:
		return "ANYXML"
	}
	return ""
}

func sortedDirNames(e *yang.Entry) []string {
	names := make([]string, 0, len(e.Dir))
	for name := range e.Dir {
		names = append(names, name)
	}
	// Dir iteration order is not significant to YANG semantics (schema
	// position comes from Entry.Extra["yang:position"] in strict
	// clixon parity, unavailable here); a stable lexical order keeps
	// FindChild/FindSyntax deterministic across calls.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
