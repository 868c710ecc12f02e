// Package xmlcodec wraps the dom package's token-stream builder with
// NETCONF-specific concerns: binding a parsed tree to its YANG schema
// as it is built, pretty-printing with a depth cutoff, and the small
// ]]>]]> framing scanner the transport layer needs.
package xmlcodec

import (
	"io"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"

	"github.com/andaru/netconfd/bind"
	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/netconf"
	"github.com/andaru/netconfd/yangmodel"
)

// BindMode selects how (or whether) a parsed tree is linked to its
// YANG schema as it is built, per the four binding modes.
type BindMode int

// BindMode values.
const (
	// BindNone performs no schema binding; Parse behaves like a plain
	// dom.Unmarshaler.
	BindNone BindMode = iota
	// BindTop binds the root element against a top-level schema node
	// resolved by local name across every loaded module.
	BindTop
	// BindParent binds the root element's children against a
	// caller-supplied parent schema entry (WithParentEntry).
	BindParent
	// BindRPC binds the root element as a NETCONF operation (or, when
	// the root is a base-namespace <rpc> envelope, its first element
	// child): an unknown operation name yields operation-not-supported,
	// an unknown child of a known operation yields unknown-element.
	BindRPC
)

type parseConfig struct {
	mode       BindMode
	modules    *yangmodel.Collection
	parent     *yang.Entry
	links      *bind.SchemaLinks
	unwrap     bool
	builderOps []dom.BuilderOption
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithBindMode selects the binding mode and the module collection to
// bind against. mods may be nil only for BindNone.
func WithBindMode(mode BindMode, mods *yangmodel.Collection) ParseOption {
	return func(c *parseConfig) {
		c.mode = mode
		c.modules = mods
	}
}

// WithParentEntry supplies the schema entry BindParent binds the root
// element's children against.
func WithParentEntry(e *yang.Entry) ParseOption {
	return func(c *parseConfig) { c.parent = e }
}

// WithSchemaLinks supplies the link table Parse records bindings into.
// If omitted, Parse allocates a fresh one and ParseResult.Links
// returns it.
func WithSchemaLinks(l *bind.SchemaLinks) ParseOption {
	return func(c *parseConfig) { c.links = l }
}

// WithUnwrapWrapper causes BindTop/BindParent binding to transparently
// unwrap a root <config> or <data> element, binding its children
// directly against the target schema entry rather than treating the
// wrapper itself as a schema node. This replaces the historical
// XMLDB_CONFIG_HACK compile-time switch with an explicit opt-in; it is
// off by default.
func WithUnwrapWrapper() ParseOption {
	return func(c *parseConfig) { c.unwrap = true }
}

// WithBuilderOptions passes additional dom.BuilderOption values
// through to the underlying dom.Builder (e.g. dom.WithTrimPCData).
func WithBuilderOptions(opts ...dom.BuilderOption) ParseOption {
	return func(c *parseConfig) { c.builderOps = append(c.builderOps, opts...) }
}

// ParseResult is the outcome of a Parse call.
type ParseResult struct {
	// Node is the root of the parsed tree: the new dom.Document Parse
	// builds into, unless a dom.WithRootNode option passed via
	// WithBuilderOptions supplies another node, in which case Node is
	// that node's topmost ancestor.
	Node dom.Node
	// Links records every schema link Parse established, empty if
	// Mode is BindNone.
	Links *bind.SchemaLinks
	// BoundOK is false when binding failed; Errors then carries the
	// structured rpc-error(s) describing why. The parsed tree is
	// still returned in Node even when BoundOK is false, so a caller
	// may inspect the unbound XML that was received.
	BoundOK bool
	Errors  []*netconf.RPCError
}

// Parse decodes an XML document from r into a dom.Node tree, applying
// schema binding per the configured BindMode.
func Parse(r io.Reader, opts ...ParseOption) (*ParseResult, error) {
	cfg := &parseConfig{mode: BindNone}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.links == nil {
		cfg.links = bind.NewSchemaLinks()
	}

	builder := dom.NewBuilder(dom.NewDocument(nil), cfg.builderOps...)
	un := dom.NewUnmarshaler(builder)
	if _, err := un.XMLReader().ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "xmlcodec: decode")
	}
	root := builder.Root()

	res := &ParseResult{Node: root, Links: cfg.links, BoundOK: true}
	if cfg.mode == BindNone {
		return res, nil
	}

	target := firstElementChild(root)
	if target == nil {
		return res, nil
	}

	switch cfg.mode {
	case BindTop:
		if cfg.unwrap && isWrapperElement(target) {
			for c := target.FirstChild(); c != nil; c = c.NextSibling() {
				if c.NodeType() != dom.NodeTypeElement {
					continue
				}
				schema := cfg.modules.FindTopNode(c.Name().Local)
				if schema == nil {
					res.BoundOK = false
					res.Errors = append(res.Errors, netconf.NewAppError(
						netconf.ErrTagUnknownElement, "unknown top-level element "+c.Name().Local))
					continue
				}
				bindSubtree(c, schema, cfg, res)
			}
			return res, nil
		}
		schema := cfg.modules.FindTopNode(target.Name().Local)
		if schema == nil {
			res.BoundOK = false
			res.Errors = append(res.Errors, netconf.NewAppError(
				netconf.ErrTagUnknownElement, "unknown top-level element "+target.Name().Local))
			return res, nil
		}
		bindSubtree(target, schema, cfg, res)
	case BindParent:
		if cfg.unwrap && isWrapperElement(target) {
			bindChildrenAgainst(target, cfg.parent, cfg, res)
			return res, nil
		}
		bindSubtree(target, cfg.parent, cfg, res)
	case BindRPC:
		if n := target.Name(); n.Space == netconf.BaseNS && n.Local == "rpc" {
			if op := firstElementChild(target); op != nil {
				target = op
			}
		}
		rpc := cfg.modules.FindRPC(target.Name().Local)
		if rpc == nil || rpc.RPC == nil {
			res.BoundOK = false
			res.Errors = append(res.Errors, netconf.NewAppError(
				netconf.ErrTagOperationNotSupported, "unsupported operation "+target.Name().Local))
			return res, nil
		}
		cfg.links.Bind(target, rpc)
		input := rpc.RPC.Input
		if input == nil {
			input = &yang.Entry{}
		}
		bindChildrenAgainst(target, input, cfg, res)
	}
	return res, nil
}

// bindSubtree binds element itself against schema, then recurses into
// its children.
func bindSubtree(element dom.Node, schema *yang.Entry, cfg *parseConfig, res *ParseResult) {
	if schema != nil {
		cfg.links.Bind(element, schema)
	}
	bindChildrenAgainst(element, schema, cfg, res)
}

// bindChildrenAgainst binds every element child of parent against the
// matching child of schema, recording unknown-element errors for
// children schema does not describe. schema may be nil, meaning
// "accept anything, bind nothing" (used for BindParent with no entry
// supplied, and inert by construction).
func bindChildrenAgainst(parent dom.Node, schema *yang.Entry, cfg *parseConfig, res *ParseResult) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeElement {
			continue
		}
		if schema == nil {
			continue
		}
		child := yangmodel.FindSyntax(schema, c.Name().Local)
		if child == nil {
			res.BoundOK = false
			res.Errors = append(res.Errors, netconf.NewAppError(
				netconf.ErrTagUnknownElement, "unknown element "+c.Name().Local))
			continue
		}
		bindSubtree(c, child, cfg, res)
	}
}

func firstElementChild(n dom.Node) dom.Node {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.NodeTypeElement {
			return c
		}
	}
	return nil
}

func isWrapperElement(n dom.Node) bool {
	local := n.Name().Local
	return local == "config" || local == "data"
}
