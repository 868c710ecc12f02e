package xmlcodec

import (
	"io"
	"strings"

	xml "github.com/andaru/flexml"
	"github.com/pkg/errors"

	"github.com/andaru/netconfd/dom"
)

// EncodeOption configures Encode.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	explicitNS bool
}

// WithExplicitNamespaces causes Encode to emit the XML namespace on
// every element, matching dom.WithExplicitNS.
func WithExplicitNamespaces() EncodeOption {
	return func(c *encodeConfig) { c.explicitNS = true }
}

// Encode writes n and its descendants to w as XML, generalizing the
// dom package's Marshaler over a plain io.Writer.
func Encode(w io.Writer, n dom.Node, opts ...EncodeOption) error {
	cfg := &encodeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	var mopts []dom.MarshalerOption
	if cfg.explicitNS {
		mopts = append(mopts, dom.WithExplicitNS())
	}
	m := dom.NewMarshaler(n, mopts...)
	_, err := m.XMLWriter().WriteTo(w)
	return errors.WithStack(err)
}

const indentUnit = "   "

// Pretty renders n as indented XML text, 3-space indent, newlines
// only between element siblings. depth caps recursion: -1 is
// unbounded, 0 suppresses the node entirely (returns ""), 1 emits the
// node itself but none of its children.
func Pretty(n dom.Node, depth int) string {
	if depth == 0 || n == nil {
		return ""
	}
	var b strings.Builder
	prettyNode(&b, n, 0, depth, "")
	return b.String()
}

// prettyNode renders n, given the namespace URI its nearest rendered
// ancestor declared as its default namespace (ns), so prettyElement
// can tell whether it needs its own xmlns declaration.
func prettyNode(b *strings.Builder, n dom.Node, indent, depth int, ns string) {
	switch n.NodeType() {
	case dom.NodeTypeElement:
		prettyElement(b, n, indent, depth, ns)
	case dom.NodeTypeText:
		b.WriteString(escapeCharData(n.ChildValue()))
	case dom.NodeTypeComment:
		b.WriteString("<!--")
		b.WriteString(n.ChildValue())
		b.WriteString("-->")
	case dom.NodeTypeDocument, dom.NodeTypeDocumentFragment:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			prettyNode(b, c, indent, depth, ns)
			if c.NextSibling() != nil {
				b.WriteByte('\n')
			}
		}
	}
}

func prettyElement(b *strings.Builder, n dom.Node, indent, depth int, ns string) {
	writeIndent(b, indent)
	name := n.Name()
	b.WriteByte('<')
	b.WriteString(qualifiedName(name))

	childNS := ns
	if name.Space != "" && name.Space != ns {
		b.WriteString(` xmlns="`)
		b.WriteString(escapeAttrValue(name.Space))
		b.WriteByte('"')
		childNS = name.Space
	}

	if ap, ok := n.(dom.AttributeProvider); ok {
		for a := ap.FirstAttribute(); a != nil; a = a.NextSibling() {
			b.WriteByte(' ')
			b.WriteString(qualifiedName(a.Name()))
			b.WriteString(`="`)
			b.WriteString(escapeAttrValue(a.Value()))
			b.WriteByte('"')
		}
	}

	first := n.FirstChild()
	if first == nil {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')

	if depth == 1 {
		b.WriteString("</")
		b.WriteString(qualifiedName(name))
		b.WriteByte('>')
		return
	}

	childDepth := depth
	if depth > 0 {
		childDepth = depth - 1
	}

	onlyText := true
	for c := first; c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeText {
			onlyText = false
			break
		}
	}

	if onlyText {
		for c := first; c != nil; c = c.NextSibling() {
			prettyNode(b, c, 0, childDepth, childNS)
		}
	} else {
		b.WriteByte('\n')
		for c := first; c != nil; c = c.NextSibling() {
			prettyNode(b, c, indent+1, childDepth, childNS)
			b.WriteByte('\n')
		}
		writeIndent(b, indent)
	}
	b.WriteString("</")
	b.WriteString(qualifiedName(name))
	b.WriteByte('>')
}

// qualifiedName returns n's rendered element/attribute name. dom
// elements never carry a recorded prefix (CreateElement and the
// unmarshaler both only populate Name, not Prefix), so there is
// nothing to qualify with; the namespace itself is instead rendered
// as a default "xmlns" declaration by prettyElement, matching how
// dom.Marshaler handles the same Name.Space-only representation.
func qualifiedName(name xml.Name) string {
	return name.Local
}

func writeIndent(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteString(indentUnit)
	}
}

func escapeCharData(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttrValue(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
