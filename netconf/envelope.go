package netconf

import (
	"strconv"

	xml "github.com/andaru/flexml"

	"github.com/andaru/netconfd/dom"
)

// BaseNS is the NETCONF 1.0 base capability namespace and the
// namespace every <rpc>/<rpc-reply>/<hello> envelope element lives in.
const BaseNS = "urn:ietf:params:xml:ns:netconf:base:1.0"

// BaseCapability10 is the NETCONF 1.0 base capability URI. The session
// rejects a peer <hello> that advertises neither this capability nor
// BaseCapability11 as a fatal protocol error (spec.md 4.F).
const BaseCapability10 = "urn:ietf:params:netconf:base:1.0"

// BaseCapability11 is the NETCONF 1.1 (RFC 6242 chunked framing) base
// capability URI. Its presence in both hellos upgrades framing.
const BaseCapability11 = "urn:ietf:params:netconf:base:1.1"

var (
	nameRPC        = xml.Name{Space: BaseNS, Local: "rpc"}
	nameRPCReply   = xml.Name{Space: BaseNS, Local: "rpc-reply"}
	nameRPCError   = xml.Name{Space: BaseNS, Local: "rpc-error"}
	nameHello      = xml.Name{Space: BaseNS, Local: "hello"}
	nameData       = xml.Name{Space: BaseNS, Local: "data"}
	nameOK         = xml.Name{Space: BaseNS, Local: "ok"}
	nameSessionID  = xml.Name{Space: BaseNS, Local: "session-id"}
	nameCaps       = xml.Name{Space: BaseNS, Local: "capabilities"}
	nameCap        = xml.Name{Space: BaseNS, Local: "capability"}
	attrMessageID  = xml.Name{Local: "message-id"}
	nameErrType    = xml.Name{Space: BaseNS, Local: "error-type"}
	nameErrTag     = xml.Name{Space: BaseNS, Local: "error-tag"}
	nameErrSev     = xml.Name{Space: BaseNS, Local: "error-severity"}
	nameErrAppTag  = xml.Name{Space: BaseNS, Local: "error-app-tag"}
	nameErrPath    = xml.Name{Space: BaseNS, Local: "error-path"}
	nameErrMessage = xml.Name{Space: BaseNS, Local: "error-message"}
	nameErrInfo    = xml.Name{Space: BaseNS, Local: "error-info"}
)

// Hello is the capability-exchange message exchanged at session
// start, RFC 6241 section 8.1.
type Hello struct {
	SessionID    uint32
	Capabilities []string
}

// ToNode renders h as a dom.Node subtree rooted at <hello>.
func (h Hello) ToNode() dom.Node {
	root := dom.CreateElement(xml.StartElement{Name: nameHello})
	caps := dom.CreateElement(xml.StartElement{Name: nameCaps})
	for _, c := range h.Capabilities {
		capEl := dom.CreateElement(xml.StartElement{Name: nameCap})
		_ = capEl.AppendChild(dom.CreateText(xml.CharData(c)))
		_ = caps.AppendChild(capEl)
	}
	_ = root.AppendChild(caps)
	if h.SessionID != 0 {
		idEl := dom.CreateElement(xml.StartElement{Name: nameSessionID})
		_ = idEl.AppendChild(dom.CreateText(xml.CharData(strconv.Itoa(int(h.SessionID)))))
		_ = root.AppendChild(idEl)
	}
	return root
}

// ParseHello extracts capabilities and session-id from a parsed
// <hello> subtree.
func ParseHello(n dom.Node) Hello {
	var h Hello
	caps := n.ChildByName(nameCaps)
	if caps != nil {
		for _, c := range caps.ChildrenByName(nameCap) {
			h.Capabilities = append(h.Capabilities, c.ChildValue())
		}
	}
	if idNode := n.ChildByName(nameSessionID); idNode != nil {
		if v, err := strconv.Atoi(idNode.ChildValue()); err == nil {
			h.SessionID = uint32(v)
		}
	}
	return h
}

// HasCapability reports whether h advertises uri.
func (h Hello) HasCapability(uri string) bool {
	for _, c := range h.Capabilities {
		if c == uri {
			return true
		}
	}
	return false
}

// Request is a parsed inbound <rpc> envelope: its message-id, every
// attribute present (copied verbatim onto the reply per RFC 6241
// section 7.3), and the single operation child.
type Request struct {
	MessageID string
	Attrs     []xml.Attr
	Operation dom.Node
	OpName    xml.Name
}

// ParseRequest validates that root is a top-level <rpc> with exactly
// one operation child and extracts a Request. A malformed envelope
// (no <rpc>, no operation child, more than one operation child)
// returns a protocol-layer *RPCError per spec.md section 7.
func ParseRequest(root dom.Node) (*Request, *RPCError) {
	if root.NodeType() != dom.NodeTypeElement || root.Name() != nameRPC {
		return nil, NewProtocolError(ErrTagMalformedMessage, "top-level element is not <rpc>")
	}
	req := &Request{}
	for a := elementAttrs(root); a != nil; a = a.NextSibling() {
		name := a.Name()
		req.Attrs = append(req.Attrs, xml.Attr{Name: name, Value: a.Value()})
		if name == attrMessageID {
			req.MessageID = a.Value()
		}
	}
	var op dom.Node
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() != dom.NodeTypeElement {
			continue
		}
		if op != nil {
			return nil, NewProtocolError(ErrTagMalformedMessage, "<rpc> must contain exactly one operation")
		}
		op = c
	}
	if op == nil {
		return nil, NewProtocolError(ErrTagMalformedMessage, "<rpc> has no operation child")
	}
	req.Operation = op
	req.OpName = op.Name()
	return req, nil
}

func elementAttrs(n dom.Node) dom.Attr {
	if ap, ok := n.(dom.AttributeProvider); ok {
		return ap.FirstAttribute()
	}
	return nil
}

// ReplyOK renders an <rpc-reply> carrying a single <ok/> child, used
// by edit-config, lock/unlock, commit, and similar operations that
// succeed without returning data.
func ReplyOK(req *Request) dom.Node {
	reply := newReplyEnvelope(req)
	_ = reply.AppendChild(dom.CreateElement(xml.StartElement{Name: nameOK}))
	return reply
}

// ReplyData moves body's children into a <data> element inside an
// <rpc-reply>, the shape returned by get/get-config (spec.md scenario 2).
// body itself is not part of the reply and is left with no children.
func ReplyData(req *Request, body dom.Node) dom.Node {
	reply := newReplyEnvelope(req)
	data := dom.CreateElement(xml.StartElement{Name: nameData})
	if body != nil {
		for c := body.FirstChild(); c != nil; {
			next := c.NextSibling()
			_ = body.RemoveChild(c)
			_ = data.AppendChild(c)
			c = next
		}
	}
	_ = reply.AppendChild(data)
	return reply
}

// ReplyResult wraps an arbitrary handler result subtree directly
// inside <rpc-reply>, for operations whose reply body is not <data>
// or <ok/> (e.g. get-schema).
func ReplyResult(req *Request, body dom.Node) dom.Node {
	reply := newReplyEnvelope(req)
	if body != nil {
		_ = reply.AppendChild(body)
	}
	return reply
}

// ReplyError renders one or more RPCError values as an <rpc-reply>
// containing <rpc-error> children.
func ReplyError(req *Request, errs ...*RPCError) dom.Node {
	reply := newReplyEnvelope(req)
	for _, e := range errs {
		_ = reply.AppendChild(e.ToNode())
	}
	return reply
}

func newReplyEnvelope(req *Request) dom.Node {
	reply := dom.CreateElement(xml.StartElement{Name: nameRPCReply})
	if req == nil {
		return reply
	}
	for _, a := range req.Attrs {
		_ = reply.AppendAttribute(a)
	}
	return reply
}

// ToNode renders e as an <rpc-error> subtree per RFC 6241 appendix A.
func (e *RPCError) ToNode() dom.Node {
	root := dom.CreateElement(xml.StartElement{Name: nameRPCError})
	appendLeaf(root, nameErrType, string(e.Type))
	appendLeaf(root, nameErrTag, string(e.Tag))
	appendLeaf(root, nameErrSev, string(e.Severity))
	if e.AppTag != "" {
		appendLeaf(root, nameErrAppTag, e.AppTag)
	}
	if e.Path != "" {
		appendLeaf(root, nameErrPath, e.Path)
	}
	if e.Message != "" {
		appendLeaf(root, nameErrMessage, e.Message)
	}
	if e.Info != "" {
		appendLeaf(root, nameErrInfo, e.Info)
	}
	return root
}

func appendLeaf(parent dom.Node, name xml.Name, value string) {
	el := dom.CreateElement(xml.StartElement{Name: name})
	_ = el.AppendChild(dom.CreateText(xml.CharData(value)))
	_ = parent.AppendChild(el)
}

