package netconf

import (
	"testing"

	xml "github.com/andaru/flexml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/netconfd/dom"
)

func TestHello_ToNodeParseHelloRoundTrip(t *testing.T) {
	h := Hello{SessionID: 42, Capabilities: []string{BaseCapability10, BaseCapability11}}
	node := h.ToNode()

	got := ParseHello(node)
	assert.Equal(t, h.SessionID, got.SessionID)
	assert.Equal(t, h.Capabilities, got.Capabilities)
	assert.True(t, got.HasCapability(BaseCapability11))
	assert.False(t, got.HasCapability("urn:bogus"))
}

func TestHello_ToNode_omitsSessionIDWhenZero(t *testing.T) {
	h := Hello{Capabilities: []string{BaseCapability10}}
	node := h.ToNode()
	assert.Nil(t, node.ChildByName(nameSessionID))
}

func rpcNode(messageID string, op dom.Node) dom.Node {
	rpc := dom.CreateElement(xml.StartElement{Name: nameRPC})
	if messageID != "" {
		_ = rpc.AppendAttribute(xml.Attr{Name: attrMessageID, Value: messageID})
	}
	_ = rpc.AppendChild(op)
	return rpc
}

func TestParseRequest_ok(t *testing.T) {
	op := dom.CreateElement(xml.StartElement{Name: xml.Name{Space: BaseNS, Local: "get"}})
	rpc := rpcNode("101", op)

	req, rerr := ParseRequest(rpc)
	require.Nil(t, rerr)
	assert.Equal(t, "101", req.MessageID)
	assert.Equal(t, xml.Name{Space: BaseNS, Local: "get"}, req.OpName)
	assert.Equal(t, op.Identity(), req.Operation.Identity())
}

func TestParseRequest_notRPC(t *testing.T) {
	notRPC := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "not-rpc"}})
	_, rerr := ParseRequest(notRPC)
	require.NotNil(t, rerr)
	assert.Equal(t, ErrTagMalformedMessage, rerr.Tag)
}

func TestParseRequest_noOperation(t *testing.T) {
	rpc := dom.CreateElement(xml.StartElement{Name: nameRPC})
	_, rerr := ParseRequest(rpc)
	require.NotNil(t, rerr)
	assert.Equal(t, ErrTagMalformedMessage, rerr.Tag)
}

func TestParseRequest_multipleOperations(t *testing.T) {
	rpc := dom.CreateElement(xml.StartElement{Name: nameRPC})
	_ = rpc.AppendChild(dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "get"}}))
	_ = rpc.AppendChild(dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "get-config"}}))
	_, rerr := ParseRequest(rpc)
	require.NotNil(t, rerr)
	assert.Equal(t, ErrTagMalformedMessage, rerr.Tag)
}

func TestReplyOK(t *testing.T) {
	req := &Request{MessageID: "5"}
	reply := ReplyOK(req)
	assert.Equal(t, nameRPCReply, reply.Name())
	assert.NotNil(t, reply.ChildByName(nameOK))
}

func TestReplyData_movesChildrenUnderData(t *testing.T) {
	req := &Request{}
	body := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "wrapper"}})
	_ = body.AppendChild(dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "system"}}))

	reply := ReplyData(req, body)
	data := reply.ChildByName(nameData)
	require.NotNil(t, data)
	assert.NotNil(t, data.ChildByName(xml.Name{Local: "system"}))
	assert.Nil(t, body.FirstChild())
}

func TestReplyResult(t *testing.T) {
	req := &Request{}
	body := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "schema"}})
	reply := ReplyResult(req, body)
	got := reply.ChildByName(xml.Name{Local: "schema"})
	require.NotNil(t, got)
	assert.Equal(t, body.Identity(), got.Identity())
}

func TestReplyError(t *testing.T) {
	req := &Request{MessageID: "7"}
	err1 := NewAppError(ErrTagInvalidValue, "bad value")
	reply := ReplyError(req, err1)
	errNode := reply.ChildByName(nameRPCError)
	require.NotNil(t, errNode)
	assert.Equal(t, "invalid-value", errNode.ChildByName(nameErrTag).ChildValue())
}

func TestRPCError_Error(t *testing.T) {
	e := NewAppError(ErrTagOperationFailed, "boom")
	assert.Contains(t, e.Error(), "boom")
	assert.Contains(t, e.Error(), "operation-failed")
}

func TestRPCError_ToNode(t *testing.T) {
	e := &RPCError{
		Type: ErrTypeApp, Tag: ErrTagDataMissing, Severity: SevError,
		AppTag: "app", Path: "/system/hostname", Message: "missing", Info: "<bad/>",
	}
	node := e.ToNode()
	assert.Equal(t, "data-missing", node.ChildByName(nameErrTag).ChildValue())
	assert.Equal(t, "app", node.ChildByName(nameErrAppTag).ChildValue())
	assert.Equal(t, "/system/hostname", node.ChildByName(nameErrPath).ChildValue())
	assert.Equal(t, "missing", node.ChildByName(nameErrMessage).ChildValue())
	assert.Equal(t, "<bad/>", node.ChildByName(nameErrInfo).ChildValue())
}

func TestMissingMandatoryInvalidValue(t *testing.T) {
	e := MissingMandatory("/system", "hostname")
	assert.Equal(t, ErrTagMissingElement, e.Tag)
	assert.Equal(t, "/system", e.Path)

	e2 := InvalidValue("/system/mtu", "out of range")
	assert.Equal(t, ErrTagInvalidValue, e2.Tag)
	assert.Equal(t, "out of range", e2.Message)
}
