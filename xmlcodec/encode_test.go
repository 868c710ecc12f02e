package xmlcodec_test

import (
	"strings"
	"testing"

	xml "github.com/andaru/flexml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/xmlcodec"
)

func buildSystemTree() dom.Node {
	system := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "system"}})
	hostname := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "hostname"}})
	_ = hostname.AppendChild(dom.CreateText(xml.CharData("r1")))
	_ = system.AppendChild(hostname)
	return system
}

func TestEncode_writesWellFormedXML(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, xmlcodec.Encode(&buf, buildSystemTree()))
	out := buf.String()
	assert.Contains(t, out, "<system>")
	assert.Contains(t, out, "<hostname>r1</hostname>")
	assert.Contains(t, out, "</system>")
}

func TestPretty_depthZeroReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", xmlcodec.Pretty(buildSystemTree(), 0))
}

func TestPretty_depthOneSuppressesChildren(t *testing.T) {
	out := xmlcodec.Pretty(buildSystemTree(), 1)
	assert.Equal(t, "<system></system>", out)
}

func TestPretty_unboundedRendersFullTree(t *testing.T) {
	out := xmlcodec.Pretty(buildSystemTree(), -1)
	assert.Contains(t, out, "<system>")
	assert.Contains(t, out, "<hostname>r1</hostname>")
	assert.Contains(t, out, "</system>")
}

func TestPretty_selfClosesEmptyElement(t *testing.T) {
	empty := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "empty"}})
	assert.Equal(t, "<empty/>", xmlcodec.Pretty(empty, -1))
}

func TestPretty_indentsNestedElements(t *testing.T) {
	root := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "root"}})
	child := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "child"}})
	grandchild := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "leaf"}})
	_ = grandchild.AppendChild(dom.CreateText(xml.CharData("v")))
	_ = child.AppendChild(grandchild)
	_ = root.AppendChild(child)

	out := xmlcodec.Pretty(root, -1)
	assert.Equal(t, "<root>\n   <child>\n      <leaf>v</leaf>\n   </child>\n</root>", out)
}

func TestPretty_escapesCharData(t *testing.T) {
	el := dom.CreateElement(xml.StartElement{Name: xml.Name{Local: "note"}})
	_ = el.AppendChild(dom.CreateText(xml.CharData("a < b & c > d")))
	out := xmlcodec.Pretty(el, -1)
	assert.Equal(t, "<note>a &lt; b &amp; c &gt; d</note>", out)
}

func TestPretty_nilNodeReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", xmlcodec.Pretty(nil, -1))
}

func TestFramingScanner_detectsSentinel(t *testing.T) {
	s := xmlcodec.NewFramingScanner()
	msg := []byte("<hello/>]]>]]>")
	var end int
	for i, b := range msg {
		if s.Scan(b) {
			end = i + 1
			break
		}
	}
	require.NotZero(t, end)
	assert.Equal(t, "<hello/>", string(msg[:end-xmlcodec.SentinelLen]))
}

func TestFramingScanner_resetDiscardsPartialMatch(t *testing.T) {
	s := xmlcodec.NewFramingScanner()
	assert.False(t, s.Scan(']'))
	assert.False(t, s.Scan(']'))
	s.Reset()
	assert.False(t, s.Scan(']'))
	assert.False(t, s.Scan(']'))
	assert.False(t, s.Scan('>'))
	assert.False(t, s.Scan(']'))
	assert.False(t, s.Scan(']'))
	assert.True(t, s.Scan('>'))
}

func TestFramingScanner_falseStartRecovers(t *testing.T) {
	s := xmlcodec.NewFramingScanner()
	for _, b := range []byte("]]>]x]]>]]>") {
		if s.Scan(b) {
			return
		}
	}
	t.Fatal("scanner never matched sentinel after false start")
}
