package treediff_test

import (
	"testing"

	xml "github.com/andaru/flexml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/netconfd/bind"
	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/treediff"
	"github.com/andaru/netconfd/yangmodel"
)

func loadDiffSchema(t *testing.T) *yangmodel.Collection {
	t.Helper()
	yangmodel.SetYANGPath("../yangmodel/testdata")
	c := yangmodel.NewCollection()
	require.Empty(t, c.ImportAll())
	require.Empty(t, c.Process())
	return c
}

func elem(local string) dom.Element {
	return dom.CreateElement(xml.StartElement{Name: xml.Name{Local: local}})
}

func leaf(local, value string) dom.Node {
	e := elem(local)
	_ = e.AppendChild(dom.CreateText(xml.CharData(value)))
	return e
}

func interfaceEntry(name, mtu string) dom.Node {
	e := elem("interface")
	_ = e.AppendChild(leaf("name", name))
	_ = e.AppendChild(leaf("mtu", mtu))
	return e
}

func localNames(nodes []dom.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name().Local)
	}
	return out
}

func TestDiff_leafOnlyInFirst(t *testing.T) {
	mods := loadDiffSchema(t)
	schema := mods.FindTopNode("system")

	t1 := elem("system")
	_ = t1.AppendChild(leaf("hostname", "router1"))
	t2 := elem("system")

	first, second, changed := treediff.Diff(t1, t2, schema)
	assert.Equal(t, []string{"hostname"}, localNames(first))
	assert.Empty(t, second)
	assert.Empty(t, changed)
}

func TestDiff_leafOnlyInSecond(t *testing.T) {
	mods := loadDiffSchema(t)
	schema := mods.FindTopNode("system")

	t1 := elem("system")
	t2 := elem("system")
	_ = t2.AppendChild(leaf("hostname", "router1"))

	first, second, changed := treediff.Diff(t1, t2, schema)
	assert.Empty(t, first)
	assert.Equal(t, []string{"hostname"}, localNames(second))
	assert.Empty(t, changed)
}

func TestDiff_changedLeaf(t *testing.T) {
	mods := loadDiffSchema(t)
	schema := mods.FindTopNode("system")

	t1 := elem("system")
	_ = t1.AppendChild(leaf("hostname", "router1"))
	t2 := elem("system")
	_ = t2.AppendChild(leaf("hostname", "router2"))

	first, second, changed := treediff.Diff(t1, t2, schema)
	assert.Empty(t, first)
	assert.Empty(t, second)
	require.Len(t, changed, 1)
	assert.Equal(t, "router1", changed[0].First.ChildValue())
	assert.Equal(t, "router2", changed[0].Second.ChildValue())
}

func TestDiff_unchangedLeafNotReported(t *testing.T) {
	mods := loadDiffSchema(t)
	schema := mods.FindTopNode("system")

	t1 := elem("system")
	_ = t1.AppendChild(leaf("hostname", "router1"))
	t2 := elem("system")
	_ = t2.AppendChild(leaf("hostname", "router1"))

	first, second, changed := treediff.Diff(t1, t2, schema)
	assert.Empty(t, first)
	assert.Empty(t, second)
	assert.Empty(t, changed)
}

func TestDiff_listEntriesMatchedByKey(t *testing.T) {
	mods := loadDiffSchema(t)
	schema := mods.FindTopNode("system")

	t1 := elem("system")
	_ = t1.AppendChild(interfaceEntry("eth0", "1500"))
	_ = t1.AppendChild(interfaceEntry("eth1", "1500"))
	t2 := elem("system")
	_ = t2.AppendChild(interfaceEntry("eth0", "9000"))

	first, second, changed := treediff.Diff(t1, t2, schema)
	require.Len(t, first, 1)
	assert.Equal(t, "eth1", first[0].ChildByName(xml.Name{Local: "name"}).ChildValue())
	assert.Empty(t, second)
	require.Len(t, changed, 1)
	assert.Equal(t, "1500", changed[0].First.ChildValue())
	assert.Equal(t, "9000", changed[0].Second.ChildValue())
}

func TestDiff_leafListMatchedByBody(t *testing.T) {
	mods := loadDiffSchema(t)
	schema := mods.FindTopNode("system")

	t1 := elem("system")
	_ = t1.AppendChild(leaf("dns-server", "1.1.1.1"))
	_ = t1.AppendChild(leaf("dns-server", "9.9.9.9"))
	t2 := elem("system")
	_ = t2.AppendChild(leaf("dns-server", "9.9.9.9"))

	first, second, changed := treediff.Diff(t1, t2, schema)
	require.Len(t, first, 1)
	assert.Equal(t, "1.1.1.1", first[0].ChildValue())
	assert.Empty(t, second)
	assert.Empty(t, changed)
}

func TestDiff_nilSchemaYieldsEmptyVectors(t *testing.T) {
	t1 := elem("system")
	_ = t1.AppendChild(leaf("hostname", "router1"))
	t2 := elem("system")

	first, second, changed := treediff.Diff(t1, t2, nil)
	assert.Empty(t, first)
	assert.Empty(t, second)
	assert.Empty(t, changed)
}

func TestSort_delegatesToContext(t *testing.T) {
	mods := loadDiffSchema(t)
	ctx := bind.NewContext(mods)
	schema := mods.FindTopNode("system")

	system := elem("system")
	_ = system.AppendChild(interfaceEntry("eth1", "1500"))
	_ = system.AppendChild(interfaceEntry("eth0", "9000"))

	treediff.Sort(ctx, system, schema)

	var names []string
	for ch := system.FirstChild(); ch != nil; ch = ch.NextSibling() {
		names = append(names, ch.ChildByName(xml.Name{Local: "name"}).ChildValue())
	}
	assert.Equal(t, []string{"eth0", "eth1"}, names)
}
