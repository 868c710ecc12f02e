package xpath_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/netconfd/xmlcodec"
	"github.com/andaru/netconfd/xpath"
)

const systemDoc = `<system xmlns="urn:opr8:modules:test:test">
  <hostname>router1</hostname>
  <interface><name>eth0</name><mtu>1500</mtu></interface>
  <interface><name>eth1</name><mtu>9000</mtu></interface>
</system>`

func TestEval_nodeset(t *testing.T) {
	res, err := xmlcodec.Parse(strings.NewReader(systemDoc))
	require.NoError(t, err)

	ctx, err := xpath.Eval("//interface", res.Node, nil)
	require.NoError(t, err)
	assert.Equal(t, xpath.NodesetResult, ctx.Type)
	assert.Len(t, ctx.Nodeset, 2)
}

func TestEval_string(t *testing.T) {
	res, err := xmlcodec.Parse(strings.NewReader(systemDoc))
	require.NoError(t, err)

	ctx, err := xpath.Eval("string(//hostname)", res.Node, nil)
	require.NoError(t, err)
	assert.Equal(t, xpath.StringResult, ctx.Type)
	assert.Equal(t, "router1", ctx.Str)
}

func TestEval_boolean(t *testing.T) {
	res, err := xmlcodec.Parse(strings.NewReader(systemDoc))
	require.NoError(t, err)

	ctx, err := xpath.Eval("boolean(//interface[name='eth1'])", res.Node, nil)
	require.NoError(t, err)
	assert.True(t, ctx.Boolean())

	ctx, err = xpath.Eval("boolean(//interface[name='eth9'])", res.Node, nil)
	require.NoError(t, err)
	assert.False(t, ctx.Boolean())
}

func TestEval_number(t *testing.T) {
	res, err := xmlcodec.Parse(strings.NewReader(systemDoc))
	require.NoError(t, err)

	ctx, err := xpath.Eval("count(//interface)", res.Node, nil)
	require.NoError(t, err)
	assert.Equal(t, xpath.NumberResult, ctx.Type)
	assert.Equal(t, float64(2), ctx.Num)
}

func TestEval_invalidExpression(t *testing.T) {
	res, err := xmlcodec.Parse(strings.NewReader(systemDoc))
	require.NoError(t, err)

	_, err = xpath.Eval("///", res.Node, nil)
	assert.Error(t, err)
}

func TestContext_Boolean_coercion(t *testing.T) {
	tests := []struct {
		name string
		ctx  xpath.Context
		want bool
	}{
		{"empty nodeset", xpath.Context{Type: xpath.NodesetResult}, false},
		{"nonzero number", xpath.Context{Type: xpath.NumberResult, Num: 1}, true},
		{"nan number", xpath.Context{Type: xpath.NumberResult, Num: nan()}, false},
		{"empty string", xpath.Context{Type: xpath.StringResult, Str: ""}, false},
		{"nonempty string", xpath.Context{Type: xpath.StringResult, Str: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ctx.Boolean())
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
