package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProtocol = []byte(`<?xml version="1.0" encoding="UTF-8"?>
<protocol name="test_protocol">
  <interface name="wp_test_manager_v1" version="1">
    <description summary="test manager">
      A manager global used to exercise the generator.
    </description>
    <enum name="error">
      <entry name="bad_thing" value="0" summary="something bad"/>
    </enum>
    <request name="destroy" type="destructor">
      <description summary="destroy the manager"/>
    </request>
    <request name="get_thing">
      <description summary="create a thing"/>
      <arg name="id" type="new_id" interface="wp_test_thing_v1"/>
      <arg name="surface" type="object" interface="wl_surface"/>
    </request>
    <event name="ping">
      <description summary="ping"/>
      <arg name="serial" type="uint"/>
      <arg name="label" type="string"/>
    </event>
  </interface>
</protocol>`)

func TestParse(t *testing.T) {
	p, err := parse(testProtocol)
	require.NoError(t, err)
	assert.Equal(t, "test_protocol", p.Name)
	require.Len(t, p.Interfaces, 1)

	iface := p.Interfaces[0]
	assert.Equal(t, "wp_test_manager_v1", iface.Name)
	assert.Equal(t, "1", iface.Version)
	require.Len(t, iface.Requests, 2)
	require.Len(t, iface.Events, 1)
	require.Len(t, iface.Enums, 1)

	get := iface.Requests[1]
	assert.Equal(t, "get_thing", get.Name)
	require.Len(t, get.Args, 2)
	assert.Equal(t, "new_id", get.Args[0].Type)
	assert.Equal(t, "wp_test_thing_v1", get.Args[0].Interface)
}

func TestInterfaceName(t *testing.T) {
	assert.Equal(t, "Surface", InterfaceName("wl_surface"))
	assert.Equal(t, "ShmPool", InterfaceName("wl_shm_pool"))
	assert.Equal(t, "WpViewporter", InterfaceName("wp_viewporter"))
	assert.Equal(t, "WpFractionalScaleManagerV1", InterfaceName("wp_fractional_scale_manager_v1"))
}

func TestSignatures(t *testing.T) {
	p, err := parse(testProtocol)
	require.NoError(t, err)
	iface := p.Interfaces[0]

	assert.Equal(t, "", ReqSignature(iface.Requests[0].Args))
	assert.Equal(t, "error", ReqReturnSignature(iface.Requests[0].Args))

	assert.Equal(t, "surface uint32", ReqSignature(iface.Requests[1].Args))
	assert.Equal(t, "(*WpTestThingV1, error)", ReqReturnSignature(iface.Requests[1].Args))
	assert.Equal(t, "ret, nil", ReqReturn(iface.Requests[1].Args))
	assert.Equal(t, "wp_test_thing_v1", NewInterface(iface.Requests[1].Args))

	assert.Equal(t, "serial uint32, label string", ReqSignature(iface.Events[0].Args))
	assert.Equal(t, "serial, label", EvtCall(iface.Events[0].Args))
}

func TestArgDecode(t *testing.T) {
	p, err := parse(testProtocol)
	require.NoError(t, err)
	decoded := ArgDecode(p.Interfaces[0].Events[0].Args)
	assert.Contains(t, decoded, "serial := hostByteOrder.Uint32(payload[0 : 4])")
	assert.Contains(t, decoded, "label := string(payload[8+off : 8+off+l-1])")
}

func TestDescriptionToComment(t *testing.T) {
	out := DescriptionToComment("  first line\n\n  second line  ")
	assert.Equal(t, "// first line\n//\n// second line\n", out)
}
