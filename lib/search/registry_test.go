package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCommandTable(t *testing.T) {
	reg := NewRegistry(DefaultOptions())

	cmds := reg.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, "rgdelete", cmds[0].Name)
	assert.Equal(t, Write, cmds[0].Permission)
	assert.Equal(t, "rgkeys", cmds[1].Name)
	assert.Equal(t, ReadOnly, cmds[1].Permission)
	assert.Equal(t, "rgvalues", cmds[2].Name)
	assert.Equal(t, ReadOnly, cmds[2].Permission)

	_, ok := reg.Lookup("RGKEYS")
	assert.True(t, ok)
}

func TestRegistryExecute(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	gw := newFakeGateway(requestLog)

	resp, err := reg.Execute(gw, []string{"RgValues", "*", "^GET /user/"})
	require.NoError(t, err)
	assert.Equal(t, KeyList{"test1", "test2", "test3"}, resp)

	resp, err = reg.Execute(gw, []string{"rgdelete", "^test[12]$"})
	require.NoError(t, err)
	assert.Equal(t, Count(2), resp)

	resp, err = reg.Execute(gw, []string{"rgkeys", "^test[12]$"})
	require.NoError(t, err)
	assert.Equal(t, NoResults{}, resp)
}

func TestRegistryUnknownCommand(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	gw := newFakeGateway(nil)

	_, err := reg.Execute(gw, []string{"keys", "*"})
	assert.True(t, IsKind(err, KindUnknownCommand))

	_, err = reg.Execute(gw, nil)
	assert.True(t, IsKind(err, KindArity))
	assert.Zero(t, gw.enumerateCalls)
}

func TestRegistryReadOnly(t *testing.T) {
	reg := NewRegistry(Options{ReadOnly: true})
	gw := newFakeGateway(helloKeys)
	assert.True(t, reg.ReadOnly())

	_, err := reg.Execute(gw, []string{"rgdelete", "."})
	assert.True(t, IsKind(err, KindPermission))
	assert.Zero(t, gw.enumerateCalls)
	assert.Len(t, gw.data, len(helloKeys))

	// reads are still allowed
	resp, err := reg.Execute(gw, []string{"rgkeys", "^hello:"})
	require.NoError(t, err)
	assert.Equal(t, KeyList{"hello:world:2012"}, resp)
}

func TestCommandMetrics(t *testing.T) {
	reg := NewRegistry(DefaultOptions())
	gw := newFakeGateway(helloKeys)

	ok := commandCounter("rgkeys", "ok")
	failed := commandCounter("rgkeys", "error")
	okBefore, failedBefore := ok.Get(), failed.Get()

	_, err := reg.Execute(gw, []string{"rgkeys", "."})
	require.NoError(t, err)
	_, err = reg.Execute(gw, []string{"rgkeys", "("})
	require.Error(t, err)

	assert.Equal(t, okBefore+1, ok.Get())
	assert.Equal(t, failedBefore+1, failed.Get())
}
