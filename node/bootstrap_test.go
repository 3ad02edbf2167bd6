package node

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapStateProgression(t *testing.T) {
	b := newBootstrapState()
	assert.Equal(t, Detached, b.Phase())

	addr, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:1234")
	require.NoError(t, b.setDialling(addr))
	assert.Equal(t, Dialling, b.Phase())

	endpoint, ok := b.Endpoint()
	require.True(t, ok)
	assert.Equal(t, addr.String(), endpoint.String())
}

func TestSetDiallingRejectsConcurrentAttempt(t *testing.T) {
	b := newBootstrapState()
	first, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:1234")
	second, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:5678")

	require.NoError(t, b.setDialling(first))
	assert.ErrorIs(t, b.setDialling(second), ErrBootstrapInProgress)

	endpoint, ok := b.Endpoint()
	require.True(t, ok)
	assert.Equal(t, first.String(), endpoint.String(), "the original dial attempt must not be overwritten")
}

func TestSetIdentityExchangedIsIdempotent(t *testing.T) {
	b := newBootstrapState()
	first := nameOf(0x01)
	second := nameOf(0x02)

	assert.True(t, b.setIdentityExchanged(first), "first exchange records the peer's name")
	assert.False(t, b.setIdentityExchanged(second), "a second exchange on the same bootstrap attempt is a no-op")

	got, ok := b.NodeID()
	require.True(t, ok)
	assert.True(t, got.Equal(first), "the original peer identity must be retained")
}

func TestAdvanceToInGroupOnlyFromIdentityExchanged(t *testing.T) {
	b := newBootstrapState()
	b.advanceToInGroup()
	assert.Equal(t, Detached, b.Phase(), "advancing before identity exchange has no effect")

	b.setIdentityExchanged(nameOf(0x01))
	b.advanceToInGroup()
	assert.Equal(t, InGroup, b.Phase())
}

func TestBootstrapPhaseString(t *testing.T) {
	assert.Equal(t, "InGroup", InGroup.String())
	assert.Equal(t, "Unknown", BootstrapPhase(99).String())
}
