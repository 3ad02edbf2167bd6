package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeNameEqual(t *testing.T) {
	var a, b NodeName
	a[0] = 0x01
	b[0] = 0x01
	assert.True(t, a.Equal(b))

	b[0] = 0x02
	assert.False(t, a.Equal(b))
}

func TestNodeNameIsZero(t *testing.T) {
	var z NodeName
	assert.True(t, z.IsZero())

	z[63] = 1
	assert.False(t, z.IsZero())
}

func TestXORSelfIsZero(t *testing.T) {
	var a NodeName
	a[0], a[10], a[63] = 0xFF, 0x11, 0x01

	assert.True(t, XOR(a, a).IsZero())
}

func TestCloserTo(t *testing.T) {
	var pivot, near, far NodeName
	pivot[0] = 0x00
	near[0] = 0x01
	far[0] = 0xFF

	assert.True(t, CloserTo(near, far, pivot))
	assert.False(t, CloserTo(far, near, pivot))
}

func TestCloserToIsStrictOrdering(t *testing.T) {
	var pivot, a NodeName
	pivot[0] = 0x42
	a[0] = 0x99

	assert.False(t, CloserTo(a, a, pivot), "a node is never strictly closer than itself")
}

func TestBucketIndexIdenticalNames(t *testing.T) {
	var a NodeName
	a[0] = 0xAB
	assert.Equal(t, Size*8-1, BucketIndex(a, a))
}

func TestBucketIndexFirstDifferingBit(t *testing.T) {
	var a, b NodeName
	a[0] = 0b00000000
	b[0] = 0b01000000 // differs at bit index 1 (MSB-first)

	assert.Equal(t, 1, BucketIndex(a, b))
}
