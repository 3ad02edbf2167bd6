package connmgr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameThenReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello close group")

	require.NoError(t, writeFrame(&buf, payload))

	got, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, nil))

	got, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFrameRejectsOversizedLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	oversized := make([]byte, 4)
	oversized[0] = 0xFF // forces a length far beyond maxFrameSize
	buf.Write(oversized)

	_, err := readFrame(&buf)
	assert.Error(t, err)
}

func TestReadFrameTruncatedStreamIsAnError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte("partial")))

	truncated := bytes.NewReader(buf.Bytes()[:5])
	_, err := readFrame(truncated)
	assert.Error(t, err)
}

func TestMultipleFramesPreserveBoundaries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte("first")))
	require.NoError(t, writeFrame(&buf, []byte("second")))

	first, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), first)

	second, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), second)
}
