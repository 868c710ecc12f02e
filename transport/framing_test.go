package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameWriterReader_endOfMessage(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	require.NoError(t, w.WriteMessage([]byte("<hello/>")))

	r := NewFrameReader(&buf)
	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "<hello/>", string(msg))
}

func TestFrameWriterReader_multipleEndOfMessageFrames(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	require.NoError(t, w.WriteMessage([]byte("<one/>")))
	require.NoError(t, w.WriteMessage([]byte("<two/>")))

	r := NewFrameReader(&buf)
	first, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "<one/>", string(first))

	second, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "<two/>", string(second))
}

func TestFrameWriterReader_chunked(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	require.NoError(t, w.EnableChunkedFraming())
	require.NoError(t, w.WriteMessage([]byte("<rpc/>")))

	r := NewFrameReader(&buf)
	require.NoError(t, r.EnableChunkedFraming())
	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "<rpc/>", string(msg))
}

func TestFrameReader_chunked_malformedSize(t *testing.T) {
	buf := bytes.NewBufferString("\n#notanumber\nxxx\n##\n")
	r := NewFrameReader(buf)
	require.NoError(t, r.EnableChunkedFraming())
	_, err := r.ReadMessage()
	assert.Error(t, err)
}

func TestFrameReader_chunked_multipleChunksInOneMessage(t *testing.T) {
	buf := bytes.NewBufferString("\n#4\nabcd\n#3\nefg\n##\n")
	r := NewFrameReader(buf)
	require.NoError(t, r.EnableChunkedFraming())
	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "abcdefg", string(msg))
}
