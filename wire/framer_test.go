package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLink is an in-memory Link backed by two chunk queues, standing in
// for a real USB endpoint in framer tests.
type fakeLink struct {
	toDevice []Chunk
	toHost   []Chunk
}

func (f *fakeLink) WriteChunk(c Chunk) error {
	f.toDevice = append(f.toDevice, c)
	return nil
}

func (f *fakeLink) ReadChunk() (Chunk, error) {
	if len(f.toHost) == 0 {
		return Chunk{}, errEOF
	}
	c := f.toHost[0]
	f.toHost = f.toHost[1:]
	return c, nil
}

type eofError struct{}

func (eofError) Error() string { return "fakeLink: no more chunks queued" }

var errEOF = eofError{}

func TestFramerV1WriteThenRead(t *testing.T) {
	for _, size := range []int{0, 1, 62, 63, 64, 1024} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i)
		}

		link := &fakeLink{}
		w := NewFramerV1(link)
		require.NoError(t, w.WriteMessage(17, payload))

		// Feed what was written straight back in as the read side.
		r := NewFramerV1(&fakeLink{toHost: link.toDevice})
		gotType, gotPayload, err := r.ReadMessage()
		require.NoError(t, err)
		assert.EqualValues(t, 17, gotType)
		assert.Equal(t, payload, gotPayload)
	}
}

func TestFramerV1ChunksAreFixedSize(t *testing.T) {
	link := &fakeLink{}
	w := NewFramerV1(link)
	require.NoError(t, w.WriteMessage(1, make([]byte, 200)))
	for _, c := range link.toDevice {
		assert.Len(t, c, ChunkSize)
	}
	// Every chunk, including the zero-padded last one, starts with the marker.
	for _, c := range link.toDevice {
		assert.Equal(t, byte(v1ContinuationMarker), c[0])
	}
}

func TestFramerV1BadMagic(t *testing.T) {
	var bad Chunk
	bad[0] = v1ContinuationMarker
	bad[1] = 0x00 // corrupt magic
	bad[2] = 0x23
	r := NewFramerV1(&fakeLink{toHost: []Chunk{bad}})
	_, _, err := r.ReadMessage()
	require.Error(t, err)
	var ferr *FramingError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, BadMagic, ferr.Kind)
}

func TestFramerV2SessionBeginAssignsID(t *testing.T) {
	var resp Chunk
	resp[0] = v2SessionBegin
	resp[4] = 0x2a // session id 42, big-endian in bytes [1:5]

	link := &fakeLink{toHost: []Chunk{resp}}
	f := NewFramerV2(link)
	require.NoError(t, f.SessionBegin())
	assert.EqualValues(t, 42, f.SessionID())
}

func TestFramerV2WriteRequiresSession(t *testing.T) {
	f := NewFramerV2(&fakeLink{})
	err := f.WriteMessage(1, []byte("x"))
	require.Error(t, err)
	var ferr *FramingError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, NoSession, ferr.Kind)
}

func TestFramerV2RoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 50, 51, 200, 2048} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i * 3)
		}

		var beginResp Chunk
		beginResp[0] = v2SessionBegin
		beginResp[4] = 7

		writeLink := &fakeLink{toHost: []Chunk{beginResp}}
		w := NewFramerV2(writeLink)
		require.NoError(t, w.SessionBegin())
		require.NoError(t, w.WriteMessage(99, payload))

		readLink := &fakeLink{toHost: append([]Chunk{beginResp}, writeLink.toDevice...)}
		r := NewFramerV2(readLink)
		require.NoError(t, r.SessionBegin())
		gotType, gotPayload, err := r.ReadMessage()
		require.NoError(t, err)
		assert.EqualValues(t, 99, gotType)
		assert.Equal(t, payload, gotPayload)
	}
}

func TestFramerV2SequenceGapAborts(t *testing.T) {
	var beginResp Chunk
	beginResp[0] = v2SessionBegin
	beginResp[4] = 1

	var first Chunk
	first[0] = v2DataMarker
	first[4] = 1
	// message type 1 (bytes [5:9]), length 200 (bytes [9:13]): larger
	// than what the first chunk carries
	first[8] = 1
	first[12] = 200

	var second Chunk
	second[0] = v2ContinuationMarker
	second[4] = 1
	second[8] = 1 // should have been 0

	link := &fakeLink{toHost: []Chunk{beginResp, first, second}}
	f := NewFramerV2(link)
	require.NoError(t, f.SessionBegin())
	_, _, err := f.ReadMessage()
	require.Error(t, err)
	var ferr *FramingError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, UnexpectedSequenceNumber, ferr.Kind)
}
