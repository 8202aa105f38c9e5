package link

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-trezor/trezor/wire"
)

// fakeHIDDevice is a karalabe/hid.Device stand-in whose Write only
// succeeds for buffers of a chosen length, letting tests drive
// negotiateSubVariant without real hardware.
type fakeHIDDevice struct {
	acceptWriteLen int
	writes         [][]byte
	reads          [][]byte
}

func (f *fakeHIDDevice) Close() error { return nil }

func (f *fakeHIDDevice) Write(b []byte) (int, error) {
	f.writes = append(f.writes, append([]byte(nil), b...))
	if len(b) != f.acceptWriteLen {
		return 0, errors.New("fakeHIDDevice: report size rejected")
	}
	return len(b), nil
}

func (f *fakeHIDDevice) Read(b []byte) (int, error) { return f.ReadTimeout(b, 0) }

func (f *fakeHIDDevice) ReadTimeout(b []byte, timeout int) (int, error) {
	if len(f.reads) == 0 {
		return 0, errors.New("fakeHIDDevice: no more reads queued")
	}
	next := f.reads[0]
	f.reads = f.reads[1:]
	return copy(b, next), nil
}

func (f *fakeHIDDevice) GetFeatureReport(b []byte) (int, error)  { return 0, nil }
func (f *fakeHIDDevice) SendFeatureReport(b []byte) (int, error) { return 0, nil }

func TestNegotiateSubVariantPrefersV2(t *testing.T) {
	dev := &fakeHIDDevice{acceptWriteLen: 65}
	l := &HIDLink{device: dev, readTimeout: DefaultReadTimeout}
	require.NoError(t, l.negotiateSubVariant())
	assert.Equal(t, hidV2, l.subVariant)
}

func TestNegotiateSubVariantFallsBackToV1(t *testing.T) {
	dev := &fakeHIDDevice{acceptWriteLen: 64}
	l := &HIDLink{device: dev, readTimeout: DefaultReadTimeout}
	require.NoError(t, l.negotiateSubVariant())
	assert.Equal(t, hidV1, l.subVariant)
}

func TestNegotiateSubVariantGivesUp(t *testing.T) {
	dev := &fakeHIDDevice{acceptWriteLen: 10}
	l := &HIDLink{device: dev, readTimeout: DefaultReadTimeout}
	err := l.negotiateSubVariant()
	require.ErrorIs(t, err, ErrUnknownHIDVersion)
}

func TestHIDLinkWriteChunkPrependsReportIDForV2(t *testing.T) {
	dev := &fakeHIDDevice{acceptWriteLen: 65}
	l := &HIDLink{device: dev, subVariant: hidV2, readTimeout: DefaultReadTimeout}

	var c wire.Chunk
	c[0] = 0x42
	require.NoError(t, l.WriteChunk(c))
	require.Len(t, dev.writes, 1)
	assert.Equal(t, byte(0x00), dev.writes[0][0])
	assert.Equal(t, byte(0x42), dev.writes[0][1])
	assert.Len(t, dev.writes[0], 1+wire.ChunkSize)
}

func TestHIDLinkWriteChunkV1IsBareChunk(t *testing.T) {
	dev := &fakeHIDDevice{acceptWriteLen: 64}
	l := &HIDLink{device: dev, subVariant: hidV1, readTimeout: DefaultReadTimeout}

	var c wire.Chunk
	c[0] = 0x3f
	require.NoError(t, l.WriteChunk(c))
	require.Len(t, dev.writes, 1)
	assert.Equal(t, byte(0x3f), dev.writes[0][0])
	assert.Len(t, dev.writes[0], wire.ChunkSize)
}

func TestHIDLinkReadChunkTimeout(t *testing.T) {
	dev := &fakeHIDDevice{reads: [][]byte{{}}}
	l := &HIDLink{device: dev, readTimeout: time.Second}
	_, err := l.ReadChunk()
	require.ErrorIs(t, err, ErrReadTimeout)
}

func TestHIDLinkReadChunkWrongSize(t *testing.T) {
	dev := &fakeHIDDevice{reads: [][]byte{make([]byte, 10)}}
	l := &HIDLink{device: dev, readTimeout: time.Second}
	_, err := l.ReadChunk()
	require.ErrorIs(t, err, ErrUnexpectedChunkSize)
}
