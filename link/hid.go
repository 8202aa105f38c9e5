package link

import (
	"time"

	"github.com/karalabe/hid"

	"github.com/go-trezor/trezor/wire"
)

// hidSubVariant distinguishes the two ways a legacy-HID report can be
// shaped on the wire: devices that speak the newer numbered-report
// convention (one extra leading report-id byte) from the plain 64-byte
// ones.
type hidSubVariant int

const (
	hidV1 hidSubVariant = iota
	hidV2
)

// HIDLink drives a legacy USB-HID device. The HID sub-variant is
// negotiated once, at Open time, and fixed for the link's lifetime.
type HIDLink struct {
	device      hid.Device
	subVariant  hidSubVariant
	readTimeout time.Duration
}

// OpenHID opens info as a legacy-HID link, probing for its HID
// sub-variant as described at hidSubVariant.
func OpenHID(info hid.DeviceInfo, readTimeout time.Duration) (*HIDLink, error) {
	device, err := info.Open()
	if err != nil {
		return nil, err
	}
	l := &HIDLink{device: device, readTimeout: readTimeout}
	if err := l.negotiateSubVariant(); err != nil {
		device.Close()
		return nil, err
	}
	return l, nil
}

func (l *HIDLink) negotiateSubVariant() error {
	probeV2 := make([]byte, 65)
	probeV2[1] = 0x3f
	for i := 2; i < len(probeV2); i++ {
		probeV2[i] = 0xff
	}
	if _, err := l.device.Write(probeV2); err == nil {
		l.subVariant = hidV2
		return nil
	}

	probeV1 := make([]byte, 64)
	probeV1[0] = 0x3f
	for i := 1; i < len(probeV1); i++ {
		probeV1[i] = 0xff
	}
	if _, err := l.device.Write(probeV1); err == nil {
		l.subVariant = hidV1
		return nil
	}

	return ErrUnknownHIDVersion
}

// Close releases the underlying HID device handle.
func (l *HIDLink) Close() error {
	return l.device.Close()
}

func (l *HIDLink) WriteChunk(c wire.Chunk) error {
	if l.subVariant == hidV2 {
		buf := make([]byte, 1+wire.ChunkSize)
		copy(buf[1:], c[:])
		_, err := l.device.Write(buf)
		return err
	}
	_, err := l.device.Write(c[:])
	return err
}

func (l *HIDLink) ReadChunk() (wire.Chunk, error) {
	var c wire.Chunk
	buf := make([]byte, wire.ChunkSize)
	n, err := l.device.ReadTimeout(buf, int(l.readTimeout/time.Millisecond))
	if err != nil {
		return c, err
	}
	if n == 0 {
		return c, ErrReadTimeout
	}
	if n != wire.ChunkSize {
		return c, ErrUnexpectedChunkSize
	}
	copy(c[:], buf)
	return c, nil
}
