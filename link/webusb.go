package link

import (
	"time"

	"github.com/google/gousb"

	"github.com/go-trezor/trezor/wire"
)

// WebUSB interface/endpoint numbers. Debug devices expose a second,
// dedicated interface so that debug-link traffic never interleaves with
// normal protocol traffic on the wire.
const (
	webUSBInterface      = 0
	webUSBEndpoint       = 1
	webUSBDebugInterface = 1
	webUSBDebugEndpoint  = 2
)

// WebUSBLink drives a device over raw interrupt transfers instead of the
// kernel's HID report layer. The USB interface is claimed on open and
// released when the link is closed.
type WebUSBLink struct {
	device      *gousb.Device
	ifaceCloser func()
	in          *gousb.InEndpoint
	out         *gousb.OutEndpoint
	readTimeout time.Duration
}

// OpenWebUSB claims an interface on device and returns a link ready to
// exchange chunks. If debug is true, the dedicated debug interface and
// endpoint pair are used instead of the normal protocol ones. readTimeout
// is stored on the link but not applied: ReadChunk blocks until a
// transfer completes.
func OpenWebUSB(device *gousb.Device, debug bool, readTimeout time.Duration) (*WebUSBLink, error) {
	ifaceNum, epNum := webUSBInterface, webUSBEndpoint
	if debug {
		ifaceNum, epNum = webUSBDebugInterface, webUSBDebugEndpoint
	}

	if err := device.SetAutoDetach(true); err != nil {
		return nil, err
	}

	cfg, err := device.Config(1)
	if err != nil {
		return nil, err
	}
	iface, err := cfg.Interface(ifaceNum, 0)
	if err != nil {
		cfg.Close()
		return nil, err
	}

	in, err := iface.InEndpoint(epNum)
	if err != nil {
		iface.Close()
		cfg.Close()
		return nil, err
	}
	out, err := iface.OutEndpoint(epNum)
	if err != nil {
		iface.Close()
		cfg.Close()
		return nil, err
	}

	return &WebUSBLink{
		device: device,
		in:     in,
		out:    out,
		ifaceCloser: func() {
			iface.Close()
			cfg.Close()
		},
		readTimeout: readTimeout,
	}, nil
}

// Close releases the claimed interface and the device handle, in that
// order, mirroring how they were acquired.
func (l *WebUSBLink) Close() error {
	l.ifaceCloser()
	return l.device.Close()
}

func (l *WebUSBLink) WriteChunk(c wire.Chunk) error {
	_, err := l.out.Write(c[:])
	return err
}

func (l *WebUSBLink) ReadChunk() (wire.Chunk, error) {
	var c wire.Chunk
	buf := make([]byte, wire.ChunkSize)
	n, err := l.in.Read(buf)
	if err != nil {
		return c, err
	}
	if n != wire.ChunkSize {
		return c, ErrUnexpectedChunkSize
	}
	copy(c[:], buf)
	return c, nil
}
