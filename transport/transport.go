// Package transport composes a wire.Link and a wire.Framer into the two
// concrete transport kinds a Client can hold: legacy-HID and WebUSB. It
// adds nothing to the framing contract beyond naming which kind backs a
// given instance and taking ownership of the link's lifetime.
package transport

import (
	"io"

	"github.com/go-trezor/trezor/wire"
)

// Kind names which physical transport backs a Transport instance.
type Kind int

const (
	KindHID Kind = iota
	KindWebUSB
)

func (k Kind) String() string {
	switch k {
	case KindHID:
		return "hid"
	case KindWebUSB:
		return "webusb"
	default:
		return "unknown"
	}
}

// FramingVersion names which of the two incompatible wire.Framer
// implementations a device speaks.
type FramingVersion int

const (
	FramingV1 FramingVersion = iota
	FramingV2
)

// Transport is a Framer bound to a Kind and to the closer that releases
// its underlying Link (an HID device handle, or a claimed WebUSB
// interface) once the caller is done with it.
type Transport struct {
	kind    Kind
	version FramingVersion
	framer  wire.Framer
	closer  io.Closer
}

// New builds a Transport of kind, framing messages with version on top
// of link, and releasing closer when Close is called.
func New(kind Kind, version FramingVersion, link wire.Link, closer io.Closer) *Transport {
	var framer wire.Framer
	switch version {
	case FramingV2:
		framer = wire.NewFramerV2(link)
	default:
		framer = wire.NewFramerV1(link)
	}
	return &Transport{kind: kind, version: version, framer: framer, closer: closer}
}

// Kind reports which physical transport this instance is backed by.
func (t *Transport) Kind() Kind { return t.kind }

// FramingVersion reports which framer this instance uses.
func (t *Transport) FramingVersion() FramingVersion { return t.version }

func (t *Transport) SessionBegin() error { return t.framer.SessionBegin() }
func (t *Transport) SessionEnd() error   { return t.framer.SessionEnd() }

func (t *Transport) WriteMessage(messageType uint32, payload []byte) error {
	return t.framer.WriteMessage(messageType, payload)
}

func (t *Transport) ReadMessage() (uint32, []byte, error) {
	return t.framer.ReadMessage()
}

// Close releases the underlying link (USB handle or claimed interface).
func (t *Transport) Close() error {
	return t.closer.Close()
}
