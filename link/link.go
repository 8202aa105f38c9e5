// Package link implements wire.Link over the two physical transports a
// device may expose: legacy USB-HID, and raw WebUSB (libusb interrupt
// transfers). Both are read/write-one-chunk-at-a-time adapters; the
// framing semantics built on top live in the wire package.
package link

import (
	"errors"
	"time"
)

// ErrUnexpectedChunkSize is returned when a read from the underlying
// device yields fewer bytes than one full chunk.
var ErrUnexpectedChunkSize = errors.New("link: unexpected chunk size")

// ErrReadTimeout is returned by HIDLink when no chunk arrives within the
// configured read timeout. The read is not retried; the trezor package
// reports it as a ReadTimeout error.
var ErrReadTimeout = errors.New("link: read timeout")

// ErrUnknownHIDVersion is returned when neither a V2-HID nor a V1-HID
// write probe succeeds while opening a legacy-HID link.
var ErrUnknownHIDVersion = errors.New("link: could not determine HID sub-variant")

// DefaultReadTimeout is long enough to accommodate a human confirming a
// button press or typing a PIN/passphrase on the device.
const DefaultReadTimeout = 100 * time.Second
