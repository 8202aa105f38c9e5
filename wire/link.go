// Package wire implements the two on-device framing protocols that pack a
// typed message into a stream of fixed-size USB chunks and reassemble a
// stream of chunks back into a typed message. It is deliberately ignorant
// of how a chunk physically reaches the device — that is the link
// package's job — and of what a message payload means — that is the
// messages package's job.
package wire

// ChunkSize is the number of bytes in one USB report, exclusive of any
// HID report-id byte the link layer may prepend in transit.
const ChunkSize = 64

// Chunk is one fixed-size frame as it travels across a Link.
type Chunk [ChunkSize]byte

// Link writes and reads one chunk at a time to/from a single USB
// endpoint. Implementations (legacy-HID, WebUSB) live in the link
// package; Framer only depends on this narrow interface so the two
// layers never need to import one another.
type Link interface {
	WriteChunk(c Chunk) error
	ReadChunk() (Chunk, error)
}

// Framer packs and unpacks whole messages on top of a Link. SessionBegin
// and SessionEnd are no-ops for framing versions that carry no session
// concept.
type Framer interface {
	SessionBegin() error
	SessionEnd() error
	WriteMessage(messageType uint32, payload []byte) error
	ReadMessage() (messageType uint32, payload []byte, err error)
}
