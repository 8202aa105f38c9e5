package wire

import "encoding/binary"

const v1ContinuationMarker = 0x3f

var v1Magic = [2]byte{0x23, 0x23}

// FramerV1 implements the original, sessionless framing protocol. Every
// chunk after the first carries a bare 0x3f continuation marker; there is
// no session negotiation, so SessionBegin/SessionEnd are no-ops.
type FramerV1 struct {
	link Link
}

// NewFramerV1 wraps link with V1 framing.
func NewFramerV1(link Link) *FramerV1 {
	return &FramerV1{link: link}
}

func (f *FramerV1) SessionBegin() error { return nil }
func (f *FramerV1) SessionEnd() error   { return nil }

func (f *FramerV1) WriteMessage(messageType uint32, payload []byte) error {
	header := make([]byte, 8)
	header[0], header[1] = v1Magic[0], v1Magic[1]
	binary.BigEndian.PutUint16(header[2:4], uint16(messageType))
	binary.BigEndian.PutUint32(header[4:8], uint32(len(payload)))

	buf := append(header, payload...)
	for len(buf) > 0 {
		var chunk Chunk
		chunk[0] = v1ContinuationMarker
		n := copy(chunk[1:], buf)
		buf = buf[n:]
		if err := f.link.WriteChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *FramerV1) ReadMessage() (uint32, []byte, error) {
	first, err := f.link.ReadChunk()
	if err != nil {
		return 0, nil, err
	}
	if first[0] != v1ContinuationMarker || first[1] != v1Magic[0] || first[2] != v1Magic[1] {
		return 0, nil, newFramingError(BadMagic, "first chunk %x", first[:3])
	}
	messageType := uint32(binary.BigEndian.Uint16(first[3:5]))
	length := binary.BigEndian.Uint32(first[5:9])

	payload := make([]byte, 0, length)
	payload = append(payload, first[9:]...)

	for uint32(len(payload)) < length {
		chunk, err := f.link.ReadChunk()
		if err != nil {
			return 0, nil, err
		}
		if chunk[0] != v1ContinuationMarker {
			return 0, nil, newFramingError(BadMagic, "continuation chunk %x", chunk[0])
		}
		payload = append(payload, chunk[1:]...)
	}
	return messageType, payload[:length], nil
}
