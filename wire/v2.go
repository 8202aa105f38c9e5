package wire

import "encoding/binary"

const (
	v2SessionBegin  = 0x03
	v2SessionEnd    = 0x04
	v2DataMarker    = 0x01
	v2ContinuationMarker = 0x02
)

// FramerV2 implements the sessioned framing protocol. A session id must be
// negotiated with SessionBegin before any WriteMessage/ReadMessage, and is
// cleared by SessionEnd; using the framer outside an active session is a
// programming error in the layer above, not a wire condition, so it is
// reported as NoSession rather than attempted on the wire.
type FramerV2 struct {
	link      Link
	sessionID uint32
}

// NewFramerV2 wraps link with V2 framing. No session is active until
// SessionBegin succeeds.
func NewFramerV2(link Link) *FramerV2 {
	return &FramerV2{link: link}
}

// SessionID reports the currently negotiated session id, or zero if none.
func (f *FramerV2) SessionID() uint32 { return f.sessionID }

func (f *FramerV2) SessionBegin() error {
	var chunk Chunk
	chunk[0] = v2SessionBegin
	if err := f.link.WriteChunk(chunk); err != nil {
		return err
	}
	resp, err := f.link.ReadChunk()
	if err != nil {
		return err
	}
	if resp[0] != v2SessionBegin {
		return newFramingError(BadMagic, "session-begin reply %#x", resp[0])
	}
	sid := binary.BigEndian.Uint32(resp[1:5])
	if sid == 0 {
		return newFramingError(BadSessionID, "device assigned session id 0")
	}
	f.sessionID = sid
	return nil
}

func (f *FramerV2) SessionEnd() error {
	if f.sessionID == 0 {
		return nil
	}
	var chunk Chunk
	chunk[0] = v2SessionEnd
	binary.BigEndian.PutUint32(chunk[1:5], f.sessionID)
	if err := f.link.WriteChunk(chunk); err != nil {
		return err
	}
	resp, err := f.link.ReadChunk()
	if err != nil {
		return err
	}
	if resp[0] != v2SessionEnd {
		return newFramingError(BadMagic, "session-end reply %#x", resp[0])
	}
	f.sessionID = 0
	return nil
}

func (f *FramerV2) WriteMessage(messageType uint32, payload []byte) error {
	if f.sessionID == 0 {
		return newFramingError(NoSession, "write before session-begin")
	}

	data := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(data[0:4], messageType)
	binary.BigEndian.PutUint32(data[4:8], uint32(len(payload)))
	data = append(data, payload...)

	seq := -1
	cur := 0
	for cur < len(data) {
		var header []byte
		if seq < 0 {
			header = make([]byte, 5)
			header[0] = v2DataMarker
			binary.BigEndian.PutUint32(header[1:5], f.sessionID)
		} else {
			header = make([]byte, 9)
			header[0] = v2DataMarker
			binary.BigEndian.PutUint32(header[1:5], f.sessionID)
			binary.BigEndian.PutUint32(header[5:9], uint32(seq))
		}
		seq++

		var chunk Chunk
		n := copy(chunk[:], header)
		end := cur + (ChunkSize - len(header))
		if end > len(data) {
			end = len(data)
		}
		n += copy(chunk[n:], data[cur:end])
		cur = end

		if err := f.link.WriteChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *FramerV2) ReadMessage() (uint32, []byte, error) {
	if f.sessionID == 0 {
		return 0, nil, newFramingError(NoSession, "read before session-begin")
	}

	chunk, err := f.link.ReadChunk()
	if err != nil {
		return 0, nil, err
	}
	if chunk[0] != v2DataMarker {
		return 0, nil, newFramingError(BadMagic, "first chunk %#x", chunk[0])
	}
	if sid := binary.BigEndian.Uint32(chunk[1:5]); sid != f.sessionID {
		return 0, nil, newFramingError(BadSessionID, "got %d want %d", sid, f.sessionID)
	}
	messageType := binary.BigEndian.Uint32(chunk[5:9])
	length := binary.BigEndian.Uint32(chunk[9:13])

	payload := make([]byte, 0, length)
	payload = append(payload, chunk[13:]...)

	seq := uint32(0)
	for uint32(len(payload)) < length {
		chunk, err := f.link.ReadChunk()
		if err != nil {
			return 0, nil, err
		}
		if chunk[0] != v2ContinuationMarker {
			return 0, nil, newFramingError(BadMagic, "continuation chunk %#x", chunk[0])
		}
		if sid := binary.BigEndian.Uint32(chunk[1:5]); sid != f.sessionID {
			return 0, nil, newFramingError(BadSessionID, "got %d want %d", sid, f.sessionID)
		}
		if gotSeq := binary.BigEndian.Uint32(chunk[5:9]); gotSeq != seq {
			return 0, nil, newFramingError(UnexpectedSequenceNumber, "got %d want %d", gotSeq, seq)
		}
		seq++
		payload = append(payload, chunk[9:]...)
	}
	return messageType, payload[:length], nil
}
